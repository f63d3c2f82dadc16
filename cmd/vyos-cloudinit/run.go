package main

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/disk"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hook"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/install"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/netcleanup"
)

// newRegistry wires the hook modules to the host implementations.
func newRegistry(exec hostexec.Executor, enumerator disk.Enumerator, selector *disk.Selector) *hook.Registry {
	return hook.NewRegistry(
		&hook.InstallModule{NewInstaller: func(log logr.Logger) *install.Installer {
			return install.NewHost(exec, enumerator, selector, log)
		}},
		&hook.IfupdownModule{NewCleaner: func(log logr.Logger) *netcleanup.Cleaner {
			return netcleanup.NewCleaner(exec, log)
		}},
	)
}

// newRunCmd creates the run subcommand
func newRunCmd(a *app) *cobra.Command {
	var configPath, instanceID, semDir, source string
	var force bool

	cmd := &cobra.Command{
		Use:   "run <module>",
		Short: "Run a boot hook module",
		Long: `Run a boot hook module the way the init framework does.

Per-instance and once modules leave a marker under --sem-dir after a
successful run and are skipped while the marker exists. Use --force to
run them again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enumerator, err := disk.NewEnumerator(source, a.exec)
			if err != nil {
				return err
			}

			module, err := newRegistry(a.exec, enumerator, disk.NewSelector()).Get(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(a.log, configPath)
			if err != nil {
				return err
			}

			runner := hook.NewRunner(semDir, instanceID, a.log)
			runner.Force = force

			ran, err := runner.Run(cmd.Context(), module, cfg)
			if err != nil {
				return err
			}
			if !ran {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf("%s already ran, skipped", module.Name())))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Cloud-config path")
	cmd.Flags().StringVar(&instanceID, "instance-id", "", "Instance ID for per-instance modules")
	cmd.Flags().StringVar(&semDir, "sem-dir", hook.DefaultSemDir, "Directory for run markers")
	cmd.Flags().StringVar(&source, "source", disk.SourceLsblk, "Block device source (lsblk, sysfs)")
	cmd.Flags().BoolVar(&force, "force", false, "Run even if the module already ran")

	return cmd
}

// loadConfig reads the cloud-config. A missing file yields the defaults, the
// same as an instance without user data.
func loadConfig(log logr.Logger, path string) (*config.CloudConfig, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotFound) {
		log.Info("No cloud-config found, using defaults", "path", path)
		return config.NewCloudConfig(), nil
	}
	return cfg, err
}

// newModulesCmd creates the modules subcommand
func newModulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List available hook modules",
		Long:  `List the boot hook modules and how often the init framework runs them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Modules"))
			for _, m := range newRegistry(a.exec, nil, nil).Modules() {
				fmt.Fprintf(out, "  %-16s %s\n", m.Name(), dimStyle.Render("per "+string(m.Frequency())))
			}
			return nil
		},
	}
}
