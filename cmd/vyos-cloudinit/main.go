// Package main provides the vyos-cloudinit CLI, the entry point the init
// framework invokes for each boot hook.
package main

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/logging"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by the subcommands.
type app struct {
	exec      hostexec.Executor
	log       logr.Logger
	logLevel  string
	logFormat string
	// newLogger builds the logger from the global flags.
	newLogger func(opts logging.Options) (logr.Logger, error)
}

// newRootCmd creates the root command for vyos-cloudinit
func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(&app{
		exec:      &hostexec.RealExecutor{},
		newLogger: logging.New,
	})
}

// newRootCmdWithApp creates the root command around a custom app (for testing).
func newRootCmdWithApp(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vyos-cloudinit",
		Short: "VyOS cloud-init boot hooks",
		Long: `vyos-cloudinit runs the VyOS boot hooks of the cloud-init framework.

It provides:
  - vyos_install: unattended installation of the live image to the first
    local disk larger than 2 GiB (once per instance)
  - vyos_ifupdown: removal of the network configuration cloud-init applied
    (every boot)
  - Inspection helpers for disks, cloud-config and host dependencies`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := a.newLogger(logging.Options{Level: a.logLevel, Format: a.logFormat})
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", logging.FormatConsole, "Log format (console, json)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newModulesCmd(a),
		newDisksCmd(a),
		newValidateCmd(a),
		newDoctorCmd(a),
		newExampleConfigCmd(),
	)

	return rootCmd
}
