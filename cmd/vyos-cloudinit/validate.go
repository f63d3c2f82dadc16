package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/validation"
)

// newValidateCmd creates the validate subcommand
func newValidateCmd(_ *app) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the cloud-config",
		Long:  `Validate the vyos_install section of a cloud-config file for correctness.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			result := validation.Validate(cfg)
			out := cmd.OutOrStdout()

			for _, issue := range result.Issues {
				if issue.Severity == validation.SeverityError {
					fmt.Fprintf(out, "%s %s (%s)\n", errorStyle.Render("[ERROR]"), issue.Message, issue.Field)
				} else {
					fmt.Fprintf(out, "%s %s (%s)\n", warningStyle.Render("[WARNING]"), issue.Message, issue.Field)
				}
			}

			if result.HasErrors() {
				return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
			}

			if len(result.Issues) == 0 {
				fmt.Fprintln(out, successStyle.Render("Configuration is valid."))
			} else {
				fmt.Fprintf(out, "\nValidation passed with %d warning(s).\n", result.WarningCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Cloud-config path")
	return cmd
}
