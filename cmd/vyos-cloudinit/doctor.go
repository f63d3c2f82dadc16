package main

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/doctor"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd(a *app) *cobra.Command {
	var fix bool
	var imagePath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check host utilities required by the hooks",
		Long: `Check that the host utilities each hook runs are installed and that the
live medium is present. With --fix, missing packages are installed via apt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker := doctor.NewChecker(a.exec)
			checker.SetImagePath(imagePath)

			groups := checker.CheckAllAsync(cmd.Context())
			out := cmd.OutOrStdout()

			for _, group := range groups {
				fmt.Fprintln(out, titleStyle.Render(group.Name)+" "+subtitleStyle.Render(group.Description))
				for _, check := range group.Checks {
					fmt.Fprintf(out, "  %s %-14s %s\n", statusIcon(check.Status), check.Name, dimStyle.Render(check.Message))
					if check.Status == doctor.StatusMissing && check.FixCommand != nil && !fix {
						fmt.Fprintf(out, "      fix: %s\n", check.FixCommand.Command)
					}
				}
				fmt.Fprintln(out)
			}

			summary := checker.GetSummary(groups)
			fmt.Fprintf(out, "%d ok, %d missing, %d warning(s), %d error(s)\n",
				summary.OK, summary.Missing, summary.Warnings, summary.Errors)

			if !checker.HasIssues(groups) {
				return nil
			}
			if !fix {
				return fmt.Errorf("%d dependency issue(s) found", summary.Missing+summary.Errors)
			}

			return runFixes(cmd.Context(), a.log, checker, groups)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Install missing packages")
	cmd.Flags().StringVar(&imagePath, "image", doctor.DefaultRootfsImage, "Live rootfs image path")
	return cmd
}

// runFixes installs the packages of missing checks. Checks that failed with
// an error, or are missing without a fix, still fail the command.
func runFixes(ctx context.Context, log logr.Logger, checker *doctor.Checker, groups []doctor.CheckGroup) error {
	unresolved := 0
	for _, group := range groups {
		for _, check := range group.Checks {
			switch {
			case check.Status == doctor.StatusError:
				unresolved++
			case check.Status != doctor.StatusMissing:
			case check.FixCommand == nil:
				unresolved++
			default:
				log.Info("Running fix", "check", check.ID, "command", check.FixCommand.Command)
				if err := checker.RunFix(ctx, check.FixCommand); err != nil {
					return err
				}
			}
		}
	}

	if unresolved > 0 {
		return fmt.Errorf("%d dependency issue(s) could not be fixed", unresolved)
	}
	return nil
}

func statusIcon(s doctor.CheckStatus) string {
	switch s {
	case doctor.StatusOK:
		return successStyle.Render("✓")
	case doctor.StatusWarning:
		return warningStyle.Render("!")
	default:
		return errorStyle.Render("✗")
	}
}
