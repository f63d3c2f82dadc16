package main

import (
	"fmt"

	"github.com/spf13/cobra"

	cloudinit "github.com/jaspreet-dot-casa/vyos-cloudinit/cloud-init"
)

// newExampleConfigCmd creates the example-config subcommand
func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print an example cloud-config",
		Long:  `Print a cloud-config enabling the unattended installer, suitable as user data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), cloudinit.Example)
			return err
		},
	}
}
