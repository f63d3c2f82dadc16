package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/disk"
)

// newDisksCmd creates the disks subcommand
func newDisksCmd(a *app) *cobra.Command {
	var source string
	var minSize uint64

	cmd := &cobra.Command{
		Use:   "disks",
		Short: "Show physical disks and the installation target",
		Long: `List the physical disks of the host and show which one the installer
would select. Partitions, loop devices and optical drives are not listed.
Nothing on the host is modified.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enumerator, err := disk.NewEnumerator(source, a.exec)
			if err != nil {
				return err
			}

			disks, err := enumerator.Enumerate(cmd.Context())
			if err != nil {
				return err
			}

			selector := &disk.Selector{MinSizeBytes: minSize}
			target, ok := selector.SelectTarget(disks)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Physical disks"))
			fmt.Fprintln(out, subtitleStyle.Render(fmt.Sprintf("source: %s, minimum size: more than %s", source, formatBytes(minSize))))

			names := make([]string, 0, len(disks))
			for name := range disks {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				size := disks[name]
				line := fmt.Sprintf("  %-16s %12s  %d bytes", name, formatBytes(size), size)
				switch {
				case ok && name == target.Name:
					fmt.Fprintln(out, successStyle.Render(line+"  <- target"))
				case size > minSize:
					fmt.Fprintln(out, line)
				default:
					fmt.Fprintln(out, dimStyle.Render(line+"  (too small)"))
				}
			}

			if !ok {
				fmt.Fprintln(out, warningStyle.Render("\nNo suitable disk found for installation"))
				return nil
			}

			layout, err := disk.NewLayout(target)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, titleStyle.Render("Planned layout"))
			fmt.Fprintf(out, "  %-16s BIOS boot\n", disk.PartitionPath(layout.Disk, disk.PartitionBIOS))
			fmt.Fprintf(out, "  %-16s EFI (256 MiB)\n", layout.EFIPartition())
			fmt.Fprintf(out, "  %-16s root (%d KiB)\n", layout.RootPartition(), layout.RootfsKiB)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", disk.SourceLsblk, "Block device source (lsblk, sysfs)")
	cmd.Flags().Uint64Var(&minSize, "min-size", disk.DefaultMinSizeBytes, "Size in bytes a disk must exceed")

	return cmd
}
