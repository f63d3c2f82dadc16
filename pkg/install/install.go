// Package install performs the unattended installation of the running live
// image onto a local disk.
package install

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/disk"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/validation"
)

var (
	// ErrNotLiveBoot is returned when the system was not booted from live media.
	ErrNotLiveBoot = errors.New("installation can only run in live-boot mode")
	// ErrNoSuitableDisk is returned when no disk exceeds the minimum size.
	ErrNoSuitableDisk = errors.New("no suitable disk found for installation")
	// ErrInvalidConfig is returned when the install section fails validation.
	ErrInvalidConfig = errors.New("invalid installation config")
)

// DiskManager partitions, formats and mounts the target disk.
type DiskManager interface {
	Cleanup(ctx context.Context, diskPath string) error
	CreatePartitionTable(ctx context.Context, diskPath string, rootfsKiB uint64) error
	CreateFilesystem(ctx context.Context, device string, fs disk.Filesystem) error
	Mount(device, target string, fs disk.Filesystem) error
	Unmount(target string) error
	WaitForUnmount(ctx context.Context, target string) error
}

// Bootloader installs and configures the boot loader of the target.
type Bootloader interface {
	Configure(rootDir string, vars map[string]string) error
	AddImage(rootDir, image, cmdlineExtra string) error
	SetDefault(rootDir, image string) error
	Install(ctx context.Context, diskPath, bootDir, efiDir string) error
	SortInodes(rootDir string) error
}

// ImageInspector describes the running system image.
type ImageInspector interface {
	IsLiveBoot() (bool, error)
	RunningImage() (string, error)
}

// MountLister lists mount points below a directory, deepest first.
type MountLister interface {
	Under(dir string) ([]string, error)
}

// Deps are the collaborators of an Installer.
type Deps struct {
	Enumerator disk.Enumerator
	Selector   *disk.Selector
	Disks      DiskManager
	Bootloader Bootloader
	Image      ImageInspector
	Mounts     MountLister
	Exec       hostexec.Executor
	Paths      Paths
}

// Installer runs the installation sequence.
type Installer struct {
	Deps
	log  logr.Logger
	sync func()
}

// New creates an Installer.
func New(deps Deps, log logr.Logger) *Installer {
	if deps.Selector == nil {
		deps.Selector = disk.NewSelector()
	}
	return &Installer{Deps: deps, log: log, sync: unix.Sync}
}

// FindTarget enumerates the host disks and selects the installation target.
// A *disk.QueryError is returned unchanged; ErrNoSuitableDisk means the query
// worked but no disk qualified.
func (in *Installer) FindTarget(ctx context.Context) (disk.Target, error) {
	disks, err := in.Enumerator.Enumerate(ctx)
	if err != nil {
		return disk.Target{}, err
	}
	in.log.V(1).Info("Enumerated disks", "count", len(disks))

	target, ok := in.Selector.SelectTarget(disks)
	if !ok {
		return disk.Target{}, ErrNoSuitableDisk
	}
	return target, nil
}

// Run installs the running image if cfg activates unattended installation.
func (in *Installer) Run(ctx context.Context, cfg *config.CloudConfig) error {
	if !cfg.Install.Activated {
		in.log.Info("Unattended installation is not activated in configuration")
		return nil
	}

	live, err := in.Image.IsLiveBoot()
	if err != nil {
		return err
	}
	if !live {
		in.log.Error(ErrNotLiveBoot, "This module can be run only in a live-boot mode")
		return ErrNotLiveBoot
	}

	if result := validation.Validate(cfg); result.HasErrors() {
		for _, issue := range result.Issues {
			if issue.Severity == validation.SeverityError {
				in.log.Error(nil, issue.Message, "field", issue.Field)
			}
		}
		return fmt.Errorf("%w: %d error(s)", ErrInvalidConfig, result.ErrorCount())
	}

	imageName, err := in.Image.RunningImage()
	if err != nil {
		return err
	}

	target, err := in.FindTarget(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSuitableDisk) {
			in.log.Error(err, "No suitable disk found for installation")
		}
		return err
	}

	layout, err := disk.NewLayout(target)
	if err != nil {
		return err
	}
	in.log.Info("System will be installed", "target", target.Name, "sizeBytes", target.SizeBytes)
	in.log.Info("Rootfs size", "sizeKiB", layout.RootfsKiB)

	if err := in.install(ctx, cfg.Install, layout, imageName); err != nil {
		return err
	}

	if cfg.Install.PostReboot {
		in.log.Info("Adding reboot trigger to postconfig script", "script", in.Paths.PostconfigScript)
		if err := appendReboot(in.Paths.PostconfigScript); err != nil {
			return err
		}
	}

	in.sync()
	return nil
}

// install writes the target disk. Every mount below the installation
// directory is released before it returns.
func (in *Installer) install(ctx context.Context, cfg config.InstallConfig, layout disk.Layout, imageName string) (err error) {
	if err := in.partition(ctx, layout); err != nil {
		return err
	}

	root := in.Paths.TargetRoot()
	if err := mkdirAll(root); err != nil {
		return err
	}
	in.log.Info("Prepared temporary folders for installation", "dir", root)

	defer func() {
		if cleanupErr := in.Cleanup(ctx); cleanupErr != nil {
			if err == nil {
				err = cleanupErr
			} else {
				in.log.Error(cleanupErr, "Cleanup after failed installation did not complete")
			}
			return
		}
		in.log.Info("Temporary resources freed up")
	}()

	if err := in.Disks.Mount(layout.RootPartition(), root, disk.FilesystemExt4); err != nil {
		return err
	}
	in.log.Info("Partition mounted", "partition", layout.RootPartition(), "target", root)

	efiDir := filepath.Join(root, "boot", "efi")
	if err := mkdirAll(efiDir); err != nil {
		return err
	}
	if err := in.Disks.Mount(layout.EFIPartition(), efiDir, disk.FilesystemEFI); err != nil {
		return err
	}
	in.log.Info("Partition mounted", "partition", layout.EFIPartition(), "target", efiDir)

	if err := in.copySystem(ctx, root, imageName); err != nil {
		return err
	}

	if err := in.setupBootloader(ctx, cfg.BootParams, layout.Disk, root, imageName); err != nil {
		return err
	}

	if cfg.CIDisable {
		in.log.Info("Disabling cloud-init")
		if err := disableCloudInit(root, imageName); err != nil {
			return err
		}
	}

	return nil
}

func (in *Installer) partition(ctx context.Context, layout disk.Layout) error {
	if err := in.Disks.Cleanup(ctx, layout.Disk); err != nil {
		return fmt.Errorf("failed to clean disk %s: %w", layout.Disk, err)
	}
	in.log.Info("Disk cleaned", "disk", layout.Disk)

	if err := in.Disks.CreatePartitionTable(ctx, layout.Disk, layout.RootfsKiB); err != nil {
		return fmt.Errorf("failed to create partition table: %w", err)
	}
	in.log.Info("Partition table created")

	if err := in.Disks.CreateFilesystem(ctx, layout.EFIPartition(), disk.FilesystemEFI); err != nil {
		return fmt.Errorf("failed to create EFI filesystem: %w", err)
	}
	in.log.Info("EFI filesystem created", "partition", layout.EFIPartition())

	if err := in.Disks.CreateFilesystem(ctx, layout.RootPartition(), disk.FilesystemExt4); err != nil {
		return fmt.Errorf("failed to create ext4 filesystem: %w", err)
	}
	in.log.Info("Ext4 filesystem created", "partition", layout.RootPartition())
	return nil
}

func (in *Installer) setupBootloader(ctx context.Context, params config.BootParams, diskPath, root, imageName string) error {
	in.log.V(1).Info("Installing GRUB configuration files")
	if err := in.Bootloader.Configure(root, params.BootVars()); err != nil {
		return err
	}
	in.log.Info("GRUB configured")

	if err := in.Bootloader.AddImage(root, imageName, params.CmdlineExtra); err != nil {
		return err
	}
	if err := in.Bootloader.SetDefault(root, imageName); err != nil {
		return err
	}

	bootDir := filepath.Join(root, "boot")
	if err := in.Bootloader.Install(ctx, diskPath, bootDir, filepath.Join(bootDir, "efi")); err != nil {
		return fmt.Errorf("failed to install GRUB: %w", err)
	}
	in.log.Info("GRUB installed")

	return in.Bootloader.SortInodes(root)
}
