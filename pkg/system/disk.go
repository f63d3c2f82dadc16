package system

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/disk"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// unmountPollInterval is how often WaitForUnmount re-reads the mount table.
const unmountPollInterval = 100 * time.Millisecond

// DiskManager prepares the target disk with host partitioning tools.
type DiskManager struct {
	exec   hostexec.Executor
	mounts *Mounts
	log    logr.Logger

	// mount and unmount are the syscalls, replaced in tests.
	mount   func(source, target, fstype string, flags uintptr, data string) error
	unmount func(target string, flags int) error
}

// NewDiskManager creates a DiskManager.
func NewDiskManager(exec hostexec.Executor, mounts *Mounts, log logr.Logger) *DiskManager {
	return &DiskManager{
		exec:    exec,
		mounts:  mounts,
		log:     log,
		mount:   unix.Mount,
		unmount: unix.Unmount,
	}
}

// Cleanup removes filesystem signatures and partition tables from diskPath.
func (m *DiskManager) Cleanup(ctx context.Context, diskPath string) error {
	if err := m.exec.Run(ctx, "wipefs", "--all", "--force", diskPath); err != nil {
		return err
	}
	if err := m.exec.Run(ctx, "sgdisk", "--zap-all", diskPath); err != nil {
		return err
	}
	return nil
}

// CreatePartitionTable writes a GPT with BIOS boot, EFI and root partitions.
func (m *DiskManager) CreatePartitionTable(ctx context.Context, diskPath string, rootfsKiB uint64) error {
	args := []string{
		"-a1",
		fmt.Sprintf("-n%d:34:2047", disk.PartitionBIOS), fmt.Sprintf("-t%d:EF02", disk.PartitionBIOS),
		fmt.Sprintf("-n%d:2048:+256M", disk.PartitionEFI), fmt.Sprintf("-t%d:EF00", disk.PartitionEFI),
		fmt.Sprintf("-n%d:0:+%s", disk.PartitionRoot, formatKiB(rootfsKiB)), fmt.Sprintf("-t%d:8300", disk.PartitionRoot),
		diskPath,
	}
	m.log.V(1).Info("Writing partition table", "disk", diskPath, "rootfs", formatKiB(rootfsKiB))
	if err := m.exec.Run(ctx, "sgdisk", args...); err != nil {
		return err
	}
	m.log.V(1).Info("Re-reading partition table", "disk", diskPath)
	return m.exec.Run(ctx, "partprobe", diskPath)
}

// CreateFilesystem formats device.
func (m *DiskManager) CreateFilesystem(ctx context.Context, device string, fs disk.Filesystem) error {
	switch fs {
	case disk.FilesystemEFI:
		return m.exec.Run(ctx, "mkfs", "-t", "fat", "-n", "EFI", device)
	case disk.FilesystemExt4:
		return m.exec.Run(ctx, "mkfs", "-t", "ext4", "-L", "persistence", device)
	default:
		return fmt.Errorf("unsupported filesystem: %s", fs)
	}
}

// Mount mounts device on target.
func (m *DiskManager) Mount(device, target string, fs disk.Filesystem) error {
	if err := m.mount(device, target, fs.MountType(), 0, ""); err != nil {
		return &os.PathError{Op: "mount " + device, Path: target, Err: err}
	}
	return nil
}

// Unmount unmounts target.
func (m *DiskManager) Unmount(target string) error {
	if err := m.unmount(target, 0); err != nil {
		return &os.PathError{Op: "umount", Path: target, Err: err}
	}
	return nil
}

// WaitForUnmount blocks until target leaves the mount table or ctx ends.
func (m *DiskManager) WaitForUnmount(ctx context.Context, target string) error {
	ticker := time.NewTicker(unmountPollInterval)
	defer ticker.Stop()

	for {
		mounted, err := m.mounts.IsMounted(target)
		if err != nil {
			return err
		}
		if !mounted {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s still mounted: %w", target, ctx.Err())
		case <-ticker.C:
		}
	}
}

// formatKiB renders a size in sgdisk's KiB notation.
func formatKiB(kib uint64) string {
	return strconv.FormatUint(kib, 10) + "K"
}
