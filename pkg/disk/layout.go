package disk

import (
	"fmt"
	"strings"
)

// ReservedSpaceBytes is kept outside the root filesystem: 2 MiB for the GPT
// header, 1 MiB for the BIOS boot partition, 256 MiB for EFI.
const ReservedSpaceBytes uint64 = (2 + 1 + 256) * 1024 * 1024

// Partition numbers of the installation layout.
const (
	PartitionBIOS = 1
	PartitionEFI  = 2
	PartitionRoot = 3
)

// Layout is the partition plan for a target disk.
type Layout struct {
	Disk      string
	SizeBytes uint64
	// RootfsKiB is the root partition size in KiB, the smallest unit sgdisk takes.
	RootfsKiB uint64
}

// NewLayout computes the partition plan for target.
func NewLayout(target Target) (Layout, error) {
	if target.SizeBytes <= ReservedSpaceBytes {
		return Layout{}, fmt.Errorf("disk %s is too small: %d bytes, need more than %d",
			target.Name, target.SizeBytes, ReservedSpaceBytes)
	}

	return Layout{
		Disk:      target.Name,
		SizeBytes: target.SizeBytes,
		RootfsKiB: (target.SizeBytes - ReservedSpaceBytes) / 1024,
	}, nil
}

// EFIPartition returns the EFI system partition device path.
func (l Layout) EFIPartition() string {
	return PartitionPath(l.Disk, PartitionEFI)
}

// RootPartition returns the root filesystem partition device path.
func (l Layout) RootPartition() string {
	return PartitionPath(l.Disk, PartitionRoot)
}

// PartitionPath returns the device path of partition n on disk. NVMe and
// MMC devices separate the partition number with a "p".
func PartitionPath(disk string, n int) string {
	prefix := ""
	for _, devType := range []string{"nvme", "mmcblk"} {
		if strings.Contains(disk, devType) {
			prefix = "p"
		}
	}
	return fmt.Sprintf("%s%s%d", disk, prefix, n)
}

// Filesystem is a filesystem created on an installation partition.
type Filesystem string

const (
	FilesystemEFI  Filesystem = "efi"
	FilesystemExt4 Filesystem = "ext4"
)

// MountType returns the kernel filesystem type used to mount fs.
func (fs Filesystem) MountType() string {
	if fs == FilesystemEFI {
		return "vfat"
	}
	return string(fs)
}
