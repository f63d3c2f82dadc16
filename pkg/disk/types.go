// Package disk enumerates the host's physical disks and picks the target for
// an unattended installation.
package disk

import (
	"context"
	"fmt"
)

// Kind is the block-device category reported by the host.
type Kind string

const (
	KindDisk      Kind = "disk"
	KindPartition Kind = "part"
	KindLoop      Kind = "loop"
	KindROM       Kind = "rom"
)

// Device is a single block device as reported by the host query.
type Device struct {
	Name      string // Device path: /dev/sda, /dev/nvme0n1
	SizeBytes uint64 // Total addressable capacity
	Kind      Kind
}

// Target is the disk chosen for installation.
type Target struct {
	Name      string
	SizeBytes uint64
}

// Enumerator returns the physical disks of the host keyed by device name.
// Partitions and every other non-disk kind are never part of the result.
type Enumerator interface {
	Enumerate(ctx context.Context) (map[string]uint64, error)
}

// QueryError is returned when the host block-device query could not be run
// or produced data that cannot be turned into device records.
type QueryError struct {
	Source string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("block device query via %s failed: %v", e.Source, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Source names accepted by NewEnumerator.
const (
	SourceLsblk = "lsblk"
	SourceSysfs = "sysfs"
)

// physicalDisks reduces a device list to the name -> size mapping handed to
// the selector.
func physicalDisks(devices []Device) map[string]uint64 {
	disks := make(map[string]uint64, len(devices))
	for _, dev := range devices {
		if dev.Kind != KindDisk {
			continue
		}
		disks[dev.Name] = dev.SizeBytes
	}
	return disks
}
