package disk

import (
	"context"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"
)

// ignoredPrefixes are kernel device names ghw lists as disks that lsblk
// reports under a different type.
var ignoredPrefixes = []string{"loop", "ram", "zram"}

// SysfsEnumerator reads the block inventory from sysfs through ghw.
type SysfsEnumerator struct {
	blockInfo func() (*block.Info, error)
}

// NewSysfsEnumerator creates an enumerator backed by ghw.
func NewSysfsEnumerator() *SysfsEnumerator {
	return &SysfsEnumerator{
		blockInfo: func() (*block.Info, error) {
			return ghw.Block()
		},
	}
}

// Enumerate returns the physical disks found in sysfs.
func (e *SysfsEnumerator) Enumerate(_ context.Context) (map[string]uint64, error) {
	info, err := e.blockInfo()
	if err != nil {
		return nil, &QueryError{Source: SourceSysfs, Err: err}
	}

	devices := make([]Device, 0, len(info.Disks))
	for _, d := range info.Disks {
		devices = append(devices, Device{
			Name:      "/dev/" + d.Name,
			SizeBytes: d.SizeBytes,
			Kind:      sysfsKind(d),
		})
	}

	return physicalDisks(devices), nil
}

func sysfsKind(d *block.Disk) Kind {
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(d.Name, prefix) {
			return KindLoop
		}
	}
	switch d.DriveType {
	case block.DriveTypeODD, block.DriveTypeFDD:
		return KindROM
	}
	return KindDisk
}
