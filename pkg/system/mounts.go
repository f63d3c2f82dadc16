// Package system implements the installer's host collaborators: disk
// preparation, mounts, live image inspection and the GRUB bootloader.
package system

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/prometheus/procfs"
)

// Mounts lists active mounts from /proc/self/mountinfo.
type Mounts struct {
	getMounts func() ([]*procfs.MountInfo, error)
}

// NewMounts creates a Mounts reader for the current process.
func NewMounts() *Mounts {
	return &Mounts{getMounts: procfs.GetMounts}
}

// Under returns the mount points at or below dir in reverse mount order, so
// they can be unmounted in order. A point with stacked mounts is listed once
// per mount.
func (m *Mounts) Under(dir string) ([]string, error) {
	infos, err := m.getMounts()
	if err != nil {
		return nil, fmt.Errorf("failed to read mounts: %w", err)
	}

	dir = filepath.Clean(dir)
	var points []string
	for i := len(infos) - 1; i >= 0; i-- {
		mp := filepath.Clean(infos[i].MountPoint)
		if mp != dir && !strings.HasPrefix(mp, dir+"/") {
			continue
		}
		points = append(points, mp)
	}
	return points, nil
}

// IsMounted reports whether dir is an active mount point.
func (m *Mounts) IsMounted(dir string) (bool, error) {
	infos, err := m.getMounts()
	if err != nil {
		return false, fmt.Errorf("failed to read mounts: %w", err)
	}
	dir = filepath.Clean(dir)
	for _, info := range infos {
		if filepath.Clean(info.MountPoint) == dir {
			return true, nil
		}
	}
	return false, nil
}
