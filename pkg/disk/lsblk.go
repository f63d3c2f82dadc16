package disk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// lsblkOutput represents the output of `lsblk -J -b -p`.
type lsblkOutput struct {
	BlockDevices *[]lsblkDevice `json:"blockdevices"`
}

type lsblkDevice struct {
	Name     string        `json:"name"`
	Size     lsblkSize     `json:"size"`
	Type     string        `json:"type"`
	Children []lsblkDevice `json:"children"`
}

// lsblkSize accepts both the numeric form printed by current util-linux and
// the quoted form printed by older releases.
type lsblkSize uint64

func (s *lsblkSize) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", string(data), err)
	}
	*s = lsblkSize(n)
	return nil
}

// LsblkEnumerator queries block devices with lsblk.
type LsblkEnumerator struct {
	exec hostexec.Executor
}

// NewLsblkEnumerator creates an enumerator backed by the given executor.
func NewLsblkEnumerator(exec hostexec.Executor) *LsblkEnumerator {
	return &LsblkEnumerator{exec: exec}
}

// Enumerate runs lsblk and returns the physical disks it reports.
func (e *LsblkEnumerator) Enumerate(ctx context.Context) (map[string]uint64, error) {
	output, err := e.exec.Output(ctx, "lsblk", "-J", "-b", "-p")
	if err != nil {
		return nil, &QueryError{Source: SourceLsblk, Err: err}
	}

	devices, err := ParseLsblk(output)
	if err != nil {
		return nil, &QueryError{Source: SourceLsblk, Err: err}
	}

	return physicalDisks(devices), nil
}

// ParseLsblk decodes lsblk JSON into top-level device records. Children
// (partitions, holders) are not returned.
func ParseLsblk(data []byte) ([]Device, error) {
	var lsblk lsblkOutput
	if err := json.Unmarshal(data, &lsblk); err != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %w", err)
	}
	if lsblk.BlockDevices == nil {
		return nil, errors.New("lsblk output has no blockdevices list")
	}

	devices := make([]Device, 0, len(*lsblk.BlockDevices))
	for _, dev := range *lsblk.BlockDevices {
		if dev.Name == "" {
			return nil, errors.New("lsblk reported a device without a name")
		}
		devices = append(devices, Device{
			Name:      dev.Name,
			SizeBytes: uint64(dev.Size),
			Kind:      Kind(dev.Type),
		})
	}

	return devices, nil
}
