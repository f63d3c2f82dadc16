package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/procfs"
)

// DefaultVersionFile describes the image the live system was booted from.
const DefaultVersionFile = "/usr/share/vyos/version.json"

// Image inspects the running system image.
type Image struct {
	cmdline     func() ([]string, error)
	versionFile string
}

// NewImage creates an Image reading /proc/cmdline.
func NewImage() *Image {
	return &Image{
		cmdline: func() ([]string, error) {
			fs, err := procfs.NewDefaultFS()
			if err != nil {
				return nil, err
			}
			return fs.CmdLine()
		},
		versionFile: DefaultVersionFile,
	}
}

// IsLiveBoot reports whether the system runs from live media rather than
// from an installed image.
func (i *Image) IsLiveBoot() (bool, error) {
	args, err := i.cmdline()
	if err != nil {
		return false, fmt.Errorf("failed to read kernel command line: %w", err)
	}

	live := false
	for _, arg := range args {
		if strings.HasPrefix(arg, "vyos-union=") {
			return false, nil
		}
		if arg == "boot=live" {
			live = true
		}
	}
	return live, nil
}

// RunningImage returns the name of the running live image from the version
// file of the live medium.
func (i *Image) RunningImage() (string, error) {
	data, err := os.ReadFile(i.versionFile)
	if err != nil {
		return "", fmt.Errorf("failed to read image version: %w", err)
	}
	var version struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &version); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", i.versionFile, err)
	}
	if version.Version == "" {
		return "", errors.New("image version is empty")
	}
	return version.Version, nil
}
