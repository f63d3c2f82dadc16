package system

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImage(t *testing.T, cmdline []string, version string) *Image {
	t.Helper()
	versionFile := filepath.Join(t.TempDir(), "version.json")
	if version != "" {
		require.NoError(t, os.WriteFile(versionFile, []byte(version), 0644))
	}
	return &Image{
		cmdline:     func() ([]string, error) { return cmdline, nil },
		versionFile: versionFile,
	}
}

func TestImage_IsLiveBoot(t *testing.T) {
	tests := []struct {
		name     string
		cmdline  []string
		expected bool
	}{
		{
			name:     "live media",
			cmdline:  []string{"BOOT_IMAGE=/live/vmlinuz", "boot=live", "components", "console=ttyS0,115200"},
			expected: true,
		},
		{
			name:     "installed image",
			cmdline:  []string{"BOOT_IMAGE=/boot/1.4.0/vmlinuz", "boot=live", "vyos-union=/boot/1.4.0"},
			expected: false,
		},
		{
			name:     "plain kernel",
			cmdline:  []string{"root=/dev/sda1", "ro"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, err := newTestImage(t, tt.cmdline, "").IsLiveBoot()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, live)
		})
	}
}

func TestImage_IsLiveBootError(t *testing.T) {
	img := &Image{cmdline: func() ([]string, error) { return nil, errors.New("no procfs") }}
	_, err := img.IsLiveBoot()
	assert.ErrorContains(t, err, "kernel command line")
}

func TestImage_RunningImage(t *testing.T) {
	t.Run("cmdline is not consulted", func(t *testing.T) {
		img := newTestImage(t, nil, `{"version": "1.4.0-rolling"}`)
		img.cmdline = func() ([]string, error) { return nil, errors.New("no procfs") }
		name, err := img.RunningImage()
		require.NoError(t, err)
		assert.Equal(t, "1.4.0-rolling", name)
	})

	t.Run("live image from version file", func(t *testing.T) {
		img := newTestImage(t, []string{"boot=live"}, `{"version": "1.5-stream-2025-Q1", "flavor": "generic"}`)
		name, err := img.RunningImage()
		require.NoError(t, err)
		assert.Equal(t, "1.5-stream-2025-Q1", name)
	})

	t.Run("missing version file", func(t *testing.T) {
		_, err := newTestImage(t, []string{"boot=live"}, "").RunningImage()
		assert.ErrorContains(t, err, "failed to read image version")
	})

	t.Run("empty version", func(t *testing.T) {
		_, err := newTestImage(t, []string{"boot=live"}, `{"version": ""}`).RunningImage()
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("malformed version file", func(t *testing.T) {
		_, err := newTestImage(t, []string{"boot=live"}, `{`).RunningImage()
		assert.ErrorContains(t, err, "failed to parse")
	})
}
