package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// Default host locations used by the installer.
const (
	DefaultInstallationDir  = "/mnt/installation"
	DefaultKernelDir        = "/boot"
	DefaultRootfsImage      = "/usr/lib/live/mount/medium/live/filesystem.squashfs"
	DefaultConfigDir        = "/opt/vyatta/etc/config"
	DefaultPostconfigScript = "/opt/vyatta/etc/config/scripts/vyos-postconfig-bootup.script"

	persistenceConf = "/ union\n"
	rebootCommand   = "\nsystemctl reboot\n"
	unmountTimeout  = 30 * time.Second
)

// Paths are the host locations the installer reads from and writes to.
type Paths struct {
	InstallationDir  string
	KernelDir        string
	RootfsImage      string
	ConfigDir        string
	PostconfigScript string
}

// DefaultPaths returns the locations of a live system.
func DefaultPaths() Paths {
	return Paths{
		InstallationDir:  DefaultInstallationDir,
		KernelDir:        DefaultKernelDir,
		RootfsImage:      DefaultRootfsImage,
		ConfigDir:        DefaultConfigDir,
		PostconfigScript: DefaultPostconfigScript,
	}
}

// TargetRoot is where the target root partition is mounted.
func (p Paths) TargetRoot() string {
	return filepath.Join(p.InstallationDir, "disk_dst")
}

func imageDir(root, imageName string) string {
	return filepath.Join(root, "boot", imageName)
}

func (in *Installer) copySystem(ctx context.Context, root, imageName string) error {
	dir := imageDir(root, imageName)

	configParent := filepath.Join(dir, "rw", filepath.Dir(strings.TrimPrefix(in.Paths.ConfigDir, "/")))
	if err := mkdirAll(configParent); err != nil {
		return err
	}
	if err := in.Exec.Run(ctx, "cp", "-pr", in.Paths.ConfigDir, configParent+"/"); err != nil {
		return fmt.Errorf("failed to copy configuration: %w", err)
	}
	in.log.Info("Configuration copied", "target", configParent)

	if err := atomic.WriteFile(filepath.Join(root, "persistence.conf"), strings.NewReader(persistenceConf)); err != nil {
		return fmt.Errorf("failed to write persistence.conf: %w", err)
	}
	in.log.Info("Persistence configured")

	entries, err := os.ReadDir(in.Paths.KernelDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in.Paths.KernelDir, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		src := filepath.Join(in.Paths.KernelDir, entry.Name())
		if err := copyFile(src, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
		in.log.V(1).Info("Copied boot file", "file", src)
	}
	in.log.Info("Kernel and initramfs copied", "target", dir)

	if err := copyFile(in.Paths.RootfsImage, filepath.Join(dir, imageName+".squashfs")); err != nil {
		return err
	}
	in.log.Info("Rootfs copied", "image", imageName)
	return nil
}

// Cleanup unmounts everything below the installation directory and removes
// it. The directory is kept when an unmount fails so nothing on the target
// disk can be deleted.
func (in *Installer) Cleanup(ctx context.Context) error {
	mounts, err := in.Mounts.Under(in.Paths.InstallationDir)
	if err != nil {
		return err
	}

	// Stacked mounts appear once per mount; every entry is unmounted before
	// waiting on the point.
	var errs []error
	for _, mountPoint := range mounts {
		if err := in.Disks.Unmount(mountPoint); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	waited := make(map[string]bool, len(mounts))
	for _, mountPoint := range mounts {
		if waited[mountPoint] {
			continue
		}
		waited[mountPoint] = true

		waitCtx, cancel := context.WithTimeout(ctx, unmountTimeout)
		err := in.Disks.WaitForUnmount(waitCtx, mountPoint)
		cancel()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		in.log.V(1).Info("Unmounted", "path", mountPoint)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if err := os.RemoveAll(in.Paths.InstallationDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", in.Paths.InstallationDir, err)
	}
	return nil
}

func disableCloudInit(root, imageName string) error {
	marker := filepath.Join(imageDir(root, imageName), "rw", "etc", "cloud", "cloud-init.disabled")
	if err := mkdirAll(filepath.Dir(marker)); err != nil {
		return err
	}
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", marker, err)
	}
	return f.Close()
}

// appendReboot adds a reboot command to the postconfig script. A missing
// script is created.
func appendReboot(script string) error {
	data, err := os.ReadFile(script)
	mode := fs.FileMode(0755)
	switch {
	case err == nil:
		if info, statErr := os.Stat(script); statErr == nil {
			mode = info.Mode().Perm()
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := mkdirAll(filepath.Dir(script)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to read %s: %w", script, err)
	}

	content := string(data) + rebootCommand
	if err := atomic.WriteFile(script, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", script, err)
	}
	return os.Chmod(script, mode)
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// copyFile copies src to dst keeping the permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
