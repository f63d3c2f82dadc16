package system

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/natefinch/atomic"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// GRUB layout relative to the target root.
const (
	GrubDirMain     = "boot/grub"
	GrubDirVyOS     = "boot/grub/grub.cfg.d"
	GrubDirVersions = "boot/grub/grub.cfg.d/vyos-versions"

	grubCfgVars    = "10-vyos-vars.cfg"
	grubCfgDefault = "15-vyos-default.cfg"
	grubCfgMenu    = "50-vyos-menu.cfg"
)

const grubMainCfg = `load_env
insmod regexp
for cfgfile in ${prefix}/grub.cfg.d/*.cfg; do
    source "${cfgfile}"
done
`

const grubMenuCfg = `for cfgfile in ${prefix}/grub.cfg.d/vyos-versions/*.cfg; do
    source "${cfgfile}"
done
`

// Grub manages the GRUB configuration of an installed image.
type Grub struct {
	exec hostexec.Executor
	log  logr.Logger
}

// NewGrub creates a Grub.
func NewGrub(exec hostexec.Executor, log logr.Logger) *Grub {
	return &Grub{exec: exec, log: log}
}

// Configure writes the main configuration, boot variables and menu loader.
func (g *Grub) Configure(rootDir string, vars map[string]string) error {
	if err := os.MkdirAll(filepath.Join(rootDir, GrubDirVersions), 0755); err != nil {
		return fmt.Errorf("failed to create GRUB directories: %w", err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var varsCfg strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&varsCfg, "set %s=%q\n", k, vars[k])
	}

	files := map[string]string{
		filepath.Join(rootDir, GrubDirMain, "grub.cfg"):  grubMainCfg,
		filepath.Join(rootDir, GrubDirVyOS, grubCfgVars): varsCfg.String(),
		filepath.Join(rootDir, GrubDirVyOS, grubCfgMenu): grubMenuCfg,
	}
	for path, content := range files {
		if err := writeFile(path, content); err != nil {
			return err
		}
	}
	return nil
}

// AddImage adds a boot menu entry for image.
func (g *Grub) AddImage(rootDir, image, cmdlineExtra string) error {
	cmdline := []string{
		"boot=live", "rootdelay=5", "noautologin",
		"vyos-union=/boot/" + image,
		"console=${console_type}${console_num},${console_speed}",
	}
	if extra := strings.TrimSpace(cmdlineExtra); extra != "" {
		cmdline = append(cmdline, extra)
	}

	entry := fmt.Sprintf(`menuentry %q --id %q {
    linux /boot/%s/vmlinuz %s
    initrd /boot/%s/initrd.img
}
`, image, image, image, strings.Join(cmdline, " "), image)

	return writeFile(filepath.Join(rootDir, GrubDirVersions, image+".cfg"), entry)
}

// SetDefault makes image the default boot entry.
func (g *Grub) SetDefault(rootDir, image string) error {
	return writeFile(filepath.Join(rootDir, GrubDirVyOS, grubCfgDefault), fmt.Sprintf("set default=%q\n", image))
}

// Install installs GRUB for both BIOS and EFI firmware.
func (g *Grub) Install(ctx context.Context, diskPath, bootDir, efiDir string) error {
	g.log.V(1).Info("Installing GRUB for BIOS", "disk", diskPath)
	if err := g.exec.Run(ctx, "grub-install", "--no-floppy", "--target=i386-pc",
		"--boot-directory="+bootDir, diskPath, "--force"); err != nil {
		return err
	}

	g.log.V(1).Info("Installing GRUB for EFI", "efi", efiDir)
	return g.exec.Run(ctx, "grub-install", "--no-floppy", "--recheck", "--target=x86_64-efi",
		"--force-extra-removable", "--boot-directory="+bootDir, "--efi-directory="+efiDir,
		"--bootloader-id=VyOS", "--no-uefi-secure-boot")
}

// SortInodes rewrites the GRUB configuration files in name order so GRUB,
// which reads directories in inode order, sources them alphabetically.
func (g *Grub) SortInodes(rootDir string) error {
	for _, dir := range []string{GrubDirVyOS, GrubDirVersions} {
		if err := sortInodes(filepath.Join(rootDir, dir)); err != nil {
			return err
		}
	}
	return nil
}

func sortInodes(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	// ReadDir returns entries sorted by filename.
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", path, err)
		}
	}
	return nil
}

func writeFile(path, content string) error {
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
