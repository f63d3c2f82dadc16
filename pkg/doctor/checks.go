package doctor

import (
	"context"
	"regexp"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// DefaultRootfsImage is the squashfs of the running live system.
const DefaultRootfsImage = "/usr/lib/live/mount/medium/live/filesystem.squashfs"

var versionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)

type tool struct {
	Name        string
	Description string
	VersionArgs []string
	Package     string
}

// tools lists the host binaries the hooks run, with their Debian package.
var tools = map[string]tool{
	IDIfquery:     {Name: "ifquery", Description: "Lists interfaces in an ifupdown file", VersionArgs: []string{"--version"}, Package: "ifupdown"},
	IDIfdown:      {Name: "ifdown", Description: "Deconfigures network interfaces", VersionArgs: []string{"--version"}, Package: "ifupdown"},
	IDLsblk:       {Name: "lsblk", Description: "Lists block devices", VersionArgs: []string{"--version"}, Package: "util-linux"},
	IDWipefs:      {Name: "wipefs", Description: "Erases filesystem signatures", VersionArgs: []string{"--version"}, Package: "util-linux"},
	IDSgdisk:      {Name: "sgdisk", Description: "Creates the GPT partition table", VersionArgs: []string{"--version"}, Package: "gdisk"},
	IDPartprobe:   {Name: "partprobe", Description: "Reloads the partition table", VersionArgs: []string{"--version"}, Package: "parted"},
	IDMkfs:        {Name: "mkfs", Description: "Creates EFI and ext4 filesystems", VersionArgs: []string{"--version"}, Package: "dosfstools e2fsprogs"},
	IDCp:          {Name: "cp", Description: "Copies the running configuration", VersionArgs: []string{"--version"}, Package: "coreutils"},
	IDGrubInstall: {Name: "GRUB", Description: "Installs the boot loader", VersionArgs: []string{"--version"}, Package: "grub-pc-bin grub-efi-amd64-bin grub2-common"},
}

// GetFixCommand returns the apt command installing the package of a tool,
// or nil when the check has no package.
func GetFixCommand(toolID string) *FixCommand {
	t, ok := tools[toolID]
	if !ok {
		return nil
	}
	return &FixCommand{
		Description: "Install via apt",
		Command:     "sudo apt install -y " + t.Package,
	}
}

// CheckTool checks if a tool is installed and gets its version.
func CheckTool(ctx context.Context, exec hostexec.Executor, id string) Check {
	t, ok := tools[id]
	if !ok {
		return Check{ID: id, Name: id, Status: StatusError, Message: "unknown check"}
	}

	check := Check{
		ID:          id,
		Name:        t.Name,
		Description: t.Description,
		FixCommand:  GetFixCommand(id),
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Output(ctx, path, t.VersionArgs...)
	if err != nil {
		// Tool exists but version check failed - still consider it OK
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	if version := extractVersion(string(output)); version != "" {
		check.Message = version
	}
	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string) string {
	matches := versionRegex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckLiveMedium checks that the live rootfs image the installer copies is
// present.
func CheckLiveMedium(exec hostexec.Executor, imagePath string) Check {
	check := Check{
		ID:          IDLiveMedium,
		Name:        "Live medium",
		Description: "Root filesystem copied to the target disk",
	}

	if imagePath == "" {
		imagePath = DefaultRootfsImage
	}

	if exec.FileExists(imagePath) {
		check.Status = StatusOK
		check.Message = imagePath
	} else {
		check.Status = StatusWarning
		check.Message = "no image at " + imagePath + " (not a live boot?)"
	}
	return check
}
