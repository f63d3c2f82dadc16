// Package doctor checks that the host utilities the boot hooks shell out to
// are installed.
package doctor

// CheckStatus represents the status of a dependency check.
type CheckStatus int

const (
	// StatusOK indicates the dependency is installed and working.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the dependency is not installed.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the dependency has issues but may work.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check represents a single dependency check result.
type Check struct {
	ID          string      // Unique identifier, e.g., "sgdisk", "ifquery"
	Name        string      // Display name
	Description string      // What the hook uses it for
	Status      CheckStatus // Current status
	Message     string      // Status message (version info, error, etc.)
	FixCommand  *FixCommand // How to fix if missing (nil if not fixable)
}

// FixCommand describes how to fix a missing dependency.
type FixCommand struct {
	Description string // Human-readable description of what the fix does
	Command     string // Shell command to run
}

// CheckGroup represents the checks required by one hook.
type CheckGroup struct {
	ID          string  // Hook name
	Name        string  // Display name
	Description string  // What this group is for
	Checks      []Check // Individual checks in this group
}

// GroupID constants for check groups. They match the hook module names.
const (
	GroupIfupdown = "vyos_ifupdown"
	GroupInstall  = "vyos_install"
)

// CheckID constants for individual checks.
const (
	IDIfquery     = "ifquery"
	IDIfdown      = "ifdown"
	IDLsblk       = "lsblk"
	IDSgdisk      = "sgdisk"
	IDWipefs      = "wipefs"
	IDPartprobe   = "partprobe"
	IDMkfs        = "mkfs"
	IDCp          = "cp"
	IDGrubInstall = "grub-install"
	IDLiveMedium  = "live-medium"
)
