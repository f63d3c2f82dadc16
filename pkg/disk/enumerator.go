package disk

import (
	"fmt"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// NewEnumerator returns the enumerator for the named source.
func NewEnumerator(source string, exec hostexec.Executor) (Enumerator, error) {
	switch source {
	case SourceLsblk, "":
		return NewLsblkEnumerator(exec), nil
	case SourceSysfs:
		return NewSysfsEnumerator(), nil
	default:
		return nil, fmt.Errorf("unknown block device source: %s (expected %s or %s)", source, SourceLsblk, SourceSysfs)
	}
}
