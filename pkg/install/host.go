package install

import (
	"github.com/go-logr/logr"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/disk"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/system"
)

// NewHost creates an Installer that operates on the local machine.
func NewHost(exec hostexec.Executor, enumerator disk.Enumerator, selector *disk.Selector, log logr.Logger) *Installer {
	mounts := system.NewMounts()
	return New(Deps{
		Enumerator: enumerator,
		Selector:   selector,
		Disks:      system.NewDiskManager(exec, mounts, log),
		Bootloader: system.NewGrub(exec, log),
		Image:      system.NewImage(),
		Mounts:     mounts,
		Exec:       exec,
		Paths:      DefaultPaths(),
	}, log)
}
