// Package netcleanup removes the ifupdown configuration cloud-init leaves
// behind, so it cannot interfere with the appliance's own network config.
package netcleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// Default paths of the files written by cloud-init's network renderer.
const (
	DefaultInterfacesFile = "/etc/network/interfaces.d/50-cloud-init"
	DefaultUdevRulesFile  = "/etc/udev/rules.d/70-persistent-net.rules"
)

// Cleaner deconfigures and removes cloud-init network configuration.
type Cleaner struct {
	exec           hostexec.Executor
	log            logr.Logger
	InterfacesFile string
	UdevRulesFile  string
}

// NewCleaner creates a Cleaner for the default paths.
func NewCleaner(exec hostexec.Executor, log logr.Logger) *Cleaner {
	return &Cleaner{
		exec:           exec,
		log:            log,
		InterfacesFile: DefaultInterfacesFile,
		UdevRulesFile:  DefaultUdevRulesFile,
	}
}

// Run brings down the interfaces configured by the interfaces file, removes
// it, then removes the persistent net udev rules. Failures do not stop the
// remaining steps; they are returned joined.
func (c *Cleaner) Run(ctx context.Context) error {
	c.log.V(1).Info("Cleaning up network configuration applied by cloud-init")

	ifErr := c.cleanupInterfaces(ctx)
	udevErr := c.removeUdevRules()

	return errors.Join(ifErr, udevErr)
}

// cleanupInterfaces is best-effort: every listed interface is brought down
// and the file is removed even when ifquery or an ifdown fails.
func (c *Cleaner) cleanupInterfaces(ctx context.Context) error {
	if !c.exec.FileExists(c.InterfacesFile) {
		return nil
	}
	c.log.V(1).Info("Configuration file was found", "file", c.InterfacesFile)

	var errs []error
	output, err := c.exec.Output(ctx, "ifquery", "-l", "-X", "lo", "-i", c.InterfacesFile)
	if err != nil {
		c.log.Error(err, "Unable to list configured interfaces", "file", c.InterfacesFile)
		errs = append(errs, fmt.Errorf("failed to list configured interfaces: %w", err))
		output = nil
	}

	for _, iface := range strings.Fields(string(output)) {
		c.log.V(1).Info("Deconfiguring interface", "interface", iface)
		if err := c.exec.Run(ctx, "ifdown", iface); err != nil {
			c.log.Error(err, "Unable to deconfigure interface", "interface", iface)
			errs = append(errs, fmt.Errorf("failed to deconfigure %s: %w", iface, err))
		}
	}

	if err := os.Remove(c.InterfacesFile); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", c.InterfacesFile, err))
	} else {
		c.log.V(1).Info("Configuration file was removed", "file", c.InterfacesFile)
	}
	return errors.Join(errs...)
}

func (c *Cleaner) removeUdevRules() error {
	if !c.exec.FileExists(c.UdevRulesFile) {
		return nil
	}
	if err := os.Remove(c.UdevRulesFile); err != nil {
		return fmt.Errorf("failed to remove %s: %w", c.UdevRulesFile, err)
	}
	c.log.V(1).Info("Configuration file was removed", "file", c.UdevRulesFile)
	return nil
}
