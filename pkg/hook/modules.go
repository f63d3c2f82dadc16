package hook

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/install"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/netcleanup"
)

// Module names.
const (
	NameInstall  = "vyos_install"
	NameIfupdown = "vyos_ifupdown"
)

// InstallModule installs the live image to disk once per instance.
type InstallModule struct {
	NewInstaller func(log logr.Logger) *install.Installer
}

func (m *InstallModule) Name() string         { return NameInstall }
func (m *InstallModule) Frequency() Frequency { return FrequencyInstance }

func (m *InstallModule) Handle(ctx context.Context, cfg *config.CloudConfig, log logr.Logger) error {
	return m.NewInstaller(log).Run(ctx, cfg)
}

// IfupdownModule removes network configuration left by the init framework on
// every boot. Failures are logged only.
type IfupdownModule struct {
	NewCleaner func(log logr.Logger) *netcleanup.Cleaner
}

func (m *IfupdownModule) Name() string         { return NameIfupdown }
func (m *IfupdownModule) Frequency() Frequency { return FrequencyAlways }

func (m *IfupdownModule) Handle(ctx context.Context, _ *config.CloudConfig, log logr.Logger) error {
	if err := m.NewCleaner(log).Run(ctx); err != nil {
		log.Error(err, "Unable to clean up network configuration")
	}
	return nil
}
