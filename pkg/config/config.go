// Package config handles the cloud-config consumed by the provisioning hooks.
package config

import "strings"

// Console types accepted in boot_params.console_type.
const (
	ConsoleKVM    = "kvm"
	ConsoleSerial = "serial"
)

// CloudConfig is the subset of the instance cloud-config used by the hooks.
type CloudConfig struct {
	Install InstallConfig `yaml:"vyos_install"`
}

// InstallConfig is the vyos_install section.
type InstallConfig struct {
	Activated  bool       `yaml:"activated"`
	BootParams BootParams `yaml:"boot_params"`
	CIDisable  bool       `yaml:"ci_disable"`  // Disable cloud-init on the installed system
	PostReboot bool       `yaml:"post_reboot"` // Reboot after the first boot configuration
}

// BootParams control the console and kernel command line of the installed
// system. Numeric values are kept as written so they can be validated.
type BootParams struct {
	ConsoleType        string `yaml:"console_type"`
	SerialConsoleNum   string `yaml:"serial_console_num"`
	SerialConsoleSpeed string `yaml:"serial_console_speed"`
	CmdlineExtra       string `yaml:"cmdline_extra"`
}

// NewCloudConfig creates a CloudConfig with defaults.
func NewCloudConfig() *CloudConfig {
	cfg := &CloudConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *CloudConfig) applyDefaults() {
	p := &c.Install.BootParams
	p.ConsoleType = getStringOrDefault(p.ConsoleType, ConsoleKVM)
	p.SerialConsoleNum = getStringOrDefault(p.SerialConsoleNum, "0")
	p.SerialConsoleSpeed = getStringOrDefault(p.SerialConsoleSpeed, "9600")
}

// defaultBootVars are the GRUB variables of a KVM console install.
var defaultBootVars = map[string]string{
	"timeout":       "5",
	"console_type":  "tty",
	"console_num":   "0",
	"console_speed": "115200",
	"bootmode":      "normal",
}

// BootVars returns the GRUB variables for the configured console. The result
// is a fresh map; callers may modify it.
func (p BootParams) BootVars() map[string]string {
	vars := make(map[string]string, len(defaultBootVars))
	for k, v := range defaultBootVars {
		vars[k] = v
	}

	if p.ConsoleType == ConsoleSerial {
		vars["console_type"] = "ttyS"
		vars["console_num"] = p.SerialConsoleNum
		vars["console_speed"] = p.SerialConsoleSpeed
	}

	return vars
}

// getStringOrDefault returns value or a default if it is blank.
func getStringOrDefault(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
