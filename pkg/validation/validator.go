// Package validation checks the vyos_install cloud-config section before the
// installer touches any disk.
package validation

import (
	"fmt"
	"strconv"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a validation issue found in the cloud-config.
type Issue struct {
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(severity Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}

func (r *Result) add(field, message string, severity Severity) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: message, Severity: severity})
}

// standardBaudRates are the serial speeds GRUB and the kernel console accept.
var standardBaudRates = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true, 19200: true,
	38400: true, 57600: true, 115200: true, 230400: true, 460800: true,
	576000: true, 921600: true,
}

// Validate validates the install section of cfg.
func Validate(cfg *config.CloudConfig) *Result {
	result := &Result{Issues: []Issue{}}
	install := cfg.Install
	params := install.BootParams

	switch params.ConsoleType {
	case config.ConsoleKVM, config.ConsoleSerial:
	default:
		result.add("vyos_install/boot_params/console_type",
			fmt.Sprintf("unsupported console type %q (expected %s or %s)", params.ConsoleType, config.ConsoleKVM, config.ConsoleSerial),
			SeverityError)
	}

	if n, err := strconv.Atoi(params.SerialConsoleNum); err != nil || n < 0 {
		result.add("vyos_install/boot_params/serial_console_num",
			fmt.Sprintf("serial console number must be a non-negative integer, got %q", params.SerialConsoleNum),
			SeverityError)
	}

	if speed, err := strconv.Atoi(params.SerialConsoleSpeed); err != nil || !standardBaudRates[speed] {
		result.add("vyos_install/boot_params/serial_console_speed",
			fmt.Sprintf("unsupported serial console speed %q", params.SerialConsoleSpeed),
			SeverityError)
	}

	if !install.Activated {
		if install.PostReboot {
			result.add("vyos_install/post_reboot", "post_reboot has no effect while installation is not activated", SeverityWarning)
		}
		if install.CIDisable {
			result.add("vyos_install/ci_disable", "ci_disable has no effect while installation is not activated", SeverityWarning)
		}
	}

	return result
}
