// Package cloudinit provides the embedded example cloud-config.
package cloudinit

import _ "embed"

// Example is a cloud-config enabling the unattended installer with a serial
// console.
//
//go:embed example.yaml
var Example string
