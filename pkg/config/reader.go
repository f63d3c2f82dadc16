package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where cloud-init stores the instance cloud-config.
const DefaultPath = "/var/lib/cloud/instance/cloud-config.txt"

// ErrNotFound is returned when the cloud-config file doesn't exist.
var ErrNotFound = errors.New("cloud-config not found")

// Load reads and parses the cloud-config at path.
func Load(path string) (*CloudConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read cloud-config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses cloud-config YAML. Unknown keys are ignored; the cloud-config
// carries sections for every other module too.
func Parse(data []byte) (*CloudConfig, error) {
	cfg := &CloudConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cloud-config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
