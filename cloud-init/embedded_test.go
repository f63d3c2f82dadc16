package cloudinit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/validation"
)

func TestExampleContainsCloudConfig(t *testing.T) {
	assert.True(t, strings.HasPrefix(Example, "#cloud-config"))
}

func TestExampleIsValid(t *testing.T) {
	cfg, err := config.Parse([]byte(Example))
	require.NoError(t, err)

	assert.True(t, cfg.Install.Activated)
	assert.Equal(t, config.ConsoleSerial, cfg.Install.BootParams.ConsoleType)
	assert.Equal(t, "115200", cfg.Install.BootParams.SerialConsoleSpeed)

	result := validation.Validate(cfg)
	assert.Empty(t, result.Issues)
}
