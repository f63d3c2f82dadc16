package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "defaults", opts: Options{}},
		{name: "json debug", opts: Options{Level: "debug", Format: FormatJSON}},
		{name: "console warn", opts: Options{Level: "warn", Format: FormatConsole}},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: "invalid log level"},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.opts)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log.GetSink())
		})
	}
}

func TestFromCore_Verbosity(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromCore(core).WithName("install")

	log.Info("System will be installed", "target", "/dev/sda")
	log.V(1).Info("Cleaning up")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "install", entries[0].LoggerName)
	assert.Equal(t, "/dev/sda", entries[0].ContextMap()["target"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestFromCore_InfoLevelDropsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromCore(core)

	log.V(1).Info("hidden")
	log.Error(nil, "shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}
