package hostexec

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestRealExecutor_Output(t *testing.T) {
	requireTool(t, "echo")

	e := &RealExecutor{}
	out, err := e.Output(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRealExecutor_OutputCarriesStderr(t *testing.T) {
	requireTool(t, "sh")

	e := &RealExecutor{}
	_, err := e.Output(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "broken", cmdErr.Stderr)
	assert.Contains(t, err.Error(), "sh -c")
	assert.Contains(t, err.Error(), "failed: broken")

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}

func TestRealExecutor_RunMissingBinary(t *testing.T) {
	e := &RealExecutor{}
	err := e.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-xyz failed")
}

func TestRealExecutor_FileExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "present")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	e := &RealExecutor{}
	assert.True(t, e.FileExists(path))
	assert.False(t, e.FileExists(filepath.Join(tmpDir, "absent")))
}

func TestCommandError_NoStderr(t *testing.T) {
	err := commandError("lsblk", []string{"-J"}, "  ", errors.New("exit status 1"))
	assert.Equal(t, "lsblk -J failed: exit status 1", err.Error())
}
