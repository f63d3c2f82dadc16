// Package hostexec runs host utilities on behalf of the provisioning hooks.
package hostexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Executor is an interface for executing commands, allowing for testing.
type Executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args ...string) error
	FileExists(path string) bool
}

// RealExecutor is the default executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output runs a command and returns its stdout. On failure the error carries
// the command's stderr when there is any.
func (e *RealExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), commandError(name, args, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// Run runs a command, discarding its stdout.
func (e *RealExecutor) Run(ctx context.Context, name string, args ...string) error {
	_, err := e.Output(ctx, name, args...)
	return err
}

// FileExists checks if a file exists.
func (e *RealExecutor) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CommandError describes a host command that exited unsuccessfully.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %s", e.Command, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func commandError(name string, args []string, stderr string, err error) error {
	return &CommandError{
		Command: strings.TrimSpace(name + " " + strings.Join(args, " ")),
		Stderr:  strings.TrimSpace(stderr),
		Err:     err,
	}
}
