package hostexec

import (
	"context"
	"strings"
	"sync"
)

// Call records a single command invocation made through a MockExecutor.
type Call struct {
	Name string
	Args []string
}

// String returns the command line of the call.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockExecutor is a recording executor for tests. Nil funcs fall back to
// succeeding with empty output.
type MockExecutor struct {
	LookPathFunc   func(file string) (string, error)
	OutputFunc     func(name string, args ...string) ([]byte, error)
	FileExistsFunc func(path string) bool

	mu    sync.Mutex
	calls []Call
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *MockExecutor) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.OutputFunc != nil {
		return m.OutputFunc(name, args...)
	}
	return nil, nil
}

func (m *MockExecutor) Run(ctx context.Context, name string, args ...string) error {
	_, err := m.Output(ctx, name, args...)
	return err
}

func (m *MockExecutor) FileExists(path string) bool {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(path)
	}
	return true
}

// Calls returns the recorded command lines in invocation order.
func (m *MockExecutor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		lines = append(lines, c.String())
	}
	return lines
}
