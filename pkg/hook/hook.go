// Package hook runs boot-time modules with the frequency semantics of the
// init framework.
package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/config"
)

// Frequency controls how often a module runs.
type Frequency string

const (
	// FrequencyAlways runs the module on every boot.
	FrequencyAlways Frequency = "always"
	// FrequencyInstance runs the module once per instance ID.
	FrequencyInstance Frequency = "instance"
	// FrequencyOnce runs the module once for the lifetime of the host.
	FrequencyOnce Frequency = "once"
)

// DefaultSemDir is where run markers are stored.
const DefaultSemDir = "/var/lib/vyos-cloudinit/sem"

var (
	ErrUnknownModule = errors.New("unknown module")
	ErrNoInstanceID  = errors.New("instance ID is required for per-instance modules")
)

// Module is a boot hook invoked by the init framework.
type Module interface {
	Name() string
	Frequency() Frequency
	Handle(ctx context.Context, cfg *config.CloudConfig, log logr.Logger) error
}

// Registry holds the available modules by name.
type Registry struct {
	modules map[string]Module
}

// NewRegistry creates a registry containing modules.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		r.modules[m.Name()] = m
	}
	return r
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	return m, nil
}

// Modules returns all modules sorted by name.
func (r *Registry) Modules() []Module {
	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Runner invokes modules and records successful runs as semaphore markers.
type Runner struct {
	SemDir     string
	InstanceID string
	// Force ignores existing markers.
	Force bool

	log      logr.Logger
	newRunID func() string
	now      func() time.Time
}

// NewRunner creates a Runner storing markers under semDir.
func NewRunner(semDir, instanceID string, log logr.Logger) *Runner {
	return &Runner{
		SemDir:     semDir,
		InstanceID: instanceID,
		log:        log,
		newRunID:   uuid.NewString,
		now:        time.Now,
	}
}

// Run invokes m unless a marker shows it already ran for its frequency.
// It reports whether the module was invoked.
func (r *Runner) Run(ctx context.Context, m Module, cfg *config.CloudConfig) (bool, error) {
	runID := r.newRunID()
	log := r.log.WithName(m.Name()).WithValues("runID", runID, "frequency", string(m.Frequency()))

	marker, err := r.markerPath(m)
	if err != nil {
		return false, err
	}

	if marker != "" && !r.Force {
		if _, err := os.Stat(marker); err == nil {
			log.Info("Module already ran, skipping", "marker", marker)
			return false, nil
		}
	}

	log.Info("Running module")
	start := r.now()
	if err := m.Handle(ctx, cfg, log); err != nil {
		return true, fmt.Errorf("module %s failed: %w", m.Name(), err)
	}
	log.Info("Module finished", "duration", r.now().Sub(start).String())

	if marker == "" {
		return true, nil
	}
	if err := writeMarker(marker, runID, r.now()); err != nil {
		return true, err
	}
	log.V(1).Info("Marker written", "marker", marker)
	return true, nil
}

func (r *Runner) markerPath(m Module) (string, error) {
	switch m.Frequency() {
	case FrequencyAlways:
		return "", nil
	case FrequencyOnce:
		return filepath.Join(r.SemDir, m.Name()), nil
	case FrequencyInstance:
		if err := ValidateInstanceID(r.InstanceID); err != nil {
			return "", err
		}
		return filepath.Join(r.SemDir, r.InstanceID, m.Name()), nil
	default:
		return "", fmt.Errorf("module %s has unknown frequency %q", m.Name(), m.Frequency())
	}
}

func writeMarker(path, runID string, at time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create semaphore directory: %w", err)
	}
	content := fmt.Sprintf("%s %s\n", runID, at.UTC().Format(time.RFC3339))
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write marker %s: %w", path, err)
	}
	return nil
}
