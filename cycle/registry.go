/*
registry.go - Process-wide active calendar

PURPOSE:
  Holds the currently active calendar configuration: set once, read many
  times until replaced. The engine math itself never consults the registry
  (every operation is a method on an explicit *Calendar); the registry only
  supplies the ambient default for callers that want one.

CONCURRENCY:
  Guarded by a sync.RWMutex so calendar swaps are safe against concurrent
  reads. Installed calendars are immutable, so a reader holding a *Calendar
  across a swap keeps a consistent view.

SEE ALSO:
  - calendar.go: Validation that gates installation
  - presets.go:  Built-in configurations activated by id
*/
package cycle

import "sync"

// Registry guards a swappable active calendar.
type Registry struct {
	mu     sync.RWMutex
	active *Calendar
}

// NewRegistry returns a registry with no calendar configured.
func NewRegistry() *Registry { return &Registry{} }

// SetCalendar validates cfg and installs it as the active calendar.
// On validation failure the previously active calendar is untouched.
func (r *Registry) SetCalendar(cfg Config) error {
	cal, err := NewCalendar(cfg)
	if err != nil {
		return err
	}
	r.SetActive(cal)
	return nil
}

// SetActive installs an already validated calendar.
func (r *Registry) SetActive(cal *Calendar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = cal
}

// ActivatePreset installs a built-in configuration by identifier.
func (r *Registry) ActivatePreset(id string) error {
	cfg, err := Preset(id)
	if err != nil {
		return err
	}
	return r.SetCalendar(cfg)
}

// Active returns the currently installed calendar, or ErrNoCalendar when
// none has been installed in this process.
func (r *Registry) Active() (*Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return nil, ErrNoCalendar
	}
	return r.active, nil
}

// =============================================================================
// DEFAULT REGISTRY - Package-level convenience wrappers
// =============================================================================

// DefaultRegistry is the ambient registry used by the package-level helpers.
var DefaultRegistry = NewRegistry()

// SetCalendar installs cfg on the default registry.
func SetCalendar(cfg Config) error { return DefaultRegistry.SetCalendar(cfg) }

// ActivatePreset installs a built-in configuration on the default registry.
func ActivatePreset(id string) error { return DefaultRegistry.ActivatePreset(id) }

// Active returns the default registry's calendar.
func Active() (*Calendar, error) { return DefaultRegistry.Active() }
