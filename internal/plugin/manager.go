package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	plua "github.com/mapforge/mapforge/internal/plugin/lua"
)

// StateStore persists the plugin enable and disable lists. Both lists
// are always rewritten in full.
type StateStore interface {
	PluginStates() (enabled, disabled []string)
	SetPluginStates(enabled, disabled []string) error
}

// Manager discovers plugins and tracks their enablement state.
type Manager struct {
	mu sync.RWMutex

	// Discovered plugins by name
	plugins map[string]*Plugin

	// Deterministic iteration order
	loadOrder []string

	// User state per plugin name, including names for which no plugin
	// was discovered. State for missing plugins is preserved so an
	// uninstalled plugin stays disabled when reinstalled.
	states map[string]State

	// Persistence backend
	store StateStore

	// Script runtime for enabled script plugins
	runtime *plua.Runtime

	// Directories searched for plugins
	paths []string
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest *Manifest
	Err      error // manifest or load error, nil when healthy
}

// ManagerConfig configures the plugin manager.
type ManagerConfig struct {
	// PluginPaths are directories to search for plugins.
	PluginPaths []string

	// Store persists enablement state. Optional; without it state
	// changes are held in memory only.
	Store StateStore
}

// DefaultPluginPaths returns the standard plugin search directories.
func DefaultPluginPaths(dataDir string) []string {
	return []string{filepath.Join(dataDir, "extensions")}
}

// NewManager creates a plugin manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		plugins: make(map[string]*Plugin),
		states:  make(map[string]State),
		store:   cfg.Store,
		runtime: plua.NewRuntime(),
		paths:   cfg.PluginPaths,
	}

	if m.store != nil {
		enabled, disabled := m.store.PluginStates()
		for _, name := range disabled {
			m.states[name] = StateDisabled
		}
		for _, name := range enabled {
			m.states[name] = StateEnabled
		}
	}

	return m
}

// Discover scans the plugin paths for plugin directories containing a
// manifest. Plugins with a broken manifest are listed with their error.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = make(map[string]*Plugin)
	m.loadOrder = nil

	for _, dir := range m.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("plugin: scan %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			manifestPath := filepath.Join(dir, entry.Name(), ManifestFileName)
			if _, err := os.Stat(manifestPath); err != nil {
				continue
			}

			manifest, err := LoadManifest(manifestPath)
			name := entry.Name()
			if manifest != nil {
				name = manifest.Name
			}

			if _, exists := m.plugins[name]; exists {
				continue
			}

			m.plugins[name] = &Plugin{Manifest: manifest, Err: err}
			m.loadOrder = append(m.loadOrder, name)
		}
	}

	sort.Strings(m.loadOrder)
	return nil
}

// Plugins returns the discovered plugins in name order.
func (m *Manager) Plugins() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Plugin, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		result = append(result, m.plugins[name])
	}
	return result
}

// Plugin returns a discovered plugin by name.
func (m *Manager) Plugin(name string) (*Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[name]
	return p, ok
}

// State returns the enablement state for a plugin name.
func (m *Manager) State(name string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[name]
}

// SetState records an enablement state and persists the full enable and
// disable lists.
func (m *Manager) SetState(name string, state State) error {
	m.mu.Lock()

	if state == StateDefault {
		delete(m.states, name)
	} else {
		m.states[name] = state
	}

	enabled, disabled := m.persistedListsLocked()
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.SetPluginStates(enabled, disabled)
}

// SetEnabled enables or disables a plugin by name.
func (m *Manager) SetEnabled(name string, enabled bool) error {
	state := StateDisabled
	if enabled {
		state = StateEnabled
	}
	return m.SetState(name, state)
}

// IsEnabled reports whether the named plugin should run.
func (m *Manager) IsEnabled(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := m.states[name]
	enabledByDefault := false
	if p, ok := m.plugins[name]; ok && p.Manifest != nil {
		enabledByDefault = p.Manifest.EnabledByDefault
	}
	return state.Enabled(enabledByDefault)
}

// RunEnabled executes the entry script of every enabled script plugin.
// The first error aborts the run.
func (m *Manager) RunEnabled(ctx context.Context) error {
	for _, p := range m.Plugins() {
		if p.Err != nil || p.Manifest == nil {
			continue
		}
		if !m.IsEnabled(p.Manifest.Name) {
			continue
		}
		if err := m.runtime.RunFile(ctx, p.Manifest.MainPath()); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Manifest.Name, err)
		}
	}
	return nil
}

// Close releases the script runtime.
func (m *Manager) Close() {
	m.runtime.Close()
}

// persistedListsLocked rebuilds both lists from the state map. Names in
// the default or static state appear in neither list.
func (m *Manager) persistedListsLocked() (enabled, disabled []string) {
	enabled = []string{}
	disabled = []string{}

	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch m.states[name] {
		case StateEnabled:
			enabled = append(enabled, name)
		case StateDisabled:
			disabled = append(disabled, name)
		case StateDefault, StateStatic:
		}
	}
	return enabled, disabled
}
