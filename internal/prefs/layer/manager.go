package layer

import (
	"fmt"
	"sort"
	"sync"
)

// Manager holds the stack of settings layers and answers lookups
// against their merged view. The merged map is computed lazily and
// cached until the stack or a layer's data changes.
type Manager struct {
	mu    sync.RWMutex
	stack []*Layer
	cache map[string]any
	stale bool
}

// NewManager creates an empty layer stack.
func NewManager() *Manager {
	return &Manager{stale: true}
}

// AddLayer inserts a layer into the stack at its priority position.
func (m *Manager) AddLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stack = append(m.stack, l)
	sort.SliceStable(m.stack, func(i, j int) bool {
		return m.stack[i].Priority < m.stack[j].Priority
	})
	m.stale = true
}

// RemoveLayer drops the named layer. It reports whether the layer
// existed.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(name)
	if i < 0 {
		return false
	}
	m.stack = append(m.stack[:i], m.stack[i+1:]...)
	m.stale = true
	return true
}

// GetLayer returns the named layer, or nil.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(name); i >= 0 {
		return m.stack[i]
	}
	return nil
}

// Layers returns the stack in priority order, lowest first.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Layer, len(m.stack))
	copy(out, m.stack)
	return out
}

// Merge returns the effective settings map. The caller owns the
// returned map.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.effective())
}

// Get resolves a setting path against the stack, highest priority
// first, and reports which layer supplied the value.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.stack) - 1; i >= 0; i-- {
		if v, ok := GetByPath(m.stack[i].Data, path); ok {
			return v, m.stack[i], true
		}
	}
	return nil, nil, false
}

// Set writes a value into the named layer.
func (m *Manager) Set(layerName, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(layerName)
	if err != nil {
		return err
	}
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	SetByPath(l.Data, path, value)
	m.stale = true
	return nil
}

// Delete removes a value from the named layer.
func (m *Manager) Delete(layerName, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(layerName)
	if err != nil {
		return err
	}
	if DeleteByPath(l.Data, path) {
		m.stale = true
	}
	return nil
}

// UpdateLayer replaces the named layer's data wholesale, as happens
// when its backing file is reloaded.
func (m *Manager) UpdateLayer(name string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(name)
	if err != nil {
		return err
	}
	l.Data = cloneMap(data)
	m.stale = true
	return nil
}

// Invalidate discards the merge cache. Callers that mutate a layer's
// Data directly must call this.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale = true
}

// effective recomputes the merge cache when stale. Lock must be held.
func (m *Manager) effective() map[string]any {
	if m.stale || m.cache == nil {
		merged := make(map[string]any)
		for _, l := range m.stack {
			merged = DeepMerge(merged, l.Data)
		}
		m.cache = merged
		m.stale = false
	}
	return m.cache
}

// writable returns the named layer if it accepts writes. Lock must be
// held.
func (m *Manager) writable(name string) (*Layer, error) {
	i := m.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("layer not found: %s", name)
	}
	if m.stack[i].ReadOnly {
		return nil, fmt.Errorf("layer is read-only: %s", name)
	}
	return m.stack[i], nil
}

// indexOf finds the named layer's position. Lock must be held.
func (m *Manager) indexOf(name string) int {
	for i, l := range m.stack {
		if l.Name == name {
			return i
		}
	}
	return -1
}
