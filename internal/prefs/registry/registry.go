package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrSettingAlreadyRegistered indicates a duplicate registration.
var ErrSettingAlreadyRegistered = errors.New("setting already registered")

// Registry is the table of known settings: their paths, types,
// defaults, and validation rules. Writes through it are validated;
// reads fall back to its defaults.
type Registry struct {
	mu     sync.RWMutex
	byPath map[string]*Setting
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byPath: make(map[string]*Setting)}
}

// NewWithDefaults creates a registry populated with the built-in
// settings table.
func NewWithDefaults() *Registry {
	r := New()
	r.RegisterDefaults()
	return r
}

// Register adds a setting definition. Registering the same path twice
// is an error.
func (r *Registry) Register(setting Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byPath[setting.Path]; dup {
		return fmt.Errorf("%w: %s", ErrSettingAlreadyRegistered, setting.Path)
	}
	r.byPath[setting.Path] = &setting
	return nil
}

// MustRegister registers a setting and panics on error. The built-in
// table uses it; a duplicate there is a programming error.
func (r *Registry) MustRegister(setting Setting) {
	if err := r.Register(setting); err != nil {
		panic(err)
	}
}

// Get returns the definition for a path, or nil when unregistered.
func (r *Registry) Get(path string) *Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byPath[path]
}

// Has reports whether a path is registered.
func (r *Registry) Has(path string) bool {
	return r.Get(path) != nil
}

// All returns every registered setting in path order.
func (r *Registry) All() []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Setting, 0, len(r.byPath))
	for _, s := range r.byPath {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all
}

// Section returns the settings whose path begins with the given
// section, e.g. "interface".
func (r *Registry) Section(name string) []*Setting {
	var out []*Setting
	for _, s := range r.All() {
		if sectionOf(s.Path) == name {
			out = append(out, s)
		}
	}
	return out
}

// Sections returns the distinct section names in sorted order.
func (r *Registry) Sections() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range r.All() {
		if sec := sectionOf(s.Path); !seen[sec] {
			seen[sec] = true
			names = append(names, sec)
		}
	}
	return names
}

// Default returns the default value for a path, nil when unregistered.
func (r *Registry) Default(path string) any {
	if s := r.Get(path); s != nil {
		return s.Default
	}
	return nil
}

// Defaults builds the nested defaults map used as the builtin settings
// layer.
func (r *Registry) Defaults() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tree := make(map[string]any)
	for path, s := range r.byPath {
		if s.Default != nil {
			setByPath(tree, path, s.Default)
		}
	}
	return tree
}

// Validate checks a value against the path's definition. Unregistered
// paths pass: the settings store also carries free-form keys (last
// paths, plugin lists, legacy leftovers).
func (r *Registry) Validate(path string, value any) error {
	if s := r.Get(path); s != nil {
		return s.Validate(value)
	}
	return nil
}

// sectionOf returns the first path segment.
func sectionOf(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

func setByPath(data map[string]any, path string, value any) {
	segs := strings.Split(path, ".")
	node := data
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value
}
