// Package layer provides priority-merged settings layers for the
// mapforge settings store.
//
// Settings come from several places: built-in defaults, the user
// settings file, the current project file, and environment overrides.
// Each source is a layer; a higher priority layer overrides lower ones
// when the stack is merged.
package layer

import "time"

// Layer is one settings source.
type Layer struct {
	// Name identifies the layer ("user", "project", "defaults").
	Name string

	// Priority orders the merge; higher overrides lower.
	Priority int

	// Source says what kind of place the layer came from.
	Source Source

	// Path is the backing file, when there is one.
	Path string

	// Data is the layer's settings as a nested map.
	Data map[string]any

	// ModTime is when the source was last loaded or modified.
	ModTime time.Time

	// ReadOnly blocks writes through the manager. Defaults, project
	// settings, and environment overrides are read-only.
	ReadOnly bool
}

// New creates an empty layer.
func New(name string, source Source, priority int) *Layer {
	return NewWithData(name, source, priority, make(map[string]any))
}

// NewWithData creates a layer around an existing settings map. The map
// is used as-is, not copied.
func NewWithData(name string, source Source, priority int, data map[string]any) *Layer {
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: priority,
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Source is the kind of place a layer's settings came from.
type Source uint8

const (
	// SourceBuiltin is the built-in defaults table.
	SourceBuiltin Source = iota
	// SourceUser is the user settings file (~/.config/mapforge).
	SourceUser
	// SourceProject is a project's own settings file.
	SourceProject
	// SourceEnv is environment variable overrides.
	SourceEnv
	// SourceSession is in-memory session overrides.
	SourceSession
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceProject:
		return "project"
	case SourceEnv:
		return "environment"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Standard priorities. The gaps leave room for callers that need to
// slot a layer between two standard ones.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityProject = 200
	PriorityEnv     = 500
	PrioritySession = 1000
)

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}
