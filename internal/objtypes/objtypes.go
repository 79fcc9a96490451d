// Package objtypes manages the object type definitions shared by all
// maps: named types with a display color, stored in an XML file that
// can be edited externally and is reloaded on change.
package objtypes

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Type is a named object type with a display color in #rrggbb notation.
type Type struct {
	Name  string
	Color string
}

// NewType creates an object type, validating the color.
func NewType(name, color string) (Type, error) {
	normalized, err := normalizeColor(color)
	if err != nil {
		return Type{}, fmt.Errorf("object type %q: %w", name, err)
	}
	return Type{Name: name, Color: normalized}, nil
}

// RGB returns the type's color as a colorful.Color.
func (t Type) RGB() (colorful.Color, error) {
	return colorful.Hex(t.Color)
}

// Types is an ordered list of object types.
type Types []Type

// Find returns the type with the given name.
func (ts Types) Find(name string) (Type, bool) {
	for _, t := range ts {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}

// Names returns the type names in order.
func (ts Types) Names() []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// FromLegacyLists builds object types from the parallel name and color
// lists older releases stored in the settings file. Extra entries in
// the longer list are dropped.
func FromLegacyLists(names, colors []string) Types {
	count := len(names)
	if len(colors) < count {
		count = len(colors)
	}

	types := make(Types, 0, count)
	for i := 0; i < count; i++ {
		color, err := normalizeColor(colors[i])
		if err != nil {
			color = "#000000"
		}
		types = append(types, Type{Name: names[i], Color: color})
	}
	return types
}

// normalizeColor parses a color and renders it back in #rrggbb form.
func normalizeColor(color string) (string, error) {
	s := strings.TrimSpace(color)
	if s == "" {
		return "", fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}
	return c.Hex(), nil
}
