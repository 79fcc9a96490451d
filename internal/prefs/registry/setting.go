// Package registry provides the known-settings table for mapforge.
//
// The registry holds definitions of all known settings with their
// types, defaults, and validation rules. Every key the preferences
// façade exposes has an entry here.
package registry

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// DateLayout is the persisted form of date-valued settings.
const DateLayout = "2006-01-02"

// SettingType is the data type of a setting's value.
type SettingType uint8

const (
	// TypeString represents a string value.
	TypeString SettingType = iota
	// TypeInt represents an integer value.
	TypeInt
	// TypeFloat represents a floating-point value.
	TypeFloat
	// TypeBool represents a boolean value.
	TypeBool
	// TypeStringList represents a list of strings.
	TypeStringList
	// TypeColor represents a #rrggbb hex color string.
	TypeColor
	// TypeDate represents an ISO date string (2006-01-02).
	TypeDate
)

// String returns the type name used in error messages.
func (t SettingType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeStringList:
		return "string list"
	case TypeColor:
		return "color"
	case TypeDate:
		return "date"
	default:
		return "unknown"
	}
}

// Setting is one entry in the known-settings table.
type Setting struct {
	// Path is the dot-separated setting path ("interface.showGrid").
	Path string

	// Type constrains values written to the path.
	Type SettingType

	// Default is the value readers see when no layer sets the path.
	Default any

	// Description is shown in settings UIs and documentation.
	Description string

	// Enum restricts the value to a fixed set when non-empty.
	Enum []any

	// Minimum and Maximum bound numeric settings; nil means unbounded.
	Minimum *float64
	Maximum *float64
}

// MinValue builds a Minimum bound.
func MinValue(v float64) *float64 { return &v }

// MaxValue builds a Maximum bound.
func MaxValue(v float64) *float64 { return &v }

// Validate checks a value against the setting's type, enum, and range
// constraints.
func (s *Setting) Validate(value any) error {
	if err := s.checkType(value); err != nil {
		return err
	}
	if len(s.Enum) > 0 && !enumContains(s.Enum, value) {
		return fmt.Errorf("value must be one of: %v", s.Enum)
	}
	if s.Minimum != nil || s.Maximum != nil {
		return s.checkRange(value)
	}
	return nil
}

func (s *Setting) checkType(value any) error {
	switch s.Type {
	case TypeString:
		if _, ok := value.(string); ok {
			return nil
		}
	case TypeInt:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return nil
		}
	case TypeFloat:
		// Integers are fine where a number is expected.
		switch value.(type) {
		case float32, float64, int, int64:
			return nil
		}
	case TypeBool:
		if _, ok := value.(bool); ok {
			return nil
		}
	case TypeStringList:
		switch value.(type) {
		case []any, []string:
			return nil
		}
	case TypeColor:
		str, ok := value.(string)
		if !ok {
			break
		}
		if _, err := colorful.Hex(str); err != nil {
			return fmt.Errorf("invalid color %q: %w", str, err)
		}
		return nil
	case TypeDate:
		str, ok := value.(string)
		if !ok {
			break
		}
		// The zero date persists as an empty string.
		if str == "" {
			return nil
		}
		if _, err := time.Parse(DateLayout, str); err != nil {
			return fmt.Errorf("invalid date %q: %w", str, err)
		}
		return nil
	default:
		return nil
	}
	return fmt.Errorf("expected %s, got %T", s.Type, value)
}

func (s *Setting) checkRange(value any) error {
	f, ok := toFloat(value)
	if !ok {
		return nil
	}
	if s.Minimum != nil && f < *s.Minimum {
		return fmt.Errorf("value %v is less than minimum %v", value, *s.Minimum)
	}
	if s.Maximum != nil && f > *s.Maximum {
		return fmt.Errorf("value %v is greater than maximum %v", value, *s.Maximum)
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// enumContains matches a value against an enum table, accepting int64
// for int entries since TOML and env values arrive as int64.
func enumContains(enum []any, value any) bool {
	for _, e := range enum {
		if e == value {
			return true
		}
		if iv, ok := e.(int); ok {
			if lv, ok := value.(int64); ok && int64(iv) == lv {
				return true
			}
		}
	}
	return false
}
