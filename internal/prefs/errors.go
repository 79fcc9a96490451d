package prefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for settings access.
var (
	// ErrSettingNotFound means no layer holds the path and the
	// registry has no default for it.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch means the stored value could not satisfy the
	// requested type. Returned via TypeError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidPath means the setting path is empty or malformed.
	ErrInvalidPath = errors.New("invalid setting path")
)

// TypeError reports a stored value of the wrong type. It matches
// ErrTypeMismatch under errors.Is.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }

// ValidationError reports a value the registry rejected for a known
// setting.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}
