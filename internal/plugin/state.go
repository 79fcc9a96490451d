package plugin

// State represents the user-facing enablement state of a plugin.
type State int

// Plugin states.
const (
	// StateDefault - No explicit choice; the plugin's own default applies.
	StateDefault State = iota

	// StateEnabled - Explicitly enabled by the user.
	StateEnabled

	// StateDisabled - Explicitly disabled by the user.
	StateDisabled

	// StateStatic - Built into the application and always active.
	StateStatic
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateDefault:
		return "default"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Enabled reports whether a plugin in this state should run, given
// whether the plugin is enabled out of the box.
func (s State) Enabled(enabledByDefault bool) bool {
	switch s {
	case StateEnabled, StateStatic:
		return true
	case StateDisabled:
		return false
	default:
		return enabledByDefault
	}
}
