// Package prefs implements the application settings system.
//
// Settings are organized as layers merged by priority: builtin
// defaults, the user settings file, read-only project overrides, and
// environment variables. Values are addressed by dot-separated paths
// such as "interface.showGrid". Writes go to the user layer and are
// persisted immediately; observers are notified with the effective
// value before and after each change.
//
// The package also owns the current editing session. Session writes
// are debounced so frequent state changes produce a single write, and
// settings that older releases kept in the settings store are migrated
// into the session on first load.
package prefs
