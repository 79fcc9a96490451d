package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader turns MAPFORGE_* environment variables into a settings
// overlay. A handful of variables have fixed mappings; any other
// prefixed variable maps mechanically, MAPFORGE_INTERFACE_SHOW_GRID
// becoming interface.showGrid.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
}

// NewEnvLoader creates a loader for the given variable prefix. A
// trailing underscore is added when missing.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping())
}

// NewEnvLoaderWithMapping creates a loader with an explicit
// variable-to-path mapping.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return &EnvLoader{prefix: prefix, mapping: mapping}
}

func defaultEnvMapping() map[string]string {
	return map[string]string{
		"MAPFORGE_LOG_LEVEL":         "logging.level",
		"MAPFORGE_LANGUAGE":          "interface.language",
		"MAPFORGE_CONFIG_DIR":        "paths.configDir",
		"MAPFORGE_DATA_DIR":          "paths.dataDir",
		"MAPFORGE_OBJECT_TYPES_FILE": "storage.objectTypesFile",
		"MAPFORGE_SAFE_SAVING":       "storage.safeSaving",
	}
}

// AddMapping registers an extra fixed variable mapping.
func (l *EnvLoader) AddMapping(envVar, settingPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = settingPath
}

// Load reads the environment and returns the override map. A variable
// set to the empty string is an override to "", not an unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	overlay := make(map[string]any)

	for envVar, path := range l.mapping {
		if raw, ok := os.LookupEnv(envVar); ok {
			setByPath(overlay, path, l.parseValue(raw))
		}
	}

	for _, kv := range os.Environ() {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, fixed := l.mapping[name]; fixed {
			continue
		}
		setByPath(overlay, l.envToPath(name), l.parseValue(raw))
	}

	return overlay, nil
}

// envToPath derives a dot path from a variable name. The first word
// after the prefix is the section; the rest become one camelCase
// setting name.
func (l *EnvLoader) envToPath(env string) string {
	words := strings.Split(strings.TrimPrefix(env, l.prefix), "_")

	section := strings.ToLower(words[0])
	if len(words) == 1 {
		return section
	}

	var name strings.Builder
	name.WriteString(strings.ToLower(words[1]))
	for _, w := range words[2:] {
		if w == "" {
			continue
		}
		name.WriteString(strings.ToUpper(w[:1]))
		name.WriteString(strings.ToLower(w[1:]))
	}
	return section + "." + name.String()
}

// parseValue guesses a type for a variable's string value. Floats
// need a decimal point so integer-looking strings stay integers.
func (l *EnvLoader) parseValue(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath writes into a nested map along a dot path, creating
// intermediate maps.
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
