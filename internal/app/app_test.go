package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testDirs struct {
	user    string
	data    string
	project string
}

func newTestApp(t *testing.T, dirs testDirs) *App {
	t.Helper()

	if dirs.user == "" {
		dirs.user = t.TempDir()
	}
	if dirs.data == "" {
		dirs.data = t.TempDir()
	}

	log := NewLogger(LoggerConfig{Level: LogLevelError, Output: &bytes.Buffer{}})
	return New(Config{
		UserDir:         dirs.user,
		ProjectDir:      dirs.project,
		DataDir:         dirs.data,
		Logger:          log,
		DisableWatchers: true,
	})
}

func TestAppStartAndClose(t *testing.T) {
	a := newTestApp(t, testDirs{})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if a.Prefs() == nil || a.ObjectTypes() == nil || a.Plugins() == nil {
		t.Fatal("Start() left a component nil")
	}
	if got := a.Prefs().RunCount(); got != 1 {
		t.Errorf("RunCount() = %d, want 1", got)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestAppObjectTypesFromFile(t *testing.T) {
	data := t.TempDir()
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<objecttypes>
 <objecttype name="Enemy" color="#ff0000"></objecttype>
</objecttypes>
`
	if err := os.WriteFile(filepath.Join(data, "objecttypes.xml"), []byte(xml), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, testDirs{data: data})
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	types := a.ObjectTypes().Types()
	if len(types) != 1 || types[0].Name != "Enemy" {
		t.Errorf("Types() = %v", types)
	}
}

func TestAppObjectTypesLegacyFallback(t *testing.T) {
	user := t.TempDir()
	settings := `[objectTypes]
names = ["Enemy", "Item"]
colors = ["#ff0000", "#00ff00"]
`
	if err := os.WriteFile(filepath.Join(user, "settings.toml"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, testDirs{user: user})
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	types := a.ObjectTypes().Types()
	if len(types) != 2 || types[0].Name != "Enemy" || types[1].Color != "#00ff00" {
		t.Errorf("Types() = %v", types)
	}

	// The imported definitions are written out as the new file.
	if _, err := os.Stat(a.ObjectTypes().Path()); err != nil {
		t.Errorf("object types file not written: %v", err)
	}
}

func TestAppObjectTypesLegacyKeysRemoved(t *testing.T) {
	user := t.TempDir()
	data := t.TempDir()

	settings := `[objectTypes]
names = ["Stale"]
colors = ["#123456"]
`
	if err := os.WriteFile(filepath.Join(user, "settings.toml"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	xml := `<objecttypes><objecttype name="Fresh" color="#0000ff"/></objecttypes>`
	if err := os.WriteFile(filepath.Join(data, "objecttypes.xml"), []byte(xml), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, testDirs{user: user, data: data})
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	// The readable file wins and the settings-store leftovers are gone.
	types := a.ObjectTypes().Types()
	if len(types) != 1 || types[0].Name != "Fresh" {
		t.Errorf("Types() = %v", types)
	}
	if a.Prefs().Contains("objectTypes.names") {
		t.Error("legacy object type keys survived")
	}
}

func TestAppPluginStatePersistedInSettings(t *testing.T) {
	user := t.TempDir()
	data := t.TempDir()

	a := newTestApp(t, testDirs{user: user, data: data})
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := a.Plugins().SetEnabled("json-map-format", false); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	// A fresh run sees the same state.
	b := newTestApp(t, testDirs{user: user, data: data})
	if err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	_, disabled := b.Prefs().PluginStates()
	found := false
	for _, name := range disabled {
		if name == "json-map-format" {
			found = true
		}
	}
	if !found {
		t.Errorf("disabled plugins = %v, want json-map-format", disabled)
	}
}

func TestAppRunsEnabledPlugins(t *testing.T) {
	data := t.TempDir()
	dir := filepath.Join(data, "extensions", "greeter")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name": "greeter", "version": "1.0.0", "enabledByDefault": true}`
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(`greeting = "hello"`), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, testDirs{data: data})
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	plugins := a.Plugins().Plugins()
	if len(plugins) != 1 || plugins[0].Manifest.Name != "greeter" {
		t.Fatalf("plugins = %v", plugins)
	}
	if !a.Plugins().IsEnabled("greeter") {
		t.Error("greeter should be enabled")
	}
}

func TestAppLogLevelFollowsSetting(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf, Prefix: "mapforge"})

	a := New(Config{
		UserDir:         t.TempDir(),
		DataDir:         t.TempDir(),
		Logger:          log,
		DisableWatchers: true,
	})
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	log.Debug("before")
	if err := a.Prefs().Set("logging.level", "debug"); err != nil {
		t.Fatal(err)
	}
	log.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "after") {
		t.Error("debug message missing after level change")
	}
}
