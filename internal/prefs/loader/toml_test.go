package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTOMLLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	content := `
language = "en"

[interface]
showGrid = false
gridFine = 8

[storage]
safeSaving = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := NewTOMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	iface, ok := data["interface"].(map[string]any)
	if !ok {
		t.Fatalf("interface section missing: %v", data)
	}
	if iface["showGrid"] != false {
		t.Errorf("showGrid = %v, want false", iface["showGrid"])
	}
	if iface["gridFine"] != int64(8) {
		t.Errorf("gridFine = %v (%T), want int64(8)", iface["gridFine"], iface["gridFine"])
	}
	if data["language"] != "en" {
		t.Errorf("language = %v, want en", data["language"])
	}
}

func TestTOMLLoaderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	data, err := NewTOMLLoader(path).Load()
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if data != nil {
		t.Errorf("missing file should yield nil data, got %v", data)
	}
}

func TestTOMLLoaderParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewTOMLLoader(path).Load()
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.toml")

	data := map[string]any{
		"interface": map[string]any{
			"showGrid": false,
			"gridFine": int64(16),
		},
		"language": "de",
	}

	if err := SaveTOML(path, data); err != nil {
		t.Fatalf("SaveTOML() error: %v", err)
	}

	loaded, err := NewTOMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}

	iface := loaded["interface"].(map[string]any)
	if iface["showGrid"] != false || iface["gridFine"] != int64(16) {
		t.Errorf("round trip lost values: %v", iface)
	}
	if loaded["language"] != "de" {
		t.Errorf("language = %v, want de", loaded["language"])
	}
}

func TestSaveTOMLLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	if err := SaveTOML(path, map[string]any{"a": int64(1)}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "settings.toml" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents = %v, want only settings.toml", names)
	}
}
