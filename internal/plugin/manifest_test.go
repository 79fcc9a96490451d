package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"name": "json-map-format",
		"version": "1.2.0",
		"displayName": "JSON Map Format",
		"main": "json.lua",
		"enabledByDefault": true,
		"formats": [
			{"id": "json", "name": "JSON map", "extensions": ["json"], "canRead": true, "canWrite": true}
		]
	}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error: %v", err)
	}

	if m.Name != "json-map-format" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Version != "1.2.0" {
		t.Errorf("Version = %q", m.Version)
	}
	if !m.EnabledByDefault {
		t.Error("EnabledByDefault = false")
	}
	if m.Path() != dir {
		t.Errorf("Path() = %q, want %q", m.Path(), dir)
	}
	if want := filepath.Join(dir, "json.lua"); m.MainPath() != want {
		t.Errorf("MainPath() = %q, want %q", m.MainPath(), want)
	}
	if len(m.Formats) != 1 || m.Formats[0].ID != "json" {
		t.Errorf("Formats = %v", m.Formats)
	}
}

func TestLoadManifestDefaultMain(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{"name": "simple", "version": "0.1.0"}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Main != "init.lua" {
		t.Errorf("Main = %q, want init.lua", m.Main)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), ManifestFileName))
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestLoadManifestBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{"name": `)

	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		wantErr  error
	}{
		{
			name:     "valid",
			manifest: Manifest{Name: "my-plugin", Version: "1.0.0", Main: "init.lua"},
		},
		{
			name:     "single letter name",
			manifest: Manifest{Name: "x", Version: "1.0.0", Main: "init.lua"},
		},
		{
			name:     "prerelease version",
			manifest: Manifest{Name: "my-plugin", Version: "1.0.0-beta.1", Main: "init.lua"},
		},
		{
			name:     "missing name",
			manifest: Manifest{Version: "1.0.0", Main: "init.lua"},
			wantErr:  ErrMissingName,
		},
		{
			name:     "uppercase name",
			manifest: Manifest{Name: "MyPlugin", Version: "1.0.0", Main: "init.lua"},
			wantErr:  ErrInvalidName,
		},
		{
			name:     "trailing hyphen",
			manifest: Manifest{Name: "plugin-", Version: "1.0.0", Main: "init.lua"},
			wantErr:  ErrInvalidName,
		},
		{
			name:     "missing version",
			manifest: Manifest{Name: "my-plugin", Main: "init.lua"},
			wantErr:  ErrMissingVersion,
		},
		{
			name:     "bad version",
			manifest: Manifest{Name: "my-plugin", Version: "1.0", Main: "init.lua"},
			wantErr:  ErrInvalidVersion,
		},
		{
			name:     "non-lua main",
			manifest: Manifest{Name: "my-plugin", Version: "1.0.0", Main: "init.py"},
			wantErr:  ErrInvalidMain,
		},
		{
			name: "format without id",
			manifest: Manifest{
				Name: "my-plugin", Version: "1.0.0", Main: "init.lua",
				Formats: []FormatContribution{{Name: "Nameless"}},
			},
			wantErr: ErrMissingFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
