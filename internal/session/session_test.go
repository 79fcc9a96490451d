package session

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mapforge-session")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.FileName() != path {
		t.Errorf("FileName = %s, want %s", s.FileName(), path)
	}
	if len(s.RecentFiles()) != 0 {
		t.Error("fresh session has recent files")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mapforge-session")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed session should error")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.mapforge-session")

	s := New(path)
	s.AddRecentFile("/maps/a.tmx")
	s.SetOpenFiles([]string{"/maps/a.tmx", "/maps/b.tmx"})
	s.SetActiveFile("/maps/a.tmx")
	s.SetFileState("/maps/a.tmx", map[string]any{
		"scale":      2.0,
		"viewCenter": map[string]any{"x": 100.0, "y": 50.0},
	})

	if err := s.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(loaded.RecentFiles(), []string{"/maps/a.tmx"}) {
		t.Errorf("RecentFiles = %v", loaded.RecentFiles())
	}
	if !reflect.DeepEqual(loaded.OpenFiles(), []string{"/maps/a.tmx", "/maps/b.tmx"}) {
		t.Errorf("OpenFiles = %v", loaded.OpenFiles())
	}
	if loaded.ActiveFile() != "/maps/a.tmx" {
		t.Errorf("ActiveFile = %s", loaded.ActiveFile())
	}

	state := loaded.FileState("/maps/a.tmx")
	if state == nil {
		t.Fatal("file state lost")
	}
	if state["scale"] != 2.0 {
		t.Errorf("scale = %v", state["scale"])
	}
}

func TestAddRecentFileDeduplicatesAndCaps(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "s.mapforge-session"))

	s.AddRecentFile("/maps/a.tmx")
	s.AddRecentFile("/maps/b.tmx")
	s.AddRecentFile("/maps/a.tmx")

	recent := s.RecentFiles()
	if len(recent) != 2 {
		t.Fatalf("RecentFiles = %v", recent)
	}
	if recent[0] != "/maps/a.tmx" || recent[1] != "/maps/b.tmx" {
		t.Errorf("order = %v", recent)
	}

	for i := 0; i < maxRecentFiles+3; i++ {
		s.AddRecentFile(filepath.Join("/maps", strings.Repeat("x", i+1)+".tmx"))
	}
	if got := len(s.RecentFiles()); got != maxRecentFiles {
		t.Errorf("recent file count = %d, want %d", got, maxRecentFiles)
	}
}

func TestUnknownKeysSurviveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.mapforge-session")
	content := `{"futureFeature":{"enabled":true},"recentFiles":["/maps/a.tmx"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s.AddRecentFile("/maps/b.tmx")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Option("futureFeature.enabled"); got != true {
		t.Errorf("unknown key lost: futureFeature.enabled = %v", got)
	}
}

func TestOptions(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "s.mapforge-session"))

	if s.HasOption("tileset.spacing") {
		t.Error("empty session has options")
	}

	if err := s.SetOption("tileset.spacing", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetOption("stampsFolder", "/stamps"); err != nil {
		t.Fatal(err)
	}

	if !s.HasOption("tileset.spacing") {
		t.Error("HasOption = false after SetOption")
	}
	if got := s.IntOption("tileset.spacing", -1); got != 2 {
		t.Errorf("IntOption = %d, want 2", got)
	}
	if got := s.StringOption("stampsFolder", ""); got != "/stamps" {
		t.Errorf("StringOption = %q", got)
	}
	if got := s.IntOption("missing", 7); got != 7 {
		t.Errorf("missing option fallback = %d, want 7", got)
	}
	if got := s.BoolOption("stampsFolder", true); got != true {
		t.Errorf("type mismatch should fall back, got %v", got)
	}

	if err := s.DeleteOption("tileset.spacing"); err != nil {
		t.Fatal(err)
	}
	if s.HasOption("tileset.spacing") {
		t.Error("option still present after delete")
	}
}

func TestFileStateKeysWithDots(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "s.mapforge-session"))

	name := "/maps/level.one.tmx"
	s.SetFileState(name, map[string]any{"scale": 1.5})

	state := s.FileState(name)
	if state == nil || state["scale"] != 1.5 {
		t.Errorf("FileState(%q) = %v", name, state)
	}

	// The dotted name is one key, not a nested path.
	if s.HasOption("fileStates./maps/level.one") {
		t.Error("file name was split into path segments")
	}

	s.ClearFileState(name)
	if s.FileState(name) != nil {
		t.Error("file state still present after clear")
	}
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.mapforge-session")

	s := New(path)
	s.SetActiveFile("/maps/a.tmx")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestDefaultFileName(t *testing.T) {
	got := DefaultFileName("/data/mapforge")
	want := filepath.Join("/data/mapforge", "default.mapforge-session")
	if got != want {
		t.Errorf("DefaultFileName = %s, want %s", got, want)
	}
}
