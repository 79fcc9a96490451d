package lua

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestRunString(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	if err := r.RunString(context.Background(), `answer = 6 * 7`); err != nil {
		t.Fatalf("RunString() error: %v", err)
	}

	got := r.Global("answer")
	if num, ok := got.(lua.LNumber); !ok || num != 42 {
		t.Errorf("answer = %v, want 42", got)
	}
}

func TestRunStringError(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	if err := r.RunString(context.Background(), `this is not lua`); err == nil {
		t.Fatal("expected error for invalid script")
	}
}

func TestRunFile(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`loaded = "yes"`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile() error: %v", err)
	}
	if got := r.Global("loaded"); lua.LVAsString(got) != "yes" {
		t.Errorf("loaded = %v", got)
	}
}

func TestRunFileMissing(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.lua"))
	if err == nil {
		t.Fatal("expected error for missing script")
	}
}

func TestStateSharedBetweenScripts(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	ctx := context.Background()
	if err := r.RunString(ctx, `shared = {count = 1}`); err != nil {
		t.Fatal(err)
	}
	if err := r.RunString(ctx, `shared.count = shared.count + 1`); err != nil {
		t.Fatal(err)
	}

	tbl, ok := r.Global("shared").(*lua.LTable)
	if !ok {
		t.Fatal("shared is not a table")
	}
	if count := tbl.RawGetString("count"); count != lua.LNumber(2) {
		t.Errorf("shared.count = %v, want 2", count)
	}
}

func TestSandboxBlocksEscapes(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	ctx := context.Background()
	scripts := []string{
		`assert(os == nil)`,
		`assert(io == nil)`,
		`assert(dofile == nil)`,
		`assert(loadfile == nil)`,
		`assert(loadstring == nil)`,
	}
	for _, script := range scripts {
		if err := r.RunString(ctx, script); err != nil {
			t.Errorf("sandbox check %q failed: %v", script, err)
		}
	}
}

func TestContextCancelsScript(t *testing.T) {
	r := NewRuntime()
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.RunString(ctx, `while true do end`)
	if err == nil {
		t.Fatal("expected error from cancelled script")
	}
}

func TestClosedRuntime(t *testing.T) {
	r := NewRuntime()
	r.Close()
	r.Close() // idempotent

	if err := r.RunString(context.Background(), `x = 1`); err == nil {
		t.Fatal("expected error after Close")
	}
	if got := r.Global("x"); got != lua.LNil {
		t.Errorf("Global after Close = %v, want nil", got)
	}
}
