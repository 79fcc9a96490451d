// Package lua executes script plugins in a restricted Lua environment.
package lua

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Runtime runs plugin scripts. A single Lua state is shared by all
// plugins so they can extend each other; access is serialized.
type Runtime struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// NewRuntime creates a sandboxed script runtime.
func NewRuntime() *Runtime {
	L := lua.NewState()
	sandbox(L)
	return &Runtime{state: L}
}

// RunFile executes a plugin script. The context bounds execution time.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("lua: runtime closed")
	}

	r.state.SetContext(ctx)
	defer r.state.RemoveContext()

	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// RunString executes a script from a string. Used by tests and the
// script console.
func (r *Runtime) RunString(ctx context.Context, script string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("lua: runtime closed")
	}

	r.state.SetContext(ctx)
	defer r.state.RemoveContext()

	if err := r.state.DoString(script); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// Global returns a global value from the script environment.
func (r *Runtime) Global(name string) lua.LValue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return lua.LNil
	}
	return r.state.GetGlobal(name)
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}

// sandbox removes the script-loading escape hatches and disk access
// from the shared state. Plugins get the pure-computation stdlib.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	// Prevent require from reaching the filesystem.
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}
}
