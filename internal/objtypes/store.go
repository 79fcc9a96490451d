package objtypes

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of filesystem events editors emit
// for a single save.
const reloadDebounce = 100 * time.Millisecond

// Store holds the active object types and keeps them in sync with the
// backing XML file. External edits to the file are picked up through a
// filesystem watcher; the store's own writes are recognized by their
// modification time and do not trigger a reload.
type Store struct {
	mu        sync.RWMutex
	path      string
	types     Types
	lastSaved time.Time
	onReload  func(Types)

	watcher     *fsnotify.Watcher
	watchedDir  string
	reloadTimer *time.Timer
	done        chan struct{}
	wg          sync.WaitGroup
}

// NewStore creates a store for the given object types file. The file is
// not read until Load is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (st *Store) Path() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.path
}

// Types returns the current object types.
func (st *Store) Types() Types {
	st.mu.RLock()
	defer st.mu.RUnlock()
	types := make(Types, len(st.types))
	copy(types, st.types)
	return types
}

// OnReload registers a callback invoked after the file changed on disk
// and was reloaded.
func (st *Store) OnReload(fn func(Types)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onReload = fn
}

// Load reads the backing file. A missing file leaves the store empty
// without error; a malformed file is an error.
func (st *Store) Load() error {
	st.mu.RLock()
	path := st.path
	st.mu.RUnlock()

	types, err := ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	st.mu.Lock()
	st.types = types
	st.mu.Unlock()
	return nil
}

// SetTypes replaces the object types and writes the file.
func (st *Store) SetTypes(types Types) error {
	st.mu.Lock()
	st.types = make(Types, len(types))
	copy(st.types, types)
	st.mu.Unlock()

	return st.Save()
}

// Save writes the object types to the backing file through a temporary
// file and rename. The resulting modification time is recorded so the
// watcher can tell this write apart from an external one.
func (st *Store) Save() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(st.path), ".objecttypes-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, st.types); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, st.path); err != nil {
		os.Remove(tmpName)
		return err
	}

	if info, err := os.Stat(st.path); err == nil {
		st.lastSaved = info.ModTime()
	}
	return nil
}

// SetPath switches the store to a different backing file and reloads
// from it. When the watcher is running it follows the new file.
func (st *Store) SetPath(path string) error {
	st.mu.Lock()
	if st.path == path {
		st.mu.Unlock()
		return nil
	}
	st.path = path
	st.lastSaved = time.Time{}
	watching := st.watcher != nil
	st.mu.Unlock()

	if watching {
		if err := st.rewatch(); err != nil {
			return err
		}
	}

	return st.Load()
}

// Watch starts watching the backing file's directory for changes.
// Watching the directory rather than the file survives editors that
// save through a rename.
func (st *Store) Watch() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(st.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	st.watcher = watcher
	st.watchedDir = dir
	st.done = make(chan struct{})

	st.wg.Add(1)
	go st.watchLoop(watcher)

	return nil
}

// Close stops the watcher.
func (st *Store) Close() {
	st.mu.Lock()
	watcher := st.watcher
	done := st.done
	timer := st.reloadTimer
	st.watcher = nil
	st.reloadTimer = nil
	st.mu.Unlock()

	if watcher == nil {
		return
	}

	close(done)
	watcher.Close()
	if timer != nil {
		timer.Stop()
	}
	st.wg.Wait()
}

func (st *Store) rewatch() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.watcher == nil {
		return nil
	}

	dir := filepath.Dir(st.path)
	if dir == st.watchedDir {
		return nil
	}

	if err := st.watcher.Add(dir); err != nil {
		return err
	}
	_ = st.watcher.Remove(st.watchedDir)
	st.watchedDir = dir
	return nil
}

func (st *Store) watchLoop(watcher *fsnotify.Watcher) {
	defer st.wg.Done()

	for {
		select {
		case <-st.done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			st.handleEvent(event)
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (st *Store) handleEvent(event fsnotify.Event) {
	st.mu.Lock()
	path := st.path
	st.mu.Unlock()

	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	st.mu.Lock()
	if st.reloadTimer == nil {
		st.reloadTimer = time.AfterFunc(reloadDebounce, st.reloadChanged)
	} else {
		st.reloadTimer.Reset(reloadDebounce)
	}
	st.mu.Unlock()
}

// reloadChanged reloads the file unless the change was our own save.
func (st *Store) reloadChanged() {
	st.mu.RLock()
	path := st.path
	lastSaved := st.lastSaved
	onReload := st.onReload
	st.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !lastSaved.IsZero() && info.ModTime().Equal(lastSaved) {
		return
	}

	types, err := ReadFile(path)
	if err != nil {
		return
	}

	st.mu.Lock()
	st.types = types
	st.mu.Unlock()

	if onReload != nil {
		onReload(types)
	}
}
