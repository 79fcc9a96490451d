// Package watcher watches settings files for live reload.
//
// Settings files change rarely and live on local disk, so the watcher
// polls modification times instead of holding OS watch descriptors.
// Bursts of changes to one file are coalesced into a single event.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operation is the kind of file change.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates the file appeared.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is one observed file change.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op is what happened to it.
	Op Operation

	// Time is when the change was observed.
	Time time.Time
}

// Handler receives file change events.
type Handler func(event Event)

// Watcher polls a set of files and reports mtime changes.
type Watcher struct {
	mu       sync.RWMutex
	watched  map[string]time.Time // path -> last seen mtime, zero when absent
	handlers []Handler
	interval time.Duration
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// debounce settles rapid changes; zero delivers immediately.
	debounce     time.Duration
	pendingMu    sync.Mutex
	pendingFiles map[string]pendingEvent
}

type pendingEvent struct {
	Op   Operation
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets how long a change must be quiet before delivery.
// Zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher. Call Watch to add files and Start to begin
// polling.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		watched:      make(map[string]time.Time),
		interval:     500 * time.Millisecond,
		debounce:     100 * time.Millisecond,
		pendingFiles: make(map[string]pendingEvent),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch adds a file to the poll set. A file that does not exist yet is
// accepted and reported with OpCreate once it appears.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var mtime time.Time
	info, err := os.Stat(abs)
	switch {
	case err == nil:
		mtime = info.ModTime()
	case os.IsNotExist(err):
		// watch for creation
	default:
		return err
	}

	w.mu.Lock()
	w.watched[abs] = mtime
	w.mu.Unlock()
	return nil
}

// Unwatch removes a file from the poll set.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	delete(w.watched, abs)
	w.mu.Unlock()
	return nil
}

// OnChange registers a change handler.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	w.handlers = append(w.handlers, handler)
	w.mu.Unlock()
}

// WatchedFiles returns the paths currently being polled.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.watched))
	for path := range w.watched {
		paths = append(paths, path)
	}
	return paths
}

// Start begins polling. Calling Start on a running watcher does
// nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.pollLoop()

	if w.debounce > 0 {
		w.wg.Add(1)
		go w.settleLoop()
	}
}

// Stop halts polling and waits for the loops to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning reports whether polling is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) pollLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll compares every watched file's mtime against the last seen one.
func (w *Watcher) poll() {
	w.mu.RLock()
	snapshot := make(map[string]time.Time, len(w.watched))
	for path, mtime := range w.watched {
		snapshot[path] = mtime
	}
	w.mu.RUnlock()

	for path, lastSeen := range snapshot {
		event := w.inspect(path, lastSeen)
		if event == nil {
			continue
		}
		if w.debounce > 0 {
			w.queueEvent(*event)
		} else {
			w.emit(*event)
		}
	}
}

// inspect stats one file and classifies the transition since the last
// poll. A zero lastSeen means the file was absent.
func (w *Watcher) inspect(path string, lastSeen time.Time) *Event {
	info, err := os.Stat(path)

	if os.IsNotExist(err) {
		if lastSeen.IsZero() {
			return nil
		}
		w.record(path, time.Time{})
		return &Event{Path: path, Op: OpRemove, Time: time.Now()}
	}
	if err != nil {
		return nil
	}

	mtime := info.ModTime()
	switch {
	case lastSeen.IsZero():
		w.record(path, mtime)
		return &Event{Path: path, Op: OpCreate, Time: time.Now()}
	case !mtime.Equal(lastSeen):
		w.record(path, mtime)
		return &Event{Path: path, Op: OpWrite, Time: time.Now()}
	}
	return nil
}

func (w *Watcher) record(path string, mtime time.Time) {
	w.mu.Lock()
	if _, ok := w.watched[path]; ok {
		w.watched[path] = mtime
	}
	w.mu.Unlock()
}

// queueEvent merges an event into the pending set. Remove wins over
// anything earlier, create survives a following write, and repeated
// writes just refresh the timestamp.
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	prev, ok := w.pendingFiles[event.Path]
	op := event.Op
	if ok && event.Op == OpWrite && prev.Op != OpWrite {
		op = prev.Op
	}
	w.pendingFiles[event.Path] = pendingEvent{Op: op, Time: event.Time}
}

func (w *Watcher) settleLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processPendingEvents()
		}
	}
}

// processPendingEvents emits events that have been quiet for a full
// debounce window.
func (w *Watcher) processPendingEvents() {
	cutoff := time.Now().Add(-w.debounce)

	w.pendingMu.Lock()
	var settled []Event
	for path, pending := range w.pendingFiles {
		if pending.Time.Before(cutoff) {
			settled = append(settled, Event{Path: path, Op: pending.Op, Time: pending.Time})
			delete(w.pendingFiles, path)
		}
	}
	w.pendingMu.Unlock()

	for _, event := range settled {
		w.emit(event)
	}
}

// emit calls every handler, isolating panics so one broken handler
// cannot stop delivery or kill the poll goroutine.
func (w *Watcher) emit(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() { _ = recover() }()
			handler(event)
		}()
	}
}
