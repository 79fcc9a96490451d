package session

import (
	"sync"
	"time"
)

// Saver debounces session writes. Changes to the session are frequent
// during editing; Request arms a single-shot timer and repeated
// requests within the delay window collapse into one write.
type Saver struct {
	mu          sync.Mutex
	session     *Session
	delay       time.Duration
	timer       *time.Timer
	pending     bool
	stopped     bool
	aboutToSave func()
	lastErr     error
}

// NewSaver creates a debounced writer for the given session.
func NewSaver(s *Session, delay time.Duration) *Saver {
	return &Saver{
		session: s,
		delay:   delay,
	}
}

// OnAboutToSave registers a hook that runs just before each write.
// Components use it to push their latest state into the session.
func (sv *Saver) OnAboutToSave(fn func()) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.aboutToSave = fn
}

// Request schedules a write after the debounce delay. While a write is
// pending, further requests are no-ops: the write lands one delay after
// the first request, however often the session keeps changing.
func (sv *Saver) Request() {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if sv.stopped || sv.pending {
		return
	}

	sv.pending = true
	if sv.timer == nil {
		sv.timer = time.AfterFunc(sv.delay, sv.fire)
	} else {
		sv.timer.Reset(sv.delay)
	}
}

// Flush cancels any pending timer and writes the session immediately
// when a write is outstanding.
func (sv *Saver) Flush() error {
	sv.mu.Lock()
	if sv.timer != nil {
		sv.timer.Stop()
	}
	pending := sv.pending
	sv.pending = false
	hook := sv.aboutToSave
	sv.mu.Unlock()

	if !pending {
		sv.mu.Lock()
		err := sv.lastErr
		sv.mu.Unlock()
		return err
	}

	return sv.save(hook)
}

// Stop cancels any pending write and prevents further requests.
func (sv *Saver) Stop() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.stopped = true
	sv.pending = false
	if sv.timer != nil {
		sv.timer.Stop()
	}
}

// fire runs on timer expiry.
func (sv *Saver) fire() {
	sv.mu.Lock()
	if sv.stopped || !sv.pending {
		sv.mu.Unlock()
		return
	}
	sv.pending = false
	hook := sv.aboutToSave
	sv.mu.Unlock()

	_ = sv.save(hook)
}

func (sv *Saver) save(hook func()) error {
	if hook != nil {
		hook()
	}
	err := sv.session.Save()

	sv.mu.Lock()
	sv.lastErr = err
	sv.mu.Unlock()
	return err
}
