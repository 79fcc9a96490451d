package prefs

import (
	"github.com/mapforge/mapforge/internal/session"
)

// Session returns the current session.
func (p *Prefs) Session() *session.Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// SaveSession schedules a debounced session write. Repeated calls
// within the delay window coalesce into a single write.
func (p *Prefs) SaveSession() {
	p.mu.RLock()
	saver := p.saver
	p.mu.RUnlock()
	if saver != nil {
		saver.Request()
	}
}

// SaveSessionNow writes the session immediately, cancelling any pending
// debounced write.
func (p *Prefs) SaveSessionNow() error {
	p.mu.RLock()
	saver := p.saver
	p.mu.RUnlock()
	if saver == nil {
		return nil
	}
	return saver.Flush()
}

// SwitchSession replaces the current session, flushing any pending
// write of the old one, and records the new session file for the next
// run.
func (p *Prefs) SwitchSession(s *session.Session) error {
	p.mu.Lock()
	oldSaver := p.saver
	p.mu.Unlock()

	if oldSaver != nil {
		if err := oldSaver.Flush(); err != nil {
			return err
		}
		oldSaver.Stop()
	}

	p.mu.Lock()
	p.session = s
	p.saver = session.NewSaver(s, session.SaveDelay)
	p.mu.Unlock()

	if err := p.SetLastSession(s.FileName()); err != nil {
		return err
	}

	p.notifier.NotifySet("session.fileName", nil, s.FileName(), "session")
	return nil
}
