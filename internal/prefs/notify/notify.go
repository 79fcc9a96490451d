// Package notify delivers per-setting change notifications.
//
// UI widgets and services subscribe to a setting path, or to all
// changes, and are called back synchronously whenever a value is set,
// removed, or the settings are reloaded from disk.
package notify

import "sync"

// ChangeType classifies a settings change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete

	// ChangeReload indicates the settings were reloaded from disk.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one settings change. Path is empty for reloads.
// OldValue and NewValue are the effective merged values, not the raw
// layer values, so observers see what a reader would.
type Change struct {
	Path     string
	Type     ChangeType
	OldValue any
	NewValue any

	// Source names the layer or actor that caused the change.
	Source string
}

// Observer receives change callbacks.
type Observer func(change Change)

// Subscription is a registered observer. Unsubscribe detaches it;
// calling Unsubscribe more than once is harmless.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.drop(s.id)
	}
}

type entry struct {
	id   uint64
	path string // empty for global observers
	obs  Observer
}

// Notifier fans settings changes out to subscribed observers.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
	closed  bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add("", observer)
}

// SubscribePath registers an observer for one setting path. The
// observer also fires for child paths: subscribing to "interface"
// covers "interface.showGrid".
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.add(path, observer)
}

func (n *Notifier) add(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries = append(n.entries, entry{id: id, path: path, obs: observer})
	return &Subscription{id: id, notifier: n}
}

func (n *Notifier) drop(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

// Notify delivers a change to every matching observer. Delivery is
// synchronous and in subscription order; a panicking observer is
// recovered so the rest still run.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}

	var matched []Observer
	for _, e := range n.entries {
		if matches(e.path, change.Path) {
			matched = append(matched, e.obs)
		}
	}
	n.mu.RUnlock()

	for _, obs := range matched {
		safeCall(obs, change)
	}
}

// NotifySet reports a set or update.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyDelete reports a removal.
func (n *Notifier) NotifyDelete(path string, oldValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeDelete,
		OldValue: oldValue,
		Source:   source,
	})
}

// NotifyReload reports that a settings file was re-read.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Close stops all delivery. Safe to call more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
}

// matches reports whether an observer registered at sub should see a
// change at path. Global observers (empty sub) see everything; reload
// events (empty path) reach every observer; otherwise sub must equal
// path or be one of its ancestors.
func matches(sub, path string) bool {
	if sub == "" || path == "" || sub == path {
		return true
	}
	return len(sub) < len(path) && path[:len(sub)] == sub && path[len(sub)] == '.'
}

func safeCall(obs Observer, change Change) {
	defer func() {
		_ = recover()
	}()
	obs(change)
}
