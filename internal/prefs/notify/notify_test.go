package notify

import (
	"testing"
)

func TestSubscribeReceivesChanges(t *testing.T) {
	n := New()
	defer n.Close()

	var received []Change
	n.Subscribe(func(c Change) {
		received = append(received, c)
	})

	n.NotifySet("interface.showGrid", true, false, "user")

	if len(received) != 1 {
		t.Fatalf("received %d changes, want 1", len(received))
	}
	c := received[0]
	if c.Path != "interface.showGrid" || c.Type != ChangeSet {
		t.Errorf("change = %+v", c)
	}
	if c.OldValue != true || c.NewValue != false {
		t.Errorf("old/new = %v/%v, want true/false", c.OldValue, c.NewValue)
	}
}

func TestSubscribePathFiltering(t *testing.T) {
	n := New()
	defer n.Close()

	var exact, parent, other int
	n.SubscribePath("interface.showGrid", func(Change) { exact++ })
	n.SubscribePath("interface", func(Change) { parent++ })
	n.SubscribePath("storage", func(Change) { other++ })

	n.NotifySet("interface.showGrid", nil, false, "user")

	if exact != 1 {
		t.Errorf("exact observer called %d times, want 1", exact)
	}
	if parent != 1 {
		t.Errorf("parent observer called %d times, want 1", parent)
	}
	if other != 0 {
		t.Errorf("unrelated observer called %d times, want 0", other)
	}
}

func TestParentPathDoesNotMatchPrefix(t *testing.T) {
	n := New()
	defer n.Close()

	var calls int
	n.SubscribePath("inter", func(Change) { calls++ })

	n.NotifySet("interface.showGrid", nil, true, "user")

	if calls != 0 {
		t.Errorf("string-prefix subscriber called %d times, want 0", calls)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var calls int
	sub := n.Subscribe(func(Change) { calls++ })

	n.NotifySet("a", nil, 1, "user")
	sub.Unsubscribe()
	n.NotifySet("a", nil, 2, "user")

	if calls != 1 {
		t.Errorf("observer called %d times after unsubscribe, want 1", calls)
	}

	// Unsubscribing twice is harmless.
	sub.Unsubscribe()
}

func TestNotifyDeleteAndReload(t *testing.T) {
	n := New()
	defer n.Close()

	var changes []Change
	n.Subscribe(func(c Change) { changes = append(changes, c) })

	n.NotifyDelete("interface.showGrid", true, "user")
	n.NotifyReload("/tmp/settings.toml")

	if len(changes) != 2 {
		t.Fatalf("received %d changes, want 2", len(changes))
	}
	if changes[0].Type != ChangeDelete {
		t.Errorf("first change type = %v, want delete", changes[0].Type)
	}
	if changes[1].Type != ChangeReload {
		t.Errorf("second change type = %v, want reload", changes[1].Type)
	}
}

func TestObserverPanicDoesNotPropagate(t *testing.T) {
	n := New()
	defer n.Close()

	var after int
	n.Subscribe(func(Change) { panic("boom") })
	n.Subscribe(func(Change) { after++ })

	n.NotifySet("a", nil, 1, "user")

	if after != 1 {
		t.Errorf("observer after panicking one called %d times, want 1", after)
	}
}

func TestClosedNotifierDropsChanges(t *testing.T) {
	n := New()

	var calls int
	n.Subscribe(func(Change) { calls++ })
	n.Close()

	n.NotifySet("a", nil, 1, "user")
	if calls != 0 {
		t.Errorf("closed notifier delivered %d changes", calls)
	}
}
