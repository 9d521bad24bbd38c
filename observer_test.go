package shipyard

import (
	"errors"
	"testing"
)

type joinCounter struct {
	joined []string
}

func (c *joinCounter) OnJoin(e *EventPlayerJoin) {
	c.joined = append(c.joined, e.Player.Name())
}

// Unrelated methods are not event handlers.
func (c *joinCounter) Count() int {
	return len(c.joined)
}

type noEvents struct{}

func (noEvents) Name() string { return "none" }

func TestObserveRejectsInvalidObservers(t *testing.T) {
	m := newTestManager(t)
	if err := m.Observe(nil); !errors.Is(err, ErrInvalidObserver) {
		t.Errorf("expected ErrInvalidObserver for nil, got %v", err)
	}
	if err := m.Observe(noEvents{}); !errors.Is(err, ErrInvalidObserver) {
		t.Errorf("expected ErrInvalidObserver, got %v", err)
	}
}

func TestDispatchByEventType(t *testing.T) {
	m := newTestManager(t)
	joins := &joinCounter{}
	rec := &recorder{}
	if err := m.Observe(joins); err != nil {
		t.Fatal(err)
	}
	if err := m.Observe(rec); err != nil {
		t.Fatal(err)
	}

	p := newTestPlayer(t, m, "alice")
	m.RemovePlayer(p)

	if joins.Count() != 1 || joins.joined[0] != "alice" {
		t.Errorf("expected one join for alice, got %v", joins.joined)
	}
	if len(eventsOf[*EventPlayerQuit](rec)) != 1 {
		t.Error("expected one quit event")
	}

	// Events nobody listens for are dropped silently.
	m.Dispatch(struct{}{})
}

func TestBuilderPanicsOnInvalidObserver(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Init to panic")
		}
	}()
	NewBuilder().Observer(noEvents{}).Init()
}

func TestBuilderObserver(t *testing.T) {
	joins := &joinCounter{}
	m := NewBuilder().Observer(joins).Init()
	defer m.Shutdown()

	if _, err := m.NewPlayer("bob", StandardLayout()); err != nil {
		t.Fatal(err)
	}
	if joins.Count() != 1 {
		t.Errorf("expected the builder observer to see the join, got %d", joins.Count())
	}
}
