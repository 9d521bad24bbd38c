package shipyard

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m := NewBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Options(opts...).
		Init()
	t.Cleanup(m.Shutdown)
	return m
}

// newTestPlayer registers a player on a 5x5 open layout centered on (2,2).
func newTestPlayer(t *testing.T, m *Manager, name string) *Player {
	t.Helper()
	p, err := m.NewPlayer(name, OpenLayout(5, 5))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// runningAs waits until p has a running request of type T and returns it.
func runningAs[T PIR](t *testing.T, h *PIRHandler, p *Player) T {
	t.Helper()
	var out T
	waitFor(t, "running request", func() bool {
		pir, ok := h.Pending(p).(T)
		if !ok || pir.State() != PIRRunning {
			return false
		}
		out = pir
		return true
	})
	return out
}

// runAsync runs pir on its own goroutine.
func runAsync(h *PIRHandler, pir PIR) <-chan TurnResult {
	ch := make(chan TurnResult, 1)
	go func() {
		o, err := h.SetAndRunTurn(pir)
		ch <- TurnResult{Player: pir.Player(), PIR: pir, Outcome: o, Err: err}
	}()
	return ch
}

func awaitTurn(t *testing.T, ch <-chan TurnResult) TurnResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the turn to complete")
		return TurnResult{}
	}
}

// recorder is an observer keeping every event it receives.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *recorder) record(e any) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) HandlePlayerJoin(e *EventPlayerJoin)               { r.record(e) }
func (r *recorder) HandlePlayerQuit(e *EventPlayerQuit)               { r.record(e) }
func (r *recorder) HandleTurnStarted(e *EventTurnStarted)             { r.record(e) }
func (r *recorder) HandleTurnCompleted(e *EventTurnCompleted)         { r.record(e) }
func (r *recorder) HandleIntegrityProblem(e *EventIntegrityProblem)   { r.record(e) }
func (r *recorder) HandleTilesRemoved(e *EventTilesRemoved)           { r.record(e) }
func (r *recorder) HandleIntegrityRestored(e *EventIntegrityRestored) { r.record(e) }
func (r *recorder) HandleFlightEnded(e *EventFlightEnded)             { r.record(e) }

func eventsOf[T any](r *recorder) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, e := range r.events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
