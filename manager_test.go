package shipyard

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestManagerPlayers(t *testing.T) {
	m := newTestManager(t)
	rec := &recorder{}
	if err := m.Observe(rec); err != nil {
		t.Fatal(err)
	}

	carol := newTestPlayer(t, m, "carol")
	alice := newTestPlayer(t, m, "alice")
	if _, err := m.NewPlayer("alice", StandardLayout()); !errors.Is(err, ErrPlayerExists) {
		t.Errorf("expected ErrPlayerExists, got %v", err)
	}

	if got, ok := m.Player(alice.ID()); !ok || got != alice {
		t.Error("lookup by ID failed")
	}
	if got, ok := m.PlayerByName("carol"); !ok || got != carol {
		t.Error("lookup by name failed")
	}
	players := m.Players()
	if len(players) != 2 || players[0] != alice || players[1] != carol {
		t.Errorf("expected players sorted by name, got %v", players)
	}
	if alice.Board().Owner() != alice.ID() {
		t.Error("board owner mismatch")
	}
	if alice.Manager() != m {
		t.Error("player manager mismatch")
	}

	m.RemovePlayer(alice)
	m.RemovePlayer(alice)
	if m.PlayerCount() != 1 {
		t.Errorf("expected 1 player, got %d", m.PlayerCount())
	}
	if _, ok := m.PlayerByName("alice"); ok {
		t.Error("removed player still registered by name")
	}
	if n := len(eventsOf[*EventPlayerJoin](rec)); n != 2 {
		t.Errorf("expected 2 join events, got %d", n)
	}
	if n := len(eventsOf[*EventPlayerQuit](rec)); n != 1 {
		t.Errorf("expected 1 quit event, got %d", n)
	}

	// The name is free again.
	if _, err := m.NewPlayer("alice", StandardLayout()); err != nil {
		t.Errorf("expected the name to be reusable, got %v", err)
	}
}

func TestManagerShutdown(t *testing.T) {
	m := newTestManager(t)
	m.Shutdown()
	m.Shutdown()

	if _, err := m.NewPlayer("late", StandardLayout()); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("expected ErrManagerClosed, got %v", err)
	}
	if m.Scheduler().Running() {
		t.Error("expected the scheduler to be stopped")
	}
}

func TestManagersAreIndependent(t *testing.T) {
	a := newTestManager(t)
	b := newTestManager(t)
	newTestPlayer(t, a, "alice")
	newTestPlayer(t, b, "alice")
	if a.PlayerCount() != 1 || b.PlayerCount() != 1 {
		t.Error("managers share players")
	}
}

func TestPlayerEndFlight(t *testing.T) {
	m := newTestManager(t)
	p := newTestPlayer(t, m, "alice")

	if !p.EndFlight("retired") {
		t.Fatal("expected the flight to end")
	}
	if p.EndFlight("again") {
		t.Error("ending twice must report false")
	}
	if p.FlightEndReason() != "retired" {
		t.Errorf("expected the first reason, got %q", p.FlightEndReason())
	}
	if p.Board().Phase() != Ended {
		t.Errorf("expected the board to be Ended, got %s", p.Board().Phase())
	}
}

const testCatalogue = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "%d tiles will be removed from your ship."
msgstr "%d tuiles seront retirées de votre vaisseau."
`

func TestManagerLocale(t *testing.T) {
	lib := t.TempDir()
	dir := filepath.Join(lib, "fr", "LC_MESSAGES")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shipyard.po"), []byte(testCatalogue), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Locale(lib, "fr", "shipyard").
		Init()
	defer m.Shutdown()

	if got := m.translate("%d tiles will be removed from your ship.", 3); got != "3 tuiles seront retirées de votre vaisseau." {
		t.Errorf("unexpected translation %q", got)
	}
	if got := m.translate("Fly?"); got != "Fly?" {
		t.Errorf("expected untranslated prompts unchanged, got %q", got)
	}
}
