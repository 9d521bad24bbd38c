package shipyard

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/leonelquinteros/gotext"
)

// Manager is the registry of one game: its players, their turn arbiter and
// the scheduler running repair conversations.
// Multiple Manager instances can coexist in the same process.
type Manager struct {
	options Options
	logger  *slog.Logger
	locale  *gotext.Locale
	domain  string

	// players holds all active players
	players   map[uuid.UUID]*Player
	playersMu sync.RWMutex

	// playersByName provides name-based lookup
	playersByName   map[string]*Player
	playersByNameMu sync.RWMutex

	// observers holds registered event observers
	observers   []*observer
	observersMu sync.RWMutex

	handler   *PIRHandler
	scheduler *Scheduler

	closed atomic.Bool
}

// newManager creates a new manager.
func newManager(opts Options, logger *slog.Logger, locale *gotext.Locale, domain string) *Manager {
	m := &Manager{
		options:       opts,
		logger:        logger,
		locale:        locale,
		domain:        domain,
		players:       make(map[uuid.UUID]*Player),
		playersByName: make(map[string]*Player),
	}
	m.handler = newPIRHandler(m)
	m.scheduler = newScheduler(m, opts.Workers)
	return m
}

// Options returns the options the manager was built with.
func (m *Manager) Options() Options {
	return m.options
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Handler returns the turn arbiter.
func (m *Manager) Handler() *PIRHandler {
	return m.handler
}

// Scheduler returns the job scheduler.
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// NewPlayer registers a player with a fresh ship built on layout. The ship
// is watched by the player's repair listener.
func (m *Manager) NewPlayer(name string, layout Layout) (*Player, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("new player %q: %w", name, ErrManagerClosed)
	}

	p := newPlayer(m, name, layout)

	m.playersByNameMu.Lock()
	if _, ok := m.playersByName[name]; ok {
		m.playersByNameMu.Unlock()
		return nil, fmt.Errorf("new player %q: %w", name, ErrPlayerExists)
	}
	m.playersByName[name] = p
	m.playersByNameMu.Unlock()

	m.playersMu.Lock()
	m.players[p.id] = p
	m.playersMu.Unlock()

	m.logger.Debug("shipyard: player joined", "player", name, "id", p.id)
	m.Dispatch(&EventPlayerJoin{Player: p})
	return p, nil
}

// Player returns the player with the given ID.
func (m *Manager) Player(id uuid.UUID) (*Player, bool) {
	m.playersMu.RLock()
	defer m.playersMu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// PlayerByName returns the player with the given name.
func (m *Manager) PlayerByName(name string) (*Player, bool) {
	m.playersByNameMu.RLock()
	defer m.playersByNameMu.RUnlock()
	p, ok := m.playersByName[name]
	return p, ok
}

// Players returns all players sorted by name.
func (m *Manager) Players() []*Player {
	m.playersMu.RLock()
	out := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	m.playersMu.RUnlock()

	slices.SortFunc(out, func(a, b *Player) int {
		return strings.Compare(a.name, b.name)
	})
	return out
}

// PlayerCount returns the number of players.
func (m *Manager) PlayerCount() int {
	m.playersMu.RLock()
	defer m.playersMu.RUnlock()
	return len(m.players)
}

// RemovePlayer unregisters p. Its running request expires and its atomic
// sequence is closed.
func (m *Manager) RemovePlayer(p *Player) {
	m.playersMu.Lock()
	_, ok := m.players[p.id]
	delete(m.players, p.id)
	m.playersMu.Unlock()
	if !ok {
		return
	}

	m.playersByNameMu.Lock()
	delete(m.playersByName, p.name)
	m.playersByNameMu.Unlock()

	m.handler.forget(p)
	m.logger.Debug("shipyard: player quit", "player", p.name, "id", p.id)
	m.Dispatch(&EventPlayerQuit{Player: p})
}

// Shutdown expires every running request and waits for scheduled jobs to
// finish.
func (m *Manager) Shutdown() {
	if m.closed.Swap(true) {
		return
	}
	m.handler.Close()
	m.scheduler.Stop()
}

// translate renders a prompt through the configured locale.
func (m *Manager) translate(msg string, vars ...any) string {
	if m.locale != nil {
		return m.locale.GetD(m.domain, msg, vars...)
	}
	return gotext.Get(msg, vars...)
}
