package shipyard

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Player is a participant of a game managed by a Manager.
// Each player owns one ship board, watched by a repair listener.
type Player struct {
	id      uuid.UUID
	name    string
	board   *ShipBoard
	manager *Manager
	repair  *RepairListener

	// limiter throttles submissions; nil when unlimited
	limiter *rate.Limiter

	flightEnded atomic.Bool
	reason      string
	reasonMu    sync.Mutex
}

// newPlayer creates a player and attaches its repair listener.
func newPlayer(m *Manager, name string, layout Layout) *Player {
	p := &Player{
		id:      uuid.New(),
		name:    name,
		manager: m,
	}
	if m.options.SubmitLimit != rate.Inf {
		p.limiter = rate.NewLimiter(m.options.SubmitLimit, m.options.SubmitBurst)
	}
	p.board = NewShipBoard(p.id, layout)
	p.repair = NewRepairListener(p)
	p.board.AddListener(p.repair)
	return p
}

// ID returns the player's unique identifier.
func (p *Player) ID() uuid.UUID {
	return p.id
}

// Name returns the player's name.
func (p *Player) Name() string {
	return p.name
}

// Board returns the player's ship.
func (p *Player) Board() *ShipBoard {
	return p.board
}

// Manager returns the manager owning the player.
func (p *Player) Manager() *Manager {
	return p.manager
}

// String returns the player's name.
func (p *Player) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.name
}

// EndFlight ends the player's flight. It is terminal: the ship accepts no
// further changes and no repair is attempted anymore. An open atomic
// sequence of the player is destroyed. It reports whether the flight was
// still going.
func (p *Player) EndFlight(reason string) bool {
	if p.flightEnded.Swap(true) {
		return false
	}
	p.reasonMu.Lock()
	p.reason = reason
	p.reasonMu.Unlock()

	p.board.EndFlight()
	h := p.manager.handler
	if seq, open := h.Sequence(p); open {
		h.DestroyAtomicSequence(seq)
	}
	p.manager.logger.Info("shipyard: flight ended", "player", p.name, "reason", reason)
	p.manager.Dispatch(&EventFlightEnded{Player: p, Reason: reason})
	return true
}

// FlightEnded reports whether the player's flight has ended.
func (p *Player) FlightEnded() bool {
	return p.flightEnded.Load()
}

// FlightEndReason returns why the flight ended.
func (p *Player) FlightEndReason() string {
	p.reasonMu.Lock()
	defer p.reasonMu.Unlock()
	return p.reason
}

// allowSubmission consumes a submission token.
func (p *Player) allowSubmission() bool {
	return p.limiter == nil || p.limiter.Allow()
}
