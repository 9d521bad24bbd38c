package shipyard

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TurnResult is the result of one request run by BroadcastPIR.
type TurnResult struct {
	Player  *Player
	PIR     PIR
	Outcome Outcome
	Err     error
}

// PIRHandler arbitrates turns: at most one request runs per player at a time.
//
// An atomic sequence takes the player's turn slot away from ordinary requests
// while a structural repair is in progress. Ordinary requests issued during
// that time are rejected with ErrAtomicSequenceOpen.
type PIRHandler struct {
	manager *Manager

	mu     sync.Mutex
	slots  map[uuid.UUID]*turnSlot
	closed bool
}

// turnSlot is the turn state of one player.
type turnSlot struct {
	running PIR
	// released is closed when running is cleared
	released chan struct{}
	seq      *AtomicSequence
}

func newPIRHandler(m *Manager) *PIRHandler {
	return &PIRHandler{
		manager: m,
		slots:   make(map[uuid.UUID]*turnSlot),
	}
}

func (h *PIRHandler) slotLocked(p *Player) *turnSlot {
	slot, ok := h.slots[p.id]
	if !ok {
		slot = &turnSlot{}
		h.slots[p.id] = slot
	}
	return slot
}

// claimLocked binds pir to the slot.
func (slot *turnSlot) claimLocked(pir PIR) {
	slot.running = pir
	slot.released = make(chan struct{})
}

// releaseLocked frees the slot if pir still holds it.
func (slot *turnSlot) releaseLocked(pir PIR) {
	if slot.running != pir {
		return
	}
	slot.running = nil
	close(slot.released)
}

// SetAndRunTurn runs pir and blocks until it completes, by answer or by
// timeout. It returns ErrAtomicSequenceOpen without running pir while the
// player is in an atomic sequence.
//
// Starting a request for a player who already has one running is a
// programming error and panics.
func (h *PIRHandler) SetAndRunTurn(pir PIR) (Outcome, error) {
	p := pir.core().player

	h.mu.Lock()
	slot := h.slotLocked(p)
	if slot.seq != nil {
		h.mu.Unlock()
		h.manager.logger.Warn("shipyard: request rejected during atomic sequence", "player", p.name, "pir", pir.ID())
		return OutcomePending, fmt.Errorf("run request for %s: %w", p, ErrAtomicSequenceOpen)
	}
	if slot.running != nil {
		running := slot.running.ID()
		h.mu.Unlock()
		panic(fmt.Sprintf("shipyard: request %s started for %s while %s is running", pir.ID(), p, running))
	}
	slot.claimLocked(pir)
	h.mu.Unlock()

	return h.run(slot, pir), nil
}

// run drives a request that already holds the slot.
func (h *PIRHandler) run(slot *turnSlot, pir PIR) Outcome {
	c := pir.core()
	defer func() {
		h.mu.Lock()
		slot.releaseLocked(pir)
		h.mu.Unlock()
	}()

	if !c.start() {
		return OutcomeDiscarded
	}

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		c.timeout()
	}

	h.manager.logger.Debug("shipyard: turn started", "player", c.player.name, "pir", c.id)
	h.manager.Dispatch(&EventTurnStarted{Player: c.player, PIR: pir})

	outcome := c.await()

	h.manager.logger.Debug("shipyard: turn completed", "player", c.player.name, "pir", c.id, "outcome", outcome)
	h.manager.Dispatch(&EventTurnCompleted{Player: c.player, PIR: pir, Outcome: outcome})
	return outcome
}

// BroadcastPIR runs one request per player concurrently and returns once all
// of them have completed. Results are in the order of players. A panic in any
// of the turns is raised again on the calling goroutine.
func (h *PIRHandler) BroadcastPIR(players []*Player, factory func(p *Player) (PIR, error)) []TurnResult {
	results := make([]TurnResult, len(players))

	var (
		wg        sync.WaitGroup
		panicMu   sync.Mutex
		recovered any
	)
	for i, p := range players {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if recovered == nil {
						recovered = r
					}
					panicMu.Unlock()
				}
			}()

			results[i].Player = p
			pir, err := factory(p)
			if err != nil {
				results[i].Err = err
				return
			}
			results[i].PIR = pir
			results[i].Outcome, results[i].Err = h.SetAndRunTurn(pir)
		}()
	}
	wg.Wait()

	if recovered != nil {
		panic(recovered)
	}
	return results
}

// Pending returns the request currently running for p, or nil.
func (h *PIRHandler) Pending(p *Player) PIR {
	h.mu.Lock()
	defer h.mu.Unlock()
	if slot, ok := h.slots[p.id]; ok {
		return slot.running
	}
	return nil
}

// CreateAtomicSequence opens an atomic sequence for p. Only one sequence may
// be open per player.
func (h *PIRHandler) CreateAtomicSequence(p *Player) (*AtomicSequence, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot := h.slotLocked(p)
	if slot.seq != nil {
		return nil, fmt.Errorf("create sequence for %s: %w", p, ErrAtomicSequenceOpen)
	}
	slot.seq = newAtomicSequence(h, p)
	return slot.seq, nil
}

// DestroyAtomicSequence closes seq and discards its pending request. Ordinary
// requests are accepted again afterwards.
func (h *PIRHandler) DestroyAtomicSequence(seq *AtomicSequence) {
	h.mu.Lock()
	if slot, ok := h.slots[seq.player.id]; ok && slot.seq == seq {
		slot.seq = nil
	}
	h.mu.Unlock()

	seq.close()
}

// Sequence returns the open atomic sequence of p.
func (h *PIRHandler) Sequence(p *Player) (*AtomicSequence, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if slot, ok := h.slots[p.id]; ok && slot.seq != nil {
		return slot.seq, true
	}
	return nil, false
}

// SequenceDone returns a channel closed once the open atomic sequence of p is
// destroyed. The channel is already closed if no sequence is open.
func (h *PIRHandler) SequenceDone(p *Player) <-chan struct{} {
	if seq, ok := h.Sequence(p); ok {
		return seq.Done()
	}
	done := make(chan struct{})
	close(done)
	return done
}

// Close expires every running request with its default outcome. Requests run
// afterwards time out as soon as they start.
func (h *PIRHandler) Close() {
	h.mu.Lock()
	h.closed = true
	running := make([]PIR, 0, len(h.slots))
	for _, slot := range h.slots {
		if slot.running != nil {
			running = append(running, slot.running)
		}
	}
	h.mu.Unlock()

	for _, pir := range running {
		pir.core().timeout()
	}
}

// forget drops the turn state of a player leaving the manager.
func (h *PIRHandler) forget(p *Player) {
	h.mu.Lock()
	slot, ok := h.slots[p.id]
	delete(h.slots, p.id)
	h.mu.Unlock()

	if !ok {
		return
	}
	if slot.seq != nil {
		slot.seq.close()
	}
	if slot.running != nil {
		slot.running.core().timeout()
	}
}
