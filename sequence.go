package shipyard

import (
	"fmt"
	"sync"
)

// AtomicSequence is a player-scoped run of requests that takes precedence over
// ordinary turn arbitration. It is created and destroyed through the
// PIRHandler.
//
// Each call to Clear starts a new generation: requests issued for an older
// generation are discarded instead of run.
type AtomicSequence struct {
	handler *PIRHandler
	player  *Player

	mu         sync.Mutex
	generation uint64
	// cancel is closed when the generation ends
	cancel  chan struct{}
	current PIR
	closed  bool
	done    chan struct{}
}

func newAtomicSequence(h *PIRHandler, p *Player) *AtomicSequence {
	return &AtomicSequence{
		handler: h,
		player:  p,
		cancel:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Player returns the player the sequence belongs to.
func (s *AtomicSequence) Player() *Player {
	return s.player
}

// Generation returns the current generation.
func (s *AtomicSequence) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Done is closed once the sequence is destroyed.
func (s *AtomicSequence) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether the sequence was destroyed.
func (s *AtomicSequence) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Run runs pir in the current generation. See RunAt.
func (s *AtomicSequence) Run(pir PIR) (Outcome, error) {
	return s.RunAt(s.Generation(), pir)
}

// RunAt runs pir as part of generation gen and blocks until it completes.
// It first waits for any ordinary request of the player to finish.
//
// It returns ErrSequenceSuperseded if gen is not current, or stops being
// current before pir completes, and ErrSequenceClosed once the sequence has
// been destroyed. pir is discarded in both cases.
func (s *AtomicSequence) RunAt(gen uint64, pir PIR) (Outcome, error) {
	c := pir.core()
	if c.player != s.player {
		return OutcomePending, fmt.Errorf("sequence of %s running request of %s: %w", s.player, c.player, ErrWrongPlayerTurn)
	}

	s.mu.Lock()
	if err := s.checkLocked(gen); err != nil {
		s.mu.Unlock()
		c.discard()
		return OutcomeDiscarded, err
	}
	cancel := s.cancel
	s.current = pir
	s.mu.Unlock()
	defer s.forget(pir)

	h := s.handler
	var slot *turnSlot
	for slot == nil {
		h.mu.Lock()
		candidate := h.slotLocked(s.player)
		if candidate.running == nil {
			candidate.claimLocked(pir)
			slot = candidate
			h.mu.Unlock()
			break
		}
		released := candidate.released
		h.mu.Unlock()

		select {
		case <-released:
		case <-cancel:
			c.discard()
			return OutcomeDiscarded, s.err(gen)
		}
	}

	outcome := h.run(slot, pir)
	if outcome == OutcomeDiscarded {
		return outcome, s.err(gen)
	}
	return outcome, nil
}

// Clear discards the pending request and starts a new generation.
func (s *AtomicSequence) Clear() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.generation++
	close(s.cancel)
	s.cancel = make(chan struct{})
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.core().discard()
	}
}

// close ends the sequence for good.
func (s *AtomicSequence) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	close(s.cancel)
	close(s.done)
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.core().discard()
	}
}

func (s *AtomicSequence) forget(pir PIR) {
	s.mu.Lock()
	if s.current == pir {
		s.current = nil
	}
	s.mu.Unlock()
}

func (s *AtomicSequence) checkLocked(gen uint64) error {
	switch {
	case s.closed:
		return fmt.Errorf("sequence of %s: %w", s.player, ErrSequenceClosed)
	case gen != s.generation:
		return fmt.Errorf("sequence of %s at generation %d, now %d: %w", s.player, gen, s.generation, ErrSequenceSuperseded)
	}
	return nil
}

func (s *AtomicSequence) err(gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(gen); err != nil {
		return err
	}
	return fmt.Errorf("sequence of %s: %w", s.player, ErrSequenceSuperseded)
}
