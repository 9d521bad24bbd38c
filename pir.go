package shipyard

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PIRState is the lifecycle state of a player input request.
// Requests move through states in order: Created → Running → Completed.
type PIRState uint8

const (
	PIRCreated PIRState = iota
	PIRRunning
	PIRCompleted
)

// String returns the string representation of the state.
func (s PIRState) String() string {
	switch s {
	case PIRCreated:
		return "Created"
	case PIRRunning:
		return "Running"
	case PIRCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Outcome records how a request completed.
type Outcome uint8

const (
	// OutcomePending is reported until the request completes.
	OutcomePending Outcome = iota
	// OutcomeAnswered means the bound player completed the request.
	OutcomeAnswered
	// OutcomeTimedOut means the cooldown elapsed and the default was applied.
	OutcomeTimedOut
	// OutcomeDiscarded means the request was dropped by its atomic sequence.
	OutcomeDiscarded
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "Pending"
	case OutcomeAnswered:
		return "Answered"
	case OutcomeTimedOut:
		return "TimedOut"
	case OutcomeDiscarded:
		return "Discarded"
	default:
		return "Unknown"
	}
}

// PIR is a player input request: a single blocking, timed interaction with
// one player. Requests are run by a PIRHandler; the bound player answers
// through the submission methods of the concrete type.
type PIR interface {
	// ID returns the unique request identifier.
	ID() uuid.UUID
	// Player returns the player the request is bound to.
	Player() *Player
	// Cooldown returns how long the request waits for an answer.
	Cooldown() time.Duration
	// State returns the lifecycle state.
	State() PIRState
	// Outcome returns how the request completed.
	Outcome() Outcome
	// HighlightMask returns the cells relevant to the request, computed from
	// the current board.
	HighlightMask() Bitmask
	// Describe renders the prompt shown to the player.
	Describe() string
	// Done is closed once the request has completed.
	Done() <-chan struct{}

	core() *pirCore
}

// PIROption configures a request at creation.
type PIROption func(*pirCore)

// WithHighlight overrides the highlight mask of a request.
func WithHighlight(mask func() Bitmask) PIROption {
	return func(c *pirCore) {
		c.highlight = mask
	}
}

// pirCore implements the state machine shared by every request.
type pirCore struct {
	id       uuid.UUID
	player   *Player
	cooldown time.Duration

	// highlight computes the mask; called with mu held
	highlight func() Bitmask
	// describe renders the prompt; called with mu held
	describe func() string
	// onStart may complete the request immediately; called with mu held
	onStart func()
	// expire applies the default outcome; called with mu held
	expire func()

	mu      sync.Mutex
	state   PIRState
	outcome Outcome
	done    chan struct{}
}

func (c *pirCore) init(p *Player, cooldown time.Duration) error {
	if p == nil {
		return fmt.Errorf("request without a player: %w", ErrWrongPlayerTurn)
	}
	if cooldown <= 0 {
		return fmt.Errorf("request cooldown %s: %w", cooldown, ErrInvalidCooldown)
	}
	c.id = uuid.New()
	c.player = p
	c.cooldown = cooldown
	c.done = make(chan struct{})
	return nil
}

func (c *pirCore) apply(opts []PIROption) {
	for _, opt := range opts {
		opt(c)
	}
}

func (c *pirCore) core() *pirCore {
	return c
}

// ID returns the unique request identifier.
func (c *pirCore) ID() uuid.UUID {
	return c.id
}

// Player returns the bound player.
func (c *pirCore) Player() *Player {
	return c.player
}

// Cooldown returns how long the request waits for an answer.
func (c *pirCore) Cooldown() time.Duration {
	return c.cooldown
}

// State returns the lifecycle state.
func (c *pirCore) State() PIRState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outcome returns how the request completed.
func (c *pirCore) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Done is closed once the request has completed.
func (c *pirCore) Done() <-chan struct{} {
	return c.done
}

// HighlightMask returns the relevant cells. The mask is never cached since
// the board may change while the request runs.
func (c *pirCore) HighlightMask() Bitmask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlightLocked()
}

func (c *pirCore) highlightLocked() Bitmask {
	if c.highlight == nil {
		return Bitmask{}
	}
	return c.highlight()
}

// Describe renders the prompt shown to the player.
func (c *pirCore) Describe() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.describe == nil {
		return ""
	}
	return c.describe()
}

// start moves the request into Running. It reports false if the request was
// discarded before it could start. Starting a request twice panics.
func (c *pirCore) start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.state == PIRCompleted && c.outcome == OutcomeDiscarded:
		return false
	case c.state != PIRCreated:
		panic(fmt.Sprintf("shipyard: request %s for %s started twice", c.id, c.player))
	}
	c.state = PIRRunning
	if c.onStart != nil {
		c.onStart()
	}
	return true
}

// await blocks until the request completes or its cooldown elapses, in which
// case the default outcome is applied.
func (c *pirCore) await() Outcome {
	timer := time.NewTimer(c.cooldown)
	defer timer.Stop()

	select {
	case <-c.done:
	case <-timer.C:
		c.timeout()
	}
	return c.Outcome()
}

// timeout applies the default outcome if the request is still running.
func (c *pirCore) timeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != PIRRunning {
		return
	}
	if c.expire != nil {
		c.expire()
	}
	c.finishLocked(OutcomeTimedOut)
}

// discard drops a request that has not completed yet. It reports whether the
// request was dropped.
func (c *pirCore) discard() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == PIRCompleted {
		return false
	}
	c.finishLocked(OutcomeDiscarded)
	return true
}

func (c *pirCore) finishLocked(o Outcome) {
	c.state = PIRCompleted
	c.outcome = o
	close(c.done)
}

// submit validates a submission and applies it. apply runs with mu held and
// reports whether the request is complete; an error leaves it running.
func (c *pirCore) submit(p *Player, apply func() (bool, error)) error {
	if p != c.player {
		return fmt.Errorf("submission from %s to request of %s: %w", p, c.player, ErrWrongPlayerTurn)
	}
	if !p.allowSubmission() {
		p.manager.logger.Warn("shipyard: submission throttled", "player", p.name, "pir", c.id)
		return fmt.Errorf("submission from %s: %w", p, ErrSubmissionThrottled)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != PIRRunning {
		return fmt.Errorf("request %s is %s: %w", c.id, c.state, ErrPIRNotRunning)
	}
	complete, err := apply()
	if err != nil {
		return err
	}
	if complete {
		c.finishLocked(OutcomeAnswered)
	}
	return nil
}

// checkHighlight rejects cells outside the current highlight mask.
func (c *pirCore) checkHighlight(cells ...Coordinates) error {
	if len(cells) == 0 {
		return nil
	}
	mask := c.highlightLocked()
	if mask.IsZero() {
		return fmt.Errorf("cell %s, nothing highlighted: %w", cells[0], ErrTileNotAvailable)
	}
	for _, at := range cells {
		if !at.InBounds() {
			return fmt.Errorf("cell %s: %w", at, ErrTileNotAvailable)
		}
	}
	asked := MaskOf(cells...)
	if mask.ContainsAll(asked) {
		return nil
	}
	missing := asked.AndNot(mask)
	return fmt.Errorf("cell %s: %w", missing.Cells()[0], ErrTileNotAvailable)
}

// tr translates a prompt through the player's manager.
func (c *pirCore) tr(msg string, vars ...any) string {
	return c.player.manager.translate(msg, vars...)
}
