package shipyard

import (
	"fmt"
	"strings"
	"time"
)

// ChoicePIR asks a yes/no question.
type ChoicePIR struct {
	pirCore

	message string
	def     bool
	choice  bool
}

// NewChoicePIR creates a yes/no request. def is applied on timeout.
func NewChoicePIR(p *Player, cooldown time.Duration, message string, def bool, opts ...PIROption) (*ChoicePIR, error) {
	pir := &ChoicePIR{message: message, def: def}
	if err := pir.init(p, cooldown); err != nil {
		return nil, err
	}
	pir.describe = func() string {
		return pir.tr("%s (yes/no)", pir.message)
	}
	pir.expire = func() {
		pir.choice = pir.def
	}
	pir.apply(opts)
	return pir, nil
}

// MakeChoice answers the question.
func (pir *ChoicePIR) MakeChoice(p *Player, choice bool) error {
	return pir.submit(p, func() (bool, error) {
		pir.choice = choice
		return true, nil
	})
}

// Choice returns the answer, or the default after a timeout.
func (pir *ChoicePIR) Choice() bool {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return pir.choice
}

// MultipleChoicePIR asks the player to pick one of several options.
type MultipleChoicePIR struct {
	pirCore

	message  string
	options  []string
	def      int
	selected int
}

// NewMultipleChoicePIR creates a request offering options. def is the index
// selected on timeout.
func NewMultipleChoicePIR(p *Player, cooldown time.Duration, message string, options []string, def int, opts ...PIROption) (*MultipleChoicePIR, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("no options offered: %w", ErrInvalidChoice)
	}
	if def < 0 || def >= len(options) {
		return nil, fmt.Errorf("default option %d of %d: %w", def, len(options), ErrInvalidChoice)
	}
	pir := &MultipleChoicePIR{
		message:  message,
		options:  append([]string(nil), options...),
		def:      def,
		selected: def,
	}
	if err := pir.init(p, cooldown); err != nil {
		return nil, err
	}
	pir.describe = func() string {
		var sb strings.Builder
		sb.WriteString(pir.message)
		for i, o := range pir.options {
			fmt.Fprintf(&sb, "\n  %d) %s", i, o)
		}
		return sb.String()
	}
	pir.expire = func() {
		pir.selected = pir.def
	}
	pir.apply(opts)
	return pir, nil
}

// Options returns the offered options.
func (pir *MultipleChoicePIR) Options() []string {
	return append([]string(nil), pir.options...)
}

// Choose selects the option at index.
func (pir *MultipleChoicePIR) Choose(p *Player, index int) error {
	return pir.submit(p, func() (bool, error) {
		if index < 0 || index >= len(pir.options) {
			return false, fmt.Errorf("option %d of %d: %w", index, len(pir.options), ErrInvalidChoice)
		}
		pir.selected = index
		return true, nil
	})
}

// Selected returns the chosen index, or the default after a timeout.
func (pir *MultipleChoicePIR) Selected() int {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return pir.selected
}

// DelayPIR shows a message and waits for an acknowledgement or the cooldown,
// whichever comes first.
type DelayPIR struct {
	pirCore

	message string
}

// NewDelayPIR creates a notification request.
func NewDelayPIR(p *Player, cooldown time.Duration, message string, opts ...PIROption) (*DelayPIR, error) {
	pir := &DelayPIR{message: message}
	if err := pir.init(p, cooldown); err != nil {
		return nil, err
	}
	pir.describe = func() string {
		return pir.message
	}
	pir.apply(opts)
	return pir, nil
}

// Acknowledge ends the delay early.
func (pir *DelayPIR) Acknowledge(p *Player) error {
	return pir.submit(p, func() (bool, error) {
		return true, nil
	})
}
