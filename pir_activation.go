package shipyard

import (
	"fmt"
	"slices"
	"time"
)

// ActivationPIR asks the player which double cannons, double engines or
// shield generators to power, one battery charge each. On timeout nothing is
// activated.
type ActivationPIR struct {
	pirCore

	kind      TileKind
	activated []*Tile
}

// NewActivationPIR creates an activation request for tiles of kind, which
// must be KindCannon, KindEngine or KindShield. Its highlight mask holds the
// activatable tiles and the charged batteries.
func NewActivationPIR(p *Player, cooldown time.Duration, kind TileKind, opts ...PIROption) (*ActivationPIR, error) {
	switch kind {
	case KindCannon, KindEngine, KindShield:
	default:
		return nil, fmt.Errorf("activate %s: %w", kind, ErrInvalidTile)
	}
	pir := &ActivationPIR{kind: kind}
	if err := pir.init(p, cooldown); err != nil {
		return nil, err
	}
	pir.highlight = func() Bitmask {
		return p.Board().Mask(func(t *Tile) bool {
			return pir.activatable(t) || t.Count(BatteryCharge) > 0
		})
	}
	pir.describe = func() string {
		return pir.tr("Choose which %s tiles to power with batteries", pir.kind)
	}
	pir.apply(opts)
	return pir, nil
}

func (pir *ActivationPIR) activatable(t *Tile) bool {
	if t.Kind() != pir.kind {
		return false
	}
	return t.Kind() == KindShield || t.Double()
}

// Activate powers the tiles on targets, spending one charge from the battery
// on the matching entry of batteries. The whole submission is validated
// before any charge is spent.
func (pir *ActivationPIR) Activate(p *Player, targets, batteries []Coordinates) error {
	return pir.submit(p, func() (bool, error) {
		if len(targets) != len(batteries) {
			return false, fmt.Errorf("%d targets for %d batteries: %w", len(targets), len(batteries), ErrInvalidChoice)
		}
		if err := pir.checkHighlight(targets...); err != nil {
			return false, err
		}
		board := p.Board()
		tiles := make([]*Tile, 0, len(targets))
		for i, at := range targets {
			if slices.Contains(targets[:i], at) {
				return false, fmt.Errorf("target %s listed twice: %w", at, ErrInvalidChoice)
			}
			t, ok := board.Tile(at)
			if !ok || !pir.activatable(t) {
				return false, fmt.Errorf("target %s: %w", at, ErrTileNotAvailable)
			}
			tiles = append(tiles, t)
		}

		if err := pir.checkHighlight(batteries...); err != nil {
			return false, err
		}

		need := make(map[Coordinates]int, len(batteries))
		for _, at := range batteries {
			need[at]++
		}
		for at, n := range need {
			t, ok := board.Tile(at)
			if !ok || t.Count(BatteryCharge) < n {
				return false, fmt.Errorf("battery at %s: %w", at, ErrNoBatteryCharge)
			}
		}
		for _, at := range batteries {
			if err := board.ConsumeBattery(at); err != nil {
				return false, err
			}
		}
		pir.activated = tiles
		return true, nil
	})
}

// Skip answers without activating anything.
func (pir *ActivationPIR) Skip(p *Player) error {
	return pir.submit(p, func() (bool, error) {
		return true, nil
	})
}

// Activated returns the powered tiles.
func (pir *ActivationPIR) Activated() []*Tile {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return slices.Clone(pir.activated)
}

// Power returns the firepower or engine power of the ship with the activated
// tiles included. A double cannon adds 2 facing Up and 1 otherwise; a double
// engine adds 2. For shields it returns the number of activated generators.
func (pir *ActivationPIR) Power() float64 {
	pir.mu.Lock()
	defer pir.mu.Unlock()

	s := pir.player.Board().Summary()
	switch pir.kind {
	case KindCannon:
		power := s.CannonPower
		for _, t := range pir.activated {
			if d, _ := t.Facing(); d == Up {
				power += 2
			} else {
				power++
			}
		}
		return power
	case KindEngine:
		return float64(s.EnginePower + 2*len(pir.activated))
	default:
		return float64(len(pir.activated))
	}
}

// Shielded returns the directions covered by the activated generators.
func (pir *ActivationPIR) Shielded() [directionCount]bool {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	var out [directionCount]bool
	for _, t := range pir.activated {
		if dirs, ok := t.ShieldDirections(); ok {
			for _, d := range dirs {
				out[d] = true
			}
		}
	}
	return out
}
