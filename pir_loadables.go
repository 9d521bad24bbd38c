package shipyard

import (
	"fmt"
	"slices"
	"time"
)

// AddLoadablesPIR offers items the player may store on their ship.
//
// Submissions may be partial: every accepted item is committed immediately and
// the request keeps running until nothing is left or the player finishes.
// On timeout the remaining items are left floating and lost.
type AddLoadablesPIR struct {
	pirCore

	floating []LoadableType
	added    []LoadableType
}

// NewAddLoadablesPIR creates a request offering items.
func NewAddLoadablesPIR(p *Player, cooldown time.Duration, offered []LoadableType, opts ...PIROption) (*AddLoadablesPIR, error) {
	pir := &AddLoadablesPIR{floating: slices.Clone(offered)}
	if err := pir.init(p, cooldown); err != nil {
		return nil, err
	}
	board := p.Board()
	pir.highlight = func() Bitmask {
		return board.Mask(func(t *Tile) bool {
			return slices.ContainsFunc(pir.floating, func(l LoadableType) bool {
				return t.accepts(l) == nil
			})
		})
	}
	pir.describe = func() string {
		return pir.tr("Load up to %d items: %v", len(pir.floating), pir.floating)
	}
	pir.onStart = func() {
		if len(pir.floating) == 0 {
			pir.finishLocked(OutcomeAnswered)
		}
	}
	pir.apply(opts)
	return pir, nil
}

// AddLoadables stores items in the tile on at, in order. Items stored before
// a rejected one stay on the ship.
func (pir *AddLoadablesPIR) AddLoadables(p *Player, at Coordinates, types ...LoadableType) error {
	return pir.submit(p, func() (bool, error) {
		if err := pir.checkHighlight(at); err != nil {
			return false, err
		}
		for _, l := range types {
			i := slices.Index(pir.floating, l)
			if i < 0 {
				return false, fmt.Errorf("%s: %w", l, ErrLoadableNotOffered)
			}
			if err := p.Board().AddLoadable(at, l); err != nil {
				return false, err
			}
			pir.floating = slices.Delete(pir.floating, i, i+1)
			pir.added = append(pir.added, l)
		}
		return len(pir.floating) == 0, nil
	})
}

// Finish gives up the remaining items.
func (pir *AddLoadablesPIR) Finish(p *Player) error {
	return pir.submit(p, func() (bool, error) {
		return true, nil
	})
}

// Remaining returns the items not yet stored.
func (pir *AddLoadablesPIR) Remaining() []LoadableType {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return slices.Clone(pir.floating)
}

// Added returns the items stored so far.
func (pir *AddLoadablesPIR) Added() []LoadableType {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return slices.Clone(pir.added)
}

// RemoveLoadablesPIR asks the player to give up a number of items.
//
// The requested quantity is clamped to what the ship holds when the request
// starts. Submissions may be partial. On timeout the rest is taken
// automatically: types in the order they were allowed, tiles row-major.
type RemoveLoadablesPIR struct {
	pirCore

	allowed   []LoadableType
	requested int
	remaining int
	removed   []LoadableType
}

// NewRemoveLoadablesPIR creates a request for quantity items among allowed.
func NewRemoveLoadablesPIR(p *Player, cooldown time.Duration, allowed []LoadableType, quantity int, opts ...PIROption) (*RemoveLoadablesPIR, error) {
	if len(allowed) == 0 {
		return nil, fmt.Errorf("no loadable type allowed: %w", ErrLoadableNotOffered)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("remove quantity %d: %w", quantity, ErrInvalidChoice)
	}
	pir := &RemoveLoadablesPIR{
		allowed:   slices.Clone(allowed),
		requested: quantity,
		remaining: quantity,
	}
	if err := pir.init(p, cooldown); err != nil {
		return nil, err
	}
	board := p.Board()
	pir.highlight = func() Bitmask {
		return board.Mask(func(t *Tile) bool {
			return slices.ContainsFunc(pir.allowed, func(l LoadableType) bool {
				return t.Count(l) > 0
			})
		})
	}
	pir.describe = func() string {
		return pir.tr("Remove %d items among %v", pir.remaining, pir.allowed)
	}
	pir.onStart = func() {
		available := board.Summary().Loadables.Sum(pir.allowed...)
		pir.remaining = min(pir.remaining, available)
		if pir.remaining == 0 {
			pir.finishLocked(OutcomeAnswered)
		}
	}
	pir.expire = pir.forceRemoval
	pir.apply(opts)
	return pir, nil
}

// RemoveLoadables takes items from the tile on at, in order. Items removed
// before a rejected one stay removed.
func (pir *RemoveLoadablesPIR) RemoveLoadables(p *Player, at Coordinates, types ...LoadableType) error {
	return pir.submit(p, func() (bool, error) {
		if len(types) > pir.remaining {
			return false, fmt.Errorf("remove %d of %d: %w", len(types), pir.remaining, ErrQuantityExceeded)
		}
		if err := pir.checkHighlight(at); err != nil {
			return false, err
		}
		for _, l := range types {
			if !slices.Contains(pir.allowed, l) {
				return false, fmt.Errorf("%s: %w", l, ErrLoadableNotOffered)
			}
			if err := p.Board().RemoveLoadable(at, l); err != nil {
				return false, err
			}
			pir.remaining--
			pir.removed = append(pir.removed, l)
		}
		return pir.remaining == 0, nil
	})
}

// forceRemoval applies the timeout policy. Called with mu held.
func (pir *RemoveLoadablesPIR) forceRemoval() {
	board := pir.player.Board()
	tiles := board.Tiles()
	for _, l := range pir.allowed {
		for _, t := range tiles {
			for pir.remaining > 0 && t.Count(l) > 0 {
				at, ok := t.position()
				if !ok || board.RemoveLoadable(at, l) != nil {
					break
				}
				pir.remaining--
				pir.removed = append(pir.removed, l)
			}
		}
	}
}

// Remaining returns how many items are still owed.
func (pir *RemoveLoadablesPIR) Remaining() int {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return pir.remaining
}

// Requested returns the quantity asked for at creation.
func (pir *RemoveLoadablesPIR) Requested() int {
	return pir.requested
}

// Removed returns the items taken so far.
func (pir *RemoveLoadablesPIR) Removed() []LoadableType {
	pir.mu.Lock()
	defer pir.mu.Unlock()
	return slices.Clone(pir.removed)
}
