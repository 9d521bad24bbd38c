package shipyard

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dolthub/swiss"
	"github.com/google/uuid"
)

// IntegrityListener is notified after every structural re-validation of a
// board, whether or not a problem was found.
type IntegrityListener interface {
	Update(problem IntegrityProblem)
}

// IntegrityListenerFunc adapts a function to IntegrityListener.
type IntegrityListenerFunc func(problem IntegrityProblem)

// Update calls f(problem).
func (f IntegrityListenerFunc) Update(problem IntegrityProblem) {
	f(problem)
}

// ShipBoard is a player's ship: a sparse grid of tiles.
//
// Every structural change (placing or removing tiles) re-runs the integrity
// analysis and replaces the board summary before the mutating call returns.
// Listeners are notified once the board lock has been released.
type ShipBoard struct {
	owner  uuid.UUID
	layout Layout

	// mu protects grid, phase, revision, summary and discarded
	mu        sync.RWMutex
	grid      *swiss.Map[Coordinates, *Tile]
	phase     Phase
	revision  uint64
	summary   BoardSummary
	discarded []*Tile

	listeners   []IntegrityListener
	listenersMu sync.RWMutex
}

// NewShipBoard creates a board in the Assembly phase with a main cabin at the
// layout center.
func NewShipBoard(owner uuid.UUID, layout Layout) *ShipBoard {
	b := &ShipBoard{
		owner:  owner,
		layout: layout,
		grid:   swiss.NewMap[Coordinates, *Tile](uint32(layout.Cells.Count())),
	}
	cabin := MustTile(KindMainCabin, UniformSides(Universal))
	_ = cabin.bind(layout.Center)
	b.grid.Put(layout.Center, cabin)
	b.refreshLocked(true)
	return b
}

// Owner returns the ID of the player owning the board.
func (b *ShipBoard) Owner() uuid.UUID {
	return b.owner
}

// Layout returns the board layout.
func (b *ShipBoard) Layout() Layout {
	return b.layout
}

// Phase returns the current phase.
func (b *ShipBoard) Phase() Phase {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.phase
}

// Revision returns the structural revision, incremented by every placement or removal.
func (b *ShipBoard) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// AddListener registers an integrity listener.
func (b *ShipBoard) AddListener(l IntegrityListener) {
	if l == nil {
		return
	}
	b.listenersMu.Lock()
	b.listeners = append(b.listeners, l)
	b.listenersMu.Unlock()
}

// Tile returns the tile on c.
func (b *ShipBoard) Tile(c Coordinates) (*Tile, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grid.Get(c)
}

// Tiles returns every placed tile in row-major order.
func (b *ShipBoard) Tiles() []*Tile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sortedLocked()
}

// Len returns the number of placed tiles.
func (b *ShipBoard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grid.Count()
}

// Occupied returns the occupied cells.
func (b *ShipBoard) Occupied() Bitmask {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var m Bitmask
	b.grid.Iter(func(c Coordinates, _ *Tile) bool {
		m.Set(c)
		return false
	})
	return m
}

// Mask returns the cells whose tile satisfies match.
func (b *ShipBoard) Mask(match func(t *Tile) bool) Bitmask {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var m Bitmask
	b.grid.Iter(func(c Coordinates, t *Tile) bool {
		if match(t) {
			m.Set(c)
		}
		return false
	})
	return m
}

// Summary returns the latest snapshot.
func (b *ShipBoard) Summary() BoardSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.summary
}

// Problem returns the integrity analysis of the latest revision.
func (b *ShipBoard) Problem() IntegrityProblem {
	return b.Summary().Problem
}

// Discarded returns the tiles removed from the board, oldest first.
func (b *ShipBoard) Discarded() []*Tile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.discarded)
}

// SetTile places t on c during assembly. The cell must belong to the layout,
// be free and touch an occupied cell.
func (b *ShipBoard) SetTile(t *Tile, c Coordinates) error {
	b.mu.Lock()
	if err := b.checkPlacementLocked(c); err != nil {
		b.mu.Unlock()
		return err
	}
	if err := t.bind(c); err != nil {
		b.mu.Unlock()
		return err
	}
	b.grid.Put(c, t)
	problem := b.refreshLocked(true)
	b.mu.Unlock()

	b.notify(problem)
	return nil
}

func (b *ShipBoard) checkPlacementLocked(c Coordinates) error {
	if b.phase != Assembly {
		return fmt.Errorf("place tile at %s: %w", c, ErrAssemblyEnded)
	}
	if !b.layout.Allows(c) {
		return fmt.Errorf("place tile at %s: %w", c, ErrOutsideLayout)
	}
	if b.grid.Has(c) {
		return fmt.Errorf("place tile at %s: %w", c, ErrCellOccupied)
	}
	for _, n := range c.Neighbors() {
		if b.grid.Has(n) {
			return nil
		}
	}
	return fmt.Errorf("place tile at %s: %w", c, ErrNotAdjacent)
}

// ForceRemoveTile removes the tile on c, as a hit does. Removal is possible
// in any phase until the flight has ended.
func (b *ShipBoard) ForceRemoveTile(c Coordinates) (*Tile, error) {
	b.mu.Lock()
	if b.phase == Ended {
		b.mu.Unlock()
		return nil, fmt.Errorf("remove tile at %s: %w", c, ErrFlightEnded)
	}
	t, ok := b.grid.Get(c)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("remove tile at %s: %w", c, ErrCellEmpty)
	}
	b.removeLocked(c, t)
	problem := b.refreshLocked(true)
	b.mu.Unlock()

	b.notify(problem)
	return t, nil
}

// RemoveTiles removes every given tile still placed on this board and
// re-validates once. It returns the tiles actually removed.
func (b *ShipBoard) RemoveTiles(tiles ...*Tile) ([]*Tile, error) {
	return b.removeTiles(nil, tiles)
}

// RemoveTilesAt is RemoveTiles, refused with ErrStaleRevision unless the
// board is still at the given structural revision.
func (b *ShipBoard) RemoveTilesAt(revision uint64, tiles ...*Tile) ([]*Tile, error) {
	return b.removeTiles(&revision, tiles)
}

func (b *ShipBoard) removeTiles(revision *uint64, tiles []*Tile) ([]*Tile, error) {
	b.mu.Lock()
	if b.phase == Ended {
		b.mu.Unlock()
		return nil, fmt.Errorf("remove %d tiles: %w", len(tiles), ErrFlightEnded)
	}
	if revision != nil && *revision != b.revision {
		current := b.revision
		b.mu.Unlock()
		return nil, fmt.Errorf("remove %d tiles at revision %d, now %d: %w", len(tiles), *revision, current, ErrStaleRevision)
	}
	var removed []*Tile
	for _, t := range tiles {
		c, ok := t.position()
		if !ok {
			continue
		}
		if current, ok := b.grid.Get(c); ok && current == t {
			b.removeLocked(c, t)
			removed = append(removed, t)
		}
	}
	if len(removed) == 0 {
		b.mu.Unlock()
		return nil, nil
	}
	problem := b.refreshLocked(true)
	b.mu.Unlock()

	b.notify(problem)
	return removed, nil
}

func (b *ShipBoard) removeLocked(c Coordinates, t *Tile) {
	b.grid.Delete(c)
	t.unbind()
	b.discarded = append(b.discarded, t)
}

// ValidateStructure re-runs the integrity analysis and notifies listeners.
func (b *ShipBoard) ValidateStructure() IntegrityProblem {
	b.mu.Lock()
	problem := b.refreshLocked(false)
	b.mu.Unlock()

	b.notify(problem)
	return problem
}

// EndAssembly moves the board into the Flight phase and re-validates, since
// clusters are now kept alive by crew rather than by the main cabin.
func (b *ShipBoard) EndAssembly() error {
	b.mu.Lock()
	if b.phase != Assembly {
		b.mu.Unlock()
		return ErrAssemblyEnded
	}
	b.phase = Flight
	problem := b.refreshLocked(true)
	b.mu.Unlock()

	b.notify(problem)
	return nil
}

// EndFlight moves the board into the terminal Ended phase.
// It reports whether the phase changed.
func (b *ShipBoard) EndFlight() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase == Ended {
		return false
	}
	b.phase = Ended
	return true
}

// AddLoadable stores l in the tile on c.
func (b *ShipBoard) AddLoadable(c Coordinates, l LoadableType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.containerLocked(c)
	if err != nil {
		return err
	}
	if err := t.accepts(l); err != nil {
		return fmt.Errorf("load %s: %w", c, err)
	}
	if l.IsAlien() && !b.sustainsLocked(t, l) {
		return fmt.Errorf("load %s at %s without life support: %w", l, c, ErrLoadableNotAllowed)
	}
	t.load(l)
	b.refreshLocked(false)
	return nil
}

// RemoveLoadable takes one l out of the tile on c.
func (b *ShipBoard) RemoveLoadable(c Coordinates, l LoadableType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.containerLocked(c)
	if err != nil {
		return err
	}
	if err := t.unload(l); err != nil {
		return fmt.Errorf("unload %s: %w", c, err)
	}
	b.refreshLocked(false)
	return nil
}

// ConsumeBattery spends one battery charge stored on c.
func (b *ShipBoard) ConsumeBattery(c Coordinates) error {
	if err := b.RemoveLoadable(c, BatteryCharge); err != nil {
		if t, ok := b.Tile(c); ok && t.Kind() == KindBattery {
			return fmt.Errorf("battery at %s: %w", c, ErrNoBatteryCharge)
		}
		return err
	}
	return nil
}

func (b *ShipBoard) containerLocked(c Coordinates) (*Tile, error) {
	if b.phase == Ended {
		return nil, fmt.Errorf("loadables at %s: %w", c, ErrFlightEnded)
	}
	t, ok := b.grid.Get(c)
	if !ok {
		return nil, fmt.Errorf("loadables at %s: %w", c, ErrCellEmpty)
	}
	if !t.Kind().IsContainer() {
		return nil, fmt.Errorf("loadables at %s in %s: %w", c, t.Kind(), ErrLoadableNotAllowed)
	}
	return t, nil
}

// sustainsLocked reports whether a cabin is connected to a life support of
// the alien's colour.
func (b *ShipBoard) sustainsLocked(cabin *Tile, alien LoadableType) bool {
	if cabin.Kind() != KindCabin {
		return false
	}
	c := cabin.Coordinates()
	for _, d := range Directions {
		n, ok := b.grid.Get(c.Step(d))
		if !ok || n.Kind() != KindLifeSupport || n.AlienColor().crew() != alien {
			continue
		}
		if Weld(cabin.Side(d), n.Side(d.Opposite())) == WeldConnected {
			return true
		}
	}
	return false
}

// refreshLocked recomputes the analysis and the summary.
func (b *ShipBoard) refreshLocked(structural bool) IntegrityProblem {
	if structural {
		b.revision++
	}
	problem := b.analyzeLocked()
	b.summary = summarize(b.sortedLocked(), b.atLocked, problem)
	return problem
}

func (b *ShipBoard) analyzeLocked() IntegrityProblem {
	problem := analyze(b.sortedLocked(), b.atLocked, b.phase)
	problem.revision = b.revision
	return problem
}

func (b *ShipBoard) atLocked(c Coordinates) *Tile {
	t, _ := b.grid.Get(c)
	return t
}

func (b *ShipBoard) sortedLocked() []*Tile {
	cells := make([]Coordinates, 0, b.grid.Count())
	b.grid.Iter(func(c Coordinates, _ *Tile) bool {
		cells = append(cells, c)
		return false
	})
	slices.SortFunc(cells, func(x, y Coordinates) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		}
		return 0
	})
	tiles := make([]*Tile, len(cells))
	for i, c := range cells {
		tiles[i], _ = b.grid.Get(c)
	}
	return tiles
}

// notify informs listeners outside of the board lock.
func (b *ShipBoard) notify(problem IntegrityProblem) {
	b.listenersMu.RLock()
	listeners := slices.Clone(b.listeners)
	b.listenersMu.RUnlock()

	for _, l := range listeners {
		l.Update(problem)
	}
}
