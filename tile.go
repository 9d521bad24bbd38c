package shipyard

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// TileKind identifies the component printed on a tile.
type TileKind uint8

const (
	KindStructural TileKind = iota
	KindLifeSupport
	KindCargoHold
	KindCabin
	KindMainCabin
	KindBattery
	KindCannon
	KindEngine
	KindShield
)

// String returns the string representation of the kind.
func (k TileKind) String() string {
	switch k {
	case KindStructural:
		return "Structural"
	case KindLifeSupport:
		return "LifeSupport"
	case KindCargoHold:
		return "CargoHold"
	case KindCabin:
		return "Cabin"
	case KindMainCabin:
		return "MainCabin"
	case KindBattery:
		return "Battery"
	case KindCannon:
		return "Cannon"
	case KindEngine:
		return "Engine"
	case KindShield:
		return "ShieldGenerator"
	default:
		return "Unknown"
	}
}

// IsContainer reports whether tiles of this kind store loadables.
func (k TileKind) IsContainer() bool {
	switch k {
	case KindCargoHold, KindCabin, KindMainCabin, KindBattery:
		return true
	}
	return false
}

// Sides holds one connector per direction, indexed by Direction.
type Sides [directionCount]Connector

// UniformSides returns sides with the same connector on every direction.
func UniformSides(c Connector) Sides {
	return Sides{c, c, c, c}
}

// Tile is a component tile. Its sides and payload are fixed at creation; its
// rotation may change only while it is unplaced, and it is bound to at most
// one board cell at a time.
type Tile struct {
	id       uuid.UUID
	kind     TileKind
	sides    Sides
	double   bool
	special  bool
	capacity int
	color    AlienColor

	mu       sync.RWMutex
	rotation int
	placed   bool
	coords   Coordinates
	contents []LoadableType
}

// TileOption configures a tile created with NewTile.
type TileOption func(*Tile)

// WithCapacity sets the number of loadables a cargo hold or battery can store.
func WithCapacity(n int) TileOption {
	return func(t *Tile) {
		t.capacity = n
	}
}

// WithSpecialCargo allows a cargo hold to store red cargo.
func WithSpecialCargo() TileOption {
	return func(t *Tile) {
		t.special = true
	}
}

// WithDouble marks a cannon or engine as double powered.
func WithDouble() TileOption {
	return func(t *Tile) {
		t.double = true
	}
}

// WithAlienColor sets the species a life-support tile sustains.
func WithAlienColor(c AlienColor) TileOption {
	return func(t *Tile) {
		t.color = c
	}
}

// NewTile creates an unplaced tile.
// Cannons must carry exactly one Cannon side and engines exactly one Engine
// side; no other kind may carry either.
func NewTile(kind TileKind, sides Sides, opts ...TileOption) (*Tile, error) {
	t := &Tile{
		id:    uuid.New(),
		kind:  kind,
		sides: sides,
	}
	switch kind {
	case KindCabin, KindMainCabin:
		t.capacity = 2
	case KindCargoHold, KindBattery:
		t.capacity = 2
	}
	for _, opt := range opts {
		opt(t)
	}

	cannons, engines := 0, 0
	for _, c := range sides {
		switch c {
		case Cannon:
			cannons++
		case Engine:
			engines++
		}
	}
	switch {
	case kind == KindCannon && (cannons != 1 || engines != 0):
		return nil, fmt.Errorf("cannon needs exactly one barrel side: %w", ErrInvalidTile)
	case kind == KindEngine && (engines != 1 || cannons != 0):
		return nil, fmt.Errorf("engine needs exactly one exhaust side: %w", ErrInvalidTile)
	case kind != KindCannon && kind != KindEngine && cannons+engines > 0:
		return nil, fmt.Errorf("%s cannot carry barrel or exhaust sides: %w", kind, ErrInvalidTile)
	case kind.IsContainer() && t.capacity <= 0:
		return nil, fmt.Errorf("%s needs a positive capacity: %w", kind, ErrInvalidTile)
	case kind == KindLifeSupport && t.color == NoAlien:
		return nil, fmt.Errorf("life support needs an alien colour: %w", ErrInvalidTile)
	case t.double && kind != KindCannon && kind != KindEngine:
		return nil, fmt.Errorf("%s cannot be double: %w", kind, ErrInvalidTile)
	}
	return t, nil
}

// MustTile is like NewTile but panics on error.
func MustTile(kind TileKind, sides Sides, opts ...TileOption) *Tile {
	t, err := NewTile(kind, sides, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// ID returns the tile's unique identifier.
func (t *Tile) ID() uuid.UUID {
	return t.id
}

// Kind returns the tile kind.
func (t *Tile) Kind() TileKind {
	return t.kind
}

// Double reports whether a cannon or engine is double powered.
func (t *Tile) Double() bool {
	return t.double
}

// Special reports whether a cargo hold accepts red cargo.
func (t *Tile) Special() bool {
	return t.special
}

// Capacity returns the number of loadables a container can store.
func (t *Tile) Capacity() int {
	return t.capacity
}

// AlienColor returns the species sustained by a life-support tile.
func (t *Tile) AlienColor() AlienColor {
	return t.color
}

// Rotation returns the number of clockwise quarter turns applied to the tile.
func (t *Tile) Rotation() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rotation
}

// Rotate turns an unplaced tile clockwise by the given quarter turns.
func (t *Tile) Rotate(quarterTurns int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.placed {
		return fmt.Errorf("rotate tile at %s: %w", t.coords, ErrTileAlreadyPlaced)
	}
	t.rotation = ((t.rotation+quarterTurns)%4 + 4) % 4
	return nil
}

// Side returns the connector facing direction d after rotation.
func (t *Tile) Side(d Direction) Connector {
	t.mu.RLock()
	r := t.rotation
	t.mu.RUnlock()
	return t.sides[d.Rotate(-r)]
}

// Sides returns the rotated connectors, indexed by Direction.
func (t *Tile) Sides() Sides {
	var out Sides
	for _, d := range Directions {
		out[d] = t.Side(d)
	}
	return out
}

// Facing returns the direction of the barrel of a cannon or the exhaust of an
// engine. It returns false for every other kind.
func (t *Tile) Facing() (Direction, bool) {
	var want Connector
	switch t.kind {
	case KindCannon:
		want = Cannon
	case KindEngine:
		want = Engine
	default:
		return 0, false
	}
	for _, d := range Directions {
		if t.Side(d) == want {
			return d, true
		}
	}
	return 0, false
}

// ShieldDirections returns the two directions covered by a shield generator.
// An unrotated generator covers Up and Right.
func (t *Tile) ShieldDirections() ([2]Direction, bool) {
	if t.kind != KindShield {
		return [2]Direction{}, false
	}
	r := t.Rotation()
	return [2]Direction{Up.Rotate(r), Right.Rotate(r)}, true
}

// IntrinsicallyValid reports whether the tile's orientation is legal regardless
// of its neighbours. An engine must exhaust downwards.
func (t *Tile) IntrinsicallyValid() bool {
	if t.kind == KindEngine {
		d, _ := t.Facing()
		return d == Down
	}
	return true
}

// Placed reports whether the tile is bound to a board cell.
func (t *Tile) Placed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.placed
}

// Coordinates returns the cell the tile is bound to.
// Asking an unplaced tile for its coordinates is a programming error and panics.
func (t *Tile) Coordinates() Coordinates {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.placed {
		panic(fmt.Sprintf("shipyard: coordinates requested from unplaced tile %s", t.id))
	}
	return t.coords
}

// position returns the bound cell, if any.
func (t *Tile) position() (Coordinates, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.coords, t.placed
}

// Contents returns a copy of the stored loadables.
func (t *Tile) Contents() []LoadableType {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.contents)
}

// Count returns the number of stored loadables of type l.
func (t *Tile) Count(l LoadableType) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, c := range t.contents {
		if c == l {
			n++
		}
	}
	return n
}

// String returns a short description of the tile.
func (t *Tile) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.placed {
		return fmt.Sprintf("%s%s", t.kind, t.coords)
	}
	return fmt.Sprintf("%s(unplaced)", t.kind)
}

// bind records the cell the tile is placed on.
func (t *Tile) bind(c Coordinates) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.placed {
		return fmt.Errorf("place tile %s at %s, already at %s: %w", t.kind, c, t.coords, ErrTileAlreadyPlaced)
	}
	t.placed = true
	t.coords = c
	return nil
}

// unbind releases the tile from its cell.
func (t *Tile) unbind() {
	t.mu.Lock()
	t.placed = false
	t.coords = Coordinates{}
	t.mu.Unlock()
}

// accepts checks container rules that do not depend on neighbours.
func (t *Tile) accepts(l LoadableType) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	allowed := false
	switch t.kind {
	case KindCargoHold:
		allowed = l.IsCargo() && (l != CargoRed || t.special)
	case KindCabin:
		allowed = l.IsCrew()
	case KindMainCabin:
		allowed = l == CrewHuman
	case KindBattery:
		allowed = l == BatteryCharge
	}
	if !allowed {
		return fmt.Errorf("%s into %s: %w", l, t.kind, ErrLoadableNotAllowed)
	}

	if t.kind == KindCabin && len(t.contents) > 0 {
		// An alien lives alone.
		if l.IsAlien() || t.contents[0].IsAlien() {
			return fmt.Errorf("%s into %s: %w", l, t.kind, ErrContainerFull)
		}
	}
	if len(t.contents) >= t.capacity {
		return fmt.Errorf("%s into %s: %w", l, t.kind, ErrContainerFull)
	}
	return nil
}

// load stores l after accepts has approved it.
func (t *Tile) load(l LoadableType) {
	t.mu.Lock()
	t.contents = append(t.contents, l)
	t.mu.Unlock()
}

// unload removes one l.
func (t *Tile) unload(l LoadableType) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := slices.Index(t.contents, l)
	if i < 0 {
		return fmt.Errorf("%s from %s: %w", l, t.kind, ErrLoadableNotPresent)
	}
	t.contents = slices.Delete(t.contents, i, i+1)
	return nil
}
