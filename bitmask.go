package shipyard

import (
	"math/bits"
)

// Bitmask is a 256-bit set of board cells, one bit per Coordinates.Index.
// It is used for layouts and for the highlight mask of a request.
type Bitmask [4]uint64

// MaskOf returns a bitmask with the given cells set.
func MaskOf(cells ...Coordinates) Bitmask {
	var m Bitmask
	for _, c := range cells {
		m.Set(c)
	}
	return m
}

// Set sets the bit of c. Out-of-bounds cells are ignored.
func (m *Bitmask) Set(c Coordinates) {
	if !c.InBounds() {
		return
	}
	i := c.Index()
	m[i/64] |= 1 << (i % 64)
}

// Has returns true if the bit of c is set.
func (m *Bitmask) Has(c Coordinates) bool {
	if !c.InBounds() {
		return false
	}
	i := c.Index()
	return m[i/64]&(1<<(i%64)) != 0
}

// ContainsAll returns true if all bits set in other are also set in m.
func (m *Bitmask) ContainsAll(other Bitmask) bool {
	return (m[0]&other[0] == other[0]) &&
		(m[1]&other[1] == other[1]) &&
		(m[2]&other[2] == other[2]) &&
		(m[3]&other[3] == other[3])
}

// IsZero returns true if no bits are set.
func (m *Bitmask) IsZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}

// Or returns a new bitmask with bits set from both m and other.
func (m Bitmask) Or(other Bitmask) Bitmask {
	return Bitmask{
		m[0] | other[0],
		m[1] | other[1],
		m[2] | other[2],
		m[3] | other[3],
	}
}

// AndNot returns a new bitmask with bits set in m but not in other.
func (m Bitmask) AndNot(other Bitmask) Bitmask {
	return Bitmask{
		m[0] &^ other[0],
		m[1] &^ other[1],
		m[2] &^ other[2],
		m[3] &^ other[3],
	}
}

// Count returns the number of cells set.
func (m *Bitmask) Count() int {
	return bits.OnesCount64(m[0]) +
		bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) +
		bits.OnesCount64(m[3])
}

// Cells returns the set cells in row-major order.
func (m Bitmask) Cells() []Coordinates {
	out := make([]Coordinates, 0, m.Count())
	for word := range m {
		w := m[word]
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, coordinatesAt(word*64+bit))
			w &^= 1 << bit
		}
	}
	return out
}

// Equals returns true if both bitmasks are identical.
func (m *Bitmask) Equals(other Bitmask) bool {
	return m[0] == other[0] &&
		m[1] == other[1] &&
		m[2] == other[2] &&
		m[3] == other[3]
}
