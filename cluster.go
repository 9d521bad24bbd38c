package shipyard

import (
	"slices"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// TileCluster is a set of tiles. Two clusters are equal when they hold the
// same tiles, regardless of where or in which order they were discovered.
type TileCluster struct {
	tiles mapset.Set[*Tile]
}

// NewTileCluster returns a cluster holding the given tiles.
func NewTileCluster(tiles ...*Tile) TileCluster {
	c := TileCluster{tiles: mapset.New[*Tile]()}
	for _, t := range tiles {
		c.tiles.Put(t)
	}
	return c
}

// Add puts t into the cluster.
func (c TileCluster) Add(t *Tile) {
	c.tiles.Put(t)
}

// Contains reports whether t belongs to the cluster.
func (c TileCluster) Contains(t *Tile) bool {
	return c.tiles.Has(t)
}

// Size returns the number of tiles in the cluster.
func (c TileCluster) Size() int {
	return c.tiles.Size()
}

// Tiles returns the members sorted row-major by their coordinates.
// Unplaced members sort last.
func (c TileCluster) Tiles() []*Tile {
	out := make([]*Tile, 0, c.tiles.Size())
	c.tiles.Each(func(t *Tile) {
		out = append(out, t)
	})
	slices.SortFunc(out, compareTiles)
	return out
}

// Mask returns the cells of the placed members.
func (c TileCluster) Mask() Bitmask {
	var m Bitmask
	c.tiles.Each(func(t *Tile) {
		if at, ok := t.position(); ok {
			m.Set(at)
		}
	})
	return m
}

// Merge returns a new cluster holding the members of both clusters.
func (c TileCluster) Merge(other TileCluster) TileCluster {
	merged := NewTileCluster()
	c.tiles.Each(merged.Add)
	other.tiles.Each(merged.Add)
	return merged
}

// Without returns a new cluster holding the members of c absent from other.
func (c TileCluster) Without(other TileCluster) TileCluster {
	out := NewTileCluster()
	c.tiles.Each(func(t *Tile) {
		if !other.Contains(t) {
			out.Add(t)
		}
	})
	return out
}

// Equal reports whether both clusters hold exactly the same tiles.
func (c TileCluster) Equal(other TileCluster) bool {
	if c.Size() != other.Size() {
		return false
	}
	equal := true
	c.tiles.Each(func(t *Tile) {
		if equal && !other.Contains(t) {
			equal = false
		}
	})
	return equal
}

// String lists the members.
func (c TileCluster) String() string {
	tiles := c.Tiles()
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// first returns the lowest member in row-major order.
func (c TileCluster) first() *Tile {
	tiles := c.Tiles()
	if len(tiles) == 0 {
		return nil
	}
	return tiles[0]
}

func compareTiles(a, b *Tile) int {
	ca, pa := a.position()
	cb, pb := b.position()
	switch {
	case pa && !pb:
		return -1
	case !pa && pb:
		return 1
	case !pa && !pb:
		return strings.Compare(a.ID().String(), b.ID().String())
	}
	switch {
	case ca.Less(cb):
		return -1
	case cb.Less(ca):
		return 1
	}
	return 0
}

// containsCluster reports whether an equal cluster is already in the list.
func containsCluster(list []TileCluster, c TileCluster) bool {
	return slices.ContainsFunc(list, c.Equal)
}
