package shipyard

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// WeldPair is two neighbouring tiles whose facing sides may not touch.
type WeldPair struct {
	A, B *Tile
}

// IntegrityProblem is the classified result of one structural analysis.
//
// Clusters to remove must leave the ship unconditionally. Clusters to keep
// compete with each other: at most one of them may remain. The board is sound
// when nothing must be removed and exactly one cluster competes.
type IntegrityProblem struct {
	revision uint64
	phase    Phase
	remove   []TileCluster
	keep     []TileCluster
	welds    []WeldPair
}

// IsProblem reports whether the board needs repair.
func (p IntegrityProblem) IsProblem() bool {
	return len(p.remove) > 0 || len(p.keep) != 1
}

// ClustersToRemove returns the clusters that must be removed.
func (p IntegrityProblem) ClustersToRemove() []TileCluster {
	return slices.Clone(p.remove)
}

// ClustersToKeep returns the clusters competing to remain.
func (p IntegrityProblem) ClustersToKeep() []TileCluster {
	return slices.Clone(p.keep)
}

// IllegalWelds returns each illegally welded pair once.
func (p IntegrityProblem) IllegalWelds() []WeldPair {
	return slices.Clone(p.welds)
}

// Revision returns the board revision the analysis was run against.
func (p IntegrityProblem) Revision() uint64 {
	return p.revision
}

// Phase returns the board phase the analysis was run against.
func (p IntegrityProblem) Phase() Phase {
	return p.phase
}

// TilesToRemove returns the union of the removal clusters in row-major order.
func (p IntegrityProblem) TilesToRemove() []*Tile {
	all := NewTileCluster()
	for _, c := range p.remove {
		all = all.Merge(c)
	}
	return all.Tiles()
}

// Analyze runs the integrity analysis against the current state of b without
// modifying it.
func Analyze(b *ShipBoard) IntegrityProblem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.analyzeLocked()
}

// analyze classifies the tiles of a board. tiles must be sorted row-major and
// at must return the tile on a cell or nil.
func analyze(tiles []*Tile, at func(Coordinates) *Tile, phase Phase) IntegrityProblem {
	p := IntegrityProblem{phase: phase}

	// Badly oriented tiles leave on their own and take no part in clustering.
	invalid := mapset.New[*Tile]()
	valid := make([]*Tile, 0, len(tiles))
	for _, t := range tiles {
		if t.IntrinsicallyValid() {
			valid = append(valid, t)
			continue
		}
		invalid.Put(t)
		p.remove = append(p.remove, NewTileCluster(t))
	}

	// Compare every pair of facing sides. Illegal welds are seen from both
	// ends; only the first sighting is kept.
	links := make(map[*Tile][]*Tile, len(valid))
	seen := mapset.New[WeldPair]()
	for _, t := range valid {
		c := t.Coordinates()
		for _, d := range Directions {
			n := at(c.Step(d))
			if n == nil || invalid.Has(n) {
				continue
			}
			switch Weld(t.Side(d), n.Side(d.Opposite())) {
			case WeldConnected:
				links[t] = append(links[t], n)
			case WeldIllegal:
				if seen.Has(WeldPair{A: n, B: t}) {
					continue
				}
				seen.Put(WeldPair{A: t, B: n})
				p.welds = append(p.welds, WeldPair{A: t, B: n})
			}
		}
	}

	// Grow clusters in visiting order. A tile touching several clusters
	// bridges them, so they merge around it.
	var clusters []TileCluster
	for _, t := range valid {
		var touching []int
		for i, cl := range clusters {
			if slices.ContainsFunc(links[t], cl.Contains) {
				touching = append(touching, i)
			}
		}
		switch len(touching) {
		case 0:
			clusters = append(clusters, NewTileCluster(t))
		case 1:
			clusters[touching[0]].Add(t)
		default:
			merged := NewTileCluster(t)
			for _, i := range touching {
				merged = merged.Merge(clusters[i])
			}
			for i := len(touching) - 1; i >= 0; i-- {
				clusters = slices.Delete(clusters, touching[i], touching[i]+1)
			}
			clusters = append(clusters, merged)
		}
	}

	welded := mapset.New[*Tile]()
	for _, w := range p.welds {
		welded.Put(w.A)
		welded.Put(w.B)
	}

	var candidates []TileCluster
	for _, cl := range clusters {
		if !slices.ContainsFunc(cl.Tiles(), welded.Has) {
			candidates = append(candidates, cl)
		}
	}

	// Only one side of a bad weld may stay: explore each side with the
	// other one blocked.
	for _, w := range p.welds {
		for _, cl := range []TileCluster{explore(w.A, w.B, links), explore(w.B, w.A, links)} {
			if !containsCluster(candidates, cl) {
				candidates = append(candidates, cl)
			}
		}
	}

	var dropped []TileCluster
	for _, cl := range candidates {
		if qualifies(cl, phase) {
			p.keep = append(p.keep, cl)
		} else {
			dropped = append(dropped, cl)
		}
	}
	for _, cl := range dropped {
		for _, k := range p.keep {
			cl = cl.Without(k)
		}
		if cl.Size() > 0 && !containsCluster(p.remove, cl) {
			p.remove = append(p.remove, cl)
		}
	}

	sortClusters(p.keep)
	sortClusters(p.remove)
	return p
}

// explore collects every tile reachable from start through connected sides,
// never entering blocked.
func explore(start, blocked *Tile, links map[*Tile][]*Tile) TileCluster {
	visited := mapset.New[*Tile]()
	queue := []*Tile{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == blocked || visited.Has(current) {
			continue
		}
		visited.Put(current)
		for _, n := range links[current] {
			if n != blocked && !visited.Has(n) {
				queue = append(queue, n)
			}
		}
	}
	return TileCluster{tiles: visited}
}

// qualifies reports whether a cluster holds someone able to fly it: the main
// cabin while assembling, a crew member afterwards.
func qualifies(cl TileCluster, phase Phase) bool {
	found := false
	cl.tiles.Each(func(t *Tile) {
		if found {
			return
		}
		switch {
		case phase == Assembly:
			found = t.Kind() == KindMainCabin
		case t.Kind() == KindCabin || t.Kind() == KindMainCabin:
			found = slices.ContainsFunc(t.Contents(), LoadableType.IsCrew)
		}
	})
	return found
}

func sortClusters(list []TileCluster) {
	slices.SortFunc(list, func(a, b TileCluster) int {
		fa, fb := a.first(), b.first()
		if c := compareTiles(fa, fb); c != 0 {
			return c
		}
		return a.Size() - b.Size()
	})
}
