package shipyard

import "testing"

func TestDirectionRotate(t *testing.T) {
	tests := []struct {
		d     Direction
		turns int
		want  Direction
	}{
		{Up, 0, Up},
		{Up, 1, Right},
		{Up, 2, Down},
		{Up, 3, Left},
		{Up, 4, Up},
		{Right, 1, Down},
		{Left, 1, Up},
		{Up, -1, Left},
		{Down, -3, Left},
	}
	for _, tt := range tests {
		if have := tt.d.Rotate(tt.turns); have != tt.want {
			t.Errorf("%s rotated %d: expected %s, got %s", tt.d, tt.turns, tt.want, have)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite().Opposite() != d {
			t.Errorf("opposite of opposite of %s is not %s", d, d)
		}
		if d.Opposite() != d.Rotate(2) {
			t.Errorf("expected opposite of %s to be %s, got %s", d, d.Rotate(2), d.Opposite())
		}
	}
}

func TestCoordinatesStep(t *testing.T) {
	c := At(3, 4)
	want := map[Direction]Coordinates{
		Up:    At(2, 4),
		Right: At(3, 5),
		Down:  At(4, 4),
		Left:  At(3, 3),
	}
	for d, w := range want {
		if have := c.Step(d); have != w {
			t.Errorf("step %s from %s: expected %s, got %s", d, c, w, have)
		}
	}
}

func TestCoordinatesNeighbors(t *testing.T) {
	if n := At(0, 0).Neighbors(); len(n) != 2 {
		t.Errorf("expected 2 neighbors in the corner, got %d", len(n))
	}
	if n := At(5, 5).Neighbors(); len(n) != 4 {
		t.Errorf("expected 4 neighbors, got %d", len(n))
	}
	if n := At(MaxBoardSize-1, 3).Neighbors(); len(n) != 3 {
		t.Errorf("expected 3 neighbors on the edge, got %d", len(n))
	}
}

func TestCoordinatesIndexRoundTrip(t *testing.T) {
	for _, c := range []Coordinates{At(0, 0), At(2, 7), At(15, 15)} {
		if have := coordinatesAt(c.Index()); have != c {
			t.Errorf("expected %s, got %s", c, have)
		}
	}
}

func TestCoordinatesIndexOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for out of bounds coordinates")
		}
	}()
	At(-1, 0).Index()
}

func TestBitmask(t *testing.T) {
	m := MaskOf(At(0, 0), At(3, 4), At(15, 15))
	if m.Count() != 3 {
		t.Fatalf("expected 3 cells, got %d", m.Count())
	}
	if !m.Has(At(3, 4)) || m.Has(At(4, 3)) {
		t.Error("membership mismatch")
	}
	m.Set(At(-1, 2))
	if m.Count() != 3 {
		t.Error("out of bounds cell was set")
	}

	cells := m.Cells()
	want := []Coordinates{At(0, 0), At(3, 4), At(15, 15)}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d: expected %s, got %s", i, want[i], cells[i])
		}
	}

	other := MaskOf(At(3, 4))
	if !m.ContainsAll(other) {
		t.Error("expected the mask to contain (3,4)")
	}
	if missing := MaskOf(At(3, 4), At(5, 5)); m.ContainsAll(missing) {
		t.Error("expected (5,5) to be missing")
	}
	var empty Bitmask
	if !empty.IsZero() || m.IsZero() {
		t.Error("IsZero mismatch")
	}
	if rest := m.AndNot(other); rest.Has(At(3, 4)) || rest.Count() != 2 {
		t.Error("AndNot left (3,4) behind")
	}
}

func TestStandardLayout(t *testing.T) {
	l := StandardLayout()
	if !l.Allows(l.Center) {
		t.Fatal("layout must allow its center")
	}
	if l.Allows(At(0, 0)) || !l.Allows(At(0, 2)) || l.Allows(At(4, 3)) {
		t.Error("unexpected layout shape")
	}
	if l.Cells.Count() != 27 {
		t.Errorf("expected 27 cells, got %d", l.Cells.Count())
	}
}
