package shipyard

import "fmt"

// Layout describes the cells a ship may occupy and where its main cabin sits.
type Layout struct {
	Name   string
	Cells  Bitmask
	Center Coordinates
}

// Allows reports whether a tile may be placed at c.
func (l Layout) Allows(c Coordinates) bool {
	return l.Cells.Has(c)
}

// standardShape is the flight-board outline, '#' marks a usable cell.
var standardShape = []string{
	"..#.#..",
	".#####.",
	"#######",
	"#######",
	"###.###",
}

// StandardLayout returns the 5x7 flight-board layout with the main cabin at (2,3).
func StandardLayout() Layout {
	return layoutFromShape("standard", standardShape, At(2, 3))
}

// OpenLayout returns a rectangular layout of the given size with the main cabin
// at its center cell. It panics if the size exceeds MaxBoardSize.
func OpenLayout(rows, cols int) Layout {
	if rows <= 0 || cols <= 0 || rows > MaxBoardSize || cols > MaxBoardSize {
		panic(fmt.Sprintf("shipyard: invalid layout size %dx%d", rows, cols))
	}
	var cells Bitmask
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells.Set(At(r, c))
		}
	}
	return Layout{
		Name:   fmt.Sprintf("open-%dx%d", rows, cols),
		Cells:  cells,
		Center: At(rows/2, cols/2),
	}
}

func layoutFromShape(name string, shape []string, center Coordinates) Layout {
	var cells Bitmask
	for r, line := range shape {
		for c, ch := range line {
			if ch == '#' {
				cells.Set(At(r, c))
			}
		}
	}
	return Layout{Name: name, Cells: cells, Center: center}
}
