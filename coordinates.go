package shipyard

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxBoardSize is the number of rows and columns addressable on a ship board.
// It matches the 256 bits of a Bitmask.
const MaxBoardSize = 16

// Direction identifies one of the four sides of a tile.
// Directions are ordered clockwise starting from Up.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left

	directionCount
)

// Directions lists every direction in clockwise order.
var Directions = [directionCount]Direction{Up, Right, Down, Left}

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	default:
		return "Unknown"
	}
}

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	return (d + 2) % directionCount
}

// vector returns the unit step of d as (column, row). Rows grow downwards.
func (d Direction) vector() mgl64.Vec2 {
	switch d {
	case Up:
		return mgl64.Vec2{0, -1}
	case Right:
		return mgl64.Vec2{1, 0}
	case Down:
		return mgl64.Vec2{0, 1}
	default:
		return mgl64.Vec2{-1, 0}
	}
}

// Rotate returns d turned clockwise by the given number of quarter turns.
// Negative values turn counter-clockwise.
func (d Direction) Rotate(quarterTurns int) Direction {
	// With rows growing downwards a positive angle turns clockwise on screen.
	v := mgl64.Rotate2D(float64(quarterTurns) * math.Pi / 2).Mul2x1(d.vector())
	x, y := math.Round(v[0]), math.Round(v[1])
	switch {
	case y < 0:
		return Up
	case x > 0:
		return Right
	case y > 0:
		return Down
	default:
		return Left
	}
}

// Coordinates identifies a cell of the ship board grid.
type Coordinates struct {
	Row int
	Col int
}

// At is shorthand for Coordinates{Row: row, Col: col}.
func At(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

// Step returns the cell adjacent to c in direction d.
// The result may lie outside the board.
func (c Coordinates) Step(d Direction) Coordinates {
	switch d {
	case Up:
		return Coordinates{c.Row - 1, c.Col}
	case Right:
		return Coordinates{c.Row, c.Col + 1}
	case Down:
		return Coordinates{c.Row + 1, c.Col}
	default:
		return Coordinates{c.Row, c.Col - 1}
	}
}

// InBounds reports whether c is addressable on a board.
func (c Coordinates) InBounds() bool {
	return c.Row >= 0 && c.Row < MaxBoardSize && c.Col >= 0 && c.Col < MaxBoardSize
}

// Neighbors returns the in-bounds cells adjacent to c, in clockwise order from Up.
func (c Coordinates) Neighbors() []Coordinates {
	out := make([]Coordinates, 0, directionCount)
	for _, d := range Directions {
		if n := c.Step(d); n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// Index returns the bit index of c inside a Bitmask.
// It panics if c is out of bounds.
func (c Coordinates) Index() int {
	if !c.InBounds() {
		panic(fmt.Sprintf("shipyard: coordinates %s out of bounds", c))
	}
	return c.Row*MaxBoardSize + c.Col
}

// Less orders coordinates row-major.
func (c Coordinates) Less(o Coordinates) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// String returns the coordinates as "(row,col)".
func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func coordinatesAt(index int) Coordinates {
	return Coordinates{Row: index / MaxBoardSize, Col: index % MaxBoardSize}
}
