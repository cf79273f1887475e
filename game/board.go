package game

import "fmt"

// BoardSize is the side length of the square board.
const BoardSize = 8

// PointValues are the ten point-cell values present on every fresh board,
// each exactly once.
var PointValues = [10]int{-10, -5, -4, -3, -1, 1, 3, 4, 5, 10}

// Coord is a board coordinate, row and column both in [0,7].
type Coord struct {
	Row int
	Col int
}

func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

func (c Coord) index() int {
	return c.Row*BoardSize + c.Col
}

// IsCenter reports whether c is one of the four central squares.
func (c Coord) IsCenter() bool {
	return (c.Row == 3 || c.Row == 4) && (c.Col == 3 || c.Col == 4)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Manhattan returns the Manhattan distance between two coordinates.
func Manhattan(a, b Coord) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CellKind tags the three cell variants.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellDestroyed
	CellPoint
)

// Cell is a single board square. Value is meaningful only for CellPoint.
type Cell struct {
	Kind  CellKind
	Value int
}

// PointCell returns a point cell carrying v.
func PointCell(v int) Cell {
	return Cell{Kind: CellPoint, Value: v}
}

// DestroyedCell is the permanent marker for a visited or vacated square.
var DestroyedCell = Cell{Kind: CellDestroyed}

// Board is the fixed 8x8 grid, indexed row-major.
type Board [BoardSize * BoardSize]Cell

func (b *Board) At(c Coord) Cell {
	return b[c.index()]
}

func (b *Board) Set(c Coord, cell Cell) {
	b[c.index()] = cell
}

// coordAt is the inverse of Coord.index.
func coordAt(i int) Coord {
	return Coord{Row: i / BoardSize, Col: i % BoardSize}
}
