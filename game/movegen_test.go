package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// emptyState builds a bare position with both knights placed and no
// point cells, handy for exercising movement rules in isolation.
func emptyState(white, black Coord) *GameState {
	return &GameState{
		WhiteKnight: white,
		BlackKnight: black,
		Current:     White,
		Difficulty:  Beginner,
		MaxDepth:    Beginner.Depth(),
	}
}

func TestMovesCenterOfBoard(t *testing.T) {
	s := emptyState(Coord{3, 3}, Coord{7, 7})

	moves := s.MovesFor(White)
	require.Len(t, moves, 8, "a knight in the open has all eight destinations")
	require.ElementsMatch(t, []Coord{
		{1, 2}, {1, 4}, {2, 1}, {2, 5}, {4, 1}, {4, 5}, {5, 2}, {5, 4},
	}, moves)
}

func TestMovesCorner(t *testing.T) {
	s := emptyState(Coord{0, 0}, Coord{7, 7})
	require.ElementsMatch(t, []Coord{{1, 2}, {2, 1}}, s.MovesFor(White))

	require.ElementsMatch(t, []Coord{{5, 6}, {6, 5}}, s.MovesFor(Black))
}

func TestMovesSkipDestroyed(t *testing.T) {
	s := emptyState(Coord{0, 0}, Coord{7, 7})
	s.Board.Set(Coord{1, 2}, DestroyedCell)

	require.ElementsMatch(t, []Coord{{2, 1}}, s.MovesFor(White))
	require.Equal(t, 1, s.CountMovesFor(White))
}

func TestMovesSkipOpponentSquare(t *testing.T) {
	s := emptyState(Coord{0, 0}, Coord{1, 2})

	require.ElementsMatch(t, []Coord{{2, 1}}, s.MovesFor(White))
}

func TestMovesAllowPointCells(t *testing.T) {
	s := emptyState(Coord{0, 0}, Coord{7, 7})
	s.Board.Set(Coord{1, 2}, PointCell(10))

	require.Contains(t, s.MovesFor(White), Coord{1, 2}, "point cells are reachable")
}

func TestCountMovesMatchesMoves(t *testing.T) {
	s := emptyState(Coord{2, 2}, Coord{4, 3})
	s.Board.Set(Coord{0, 1}, DestroyedCell)
	s.Board.Set(Coord{3, 4}, DestroyedCell)

	for _, p := range []Player{White, Black} {
		require.Equal(t, len(s.MovesFor(p)), s.CountMovesFor(p))
	}
}
