package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewGameStatePlacement(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := NewGameState(Beginner, rng)

		require.True(t, s.WhiteKnight.InBounds())
		require.True(t, s.BlackKnight.InBounds())
		require.NotEqual(t, s.WhiteKnight, s.BlackKnight, "knights must start apart")

		require.Equal(t, CellEmpty, s.Board.At(s.WhiteKnight).Kind, "white knight must start on an empty square")
		require.Equal(t, CellEmpty, s.Board.At(s.BlackKnight).Kind, "black knight must start on an empty square")

		values := map[int]int{}
		points := 0
		for i := range s.Board {
			if s.Board[i].Kind == CellPoint {
				points++
				values[s.Board[i].Value]++
			}
		}
		require.Equal(t, 10, points, "board must carry exactly ten point cells")
		for _, v := range PointValues {
			require.Equal(t, 1, values[v], "value %d must appear exactly once", v)
		}

		require.Equal(t, White, s.Current)
		require.False(t, s.GameOver)
		require.Equal(t, NoWinner, s.Winner)
		require.Equal(t, 2, s.MaxDepth)
	}
}

func TestNewGameStateReproducible(t *testing.T) {
	a := NewGameState(Expert, rand.New(rand.NewSource(42)))
	b := NewGameState(Expert, rand.New(rand.NewSource(42)))
	require.Equal(t, a, b, "same seed must produce the same position")
}

func TestManhattan(t *testing.T) {
	require.Equal(t, 0, Manhattan(Coord{3, 3}, Coord{3, 3}))
	require.Equal(t, 5, Manhattan(Coord{0, 0}, Coord{2, 3}))
	require.Equal(t, 14, Manhattan(Coord{0, 0}, Coord{7, 7}))
	require.Equal(t, 5, Manhattan(Coord{2, 3}, Coord{0, 0}), "distance is symmetric")
}

func TestIsCenter(t *testing.T) {
	centers := []Coord{{3, 3}, {3, 4}, {4, 3}, {4, 4}}
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			c := Coord{row, col}
			if c.IsCenter() {
				count++
				require.Contains(t, centers, c)
			}
		}
	}
	require.Equal(t, 4, count)
}

func TestDifficultyDepths(t *testing.T) {
	cases := map[Difficulty]int{Beginner: 2, Amateur: 4, Expert: 6}
	for d, depth := range cases {
		parsed, err := ParseDifficulty(string(d))
		require.NoError(t, err)
		require.Equal(t, depth, parsed.Depth())
	}

	_, err := ParseDifficulty("grandmaster")
	require.Error(t, err)
}
