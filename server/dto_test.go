package server

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"smarthorses/game"
)

func TestStateRoundTrip(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		s := game.NewGameState(game.Amateur, rand.New(rand.NewSource(seed)))
		moves := s.MovesFor(s.Current)
		require.NotEmpty(t, moves)
		s.MakeMove(moves[0])

		decoded, err := decodeState(encodeState(s))
		require.NoError(t, err)
		require.Equal(t, s, decoded)
	}
}

func TestEncodeStateBoard(t *testing.T) {
	s := game.NewGameState(game.Beginner, rand.New(rand.NewSource(8)))
	dto := encodeState(s)

	require.Len(t, dto.Board, game.BoardSize*game.BoardSize)
	points := 0
	for _, v := range dto.Board {
		if _, ok := v.(int); ok {
			points++
		}
	}
	require.Equal(t, 10, points)
	require.Nil(t, dto.Winner, "a running game has no winner on the wire")
}

func TestDecodeStateRejects(t *testing.T) {
	base := func() stateDTO {
		return encodeState(game.NewGameState(game.Beginner, rand.New(rand.NewSource(8))))
	}

	cases := []struct {
		name   string
		mutate func(*stateDTO)
	}{
		{"bad board key", func(d *stateDTO) { d.Board["8,0"] = "destroyed" }},
		{"unknown cell marker", func(d *stateDTO) { d.Board["0,0"] = "burning" }},
		{"fractional point value", func(d *stateDTO) { d.Board["0,0"] = 2.5 }},
		{"knight off the board", func(d *stateDTO) { d.WhiteKnight = []int{3, 9} }},
		{"knight pair malformed", func(d *stateDTO) { d.BlackKnight = []int{4} }},
		{"unknown player", func(d *stateDTO) { d.CurrentPlayer = "red" }},
		{"unknown difficulty", func(d *stateDTO) { d.Difficulty = "impossible" }},
		{"unknown winner", func(d *stateDTO) { w := "nobody"; d.Winner = &w }},
		{"winner before game over", func(d *stateDTO) { w := "white"; d.Winner = &w }},
		{"depth mismatch", func(d *stateDTO) { d.MaxDepth = 9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := base()
			tc.mutate(&dto)
			_, err := decodeState(dto)
			var verr *game.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestDecodeStateJSONNumbers(t *testing.T) {
	// encoding/json hands numbers to the board map as float64.
	dto := encodeState(game.NewGameState(game.Beginner, rand.New(rand.NewSource(8))))
	for k, v := range dto.Board {
		if n, ok := v.(int); ok {
			dto.Board[k] = float64(n)
		}
	}
	_, err := decodeState(dto)
	require.NoError(t, err)
}
