package server

import (
	"fmt"
	"strconv"
	"strings"

	"smarthorses/game"
)

// stateDTO is the wire form of a game state. The board uses "row,col" keys
// mapping to a point value, the string "destroyed", or null for an empty
// square, so clients can round-trip the whole position through every call.
type stateDTO struct {
	Board         map[string]any `json:"board"`
	WhiteKnight   []int          `json:"white_knight"`
	BlackKnight   []int          `json:"black_knight"`
	WhiteScore    int            `json:"white_score"`
	BlackScore    int            `json:"black_score"`
	CurrentPlayer string         `json:"current_player"`
	Difficulty    string         `json:"difficulty"`
	MaxDepth      int            `json:"max_depth"`
	GameOver      bool           `json:"game_over"`
	Winner        *string        `json:"winner"`
}

func encodeState(s *game.GameState) stateDTO {
	board := make(map[string]any, game.BoardSize*game.BoardSize)
	for row := 0; row < game.BoardSize; row++ {
		for col := 0; col < game.BoardSize; col++ {
			c := game.Coord{Row: row, Col: col}
			key := fmt.Sprintf("%d,%d", row, col)
			switch cell := s.Board.At(c); cell.Kind {
			case game.CellDestroyed:
				board[key] = "destroyed"
			case game.CellPoint:
				board[key] = cell.Value
			default:
				board[key] = nil
			}
		}
	}

	var winner *string
	if s.Winner != game.NoWinner {
		w := s.Winner.String()
		winner = &w
	}

	return stateDTO{
		Board:         board,
		WhiteKnight:   []int{s.WhiteKnight.Row, s.WhiteKnight.Col},
		BlackKnight:   []int{s.BlackKnight.Row, s.BlackKnight.Col},
		WhiteScore:    s.WhiteScore,
		BlackScore:    s.BlackScore,
		CurrentPlayer: s.Current.String(),
		Difficulty:    string(s.Difficulty),
		MaxDepth:      s.MaxDepth,
		GameOver:      s.GameOver,
		Winner:        winner,
	}
}

// decodeState rebuilds a GameState from its wire form and validates it. Any
// structural problem surfaces as a *game.ValidationError.
func decodeState(dto stateDTO) (*game.GameState, error) {
	s := &game.GameState{
		WhiteScore: dto.WhiteScore,
		BlackScore: dto.BlackScore,
		MaxDepth:   dto.MaxDepth,
		GameOver:   dto.GameOver,
	}

	for key, raw := range dto.Board {
		c, err := parseBoardKey(key)
		if err != nil {
			return nil, &game.ValidationError{Field: "board", Reason: err.Error()}
		}
		switch v := raw.(type) {
		case nil:
		case string:
			if v != "destroyed" {
				return nil, &game.ValidationError{
					Field:  "board",
					Reason: fmt.Sprintf("unknown cell marker %q at %s", v, key),
				}
			}
			s.Board.Set(c, game.DestroyedCell)
		case float64:
			if v != float64(int(v)) {
				return nil, &game.ValidationError{
					Field:  "board",
					Reason: fmt.Sprintf("non-integer point value at %s", key),
				}
			}
			s.Board.Set(c, game.PointCell(int(v)))
		case int:
			s.Board.Set(c, game.PointCell(v))
		default:
			return nil, &game.ValidationError{
				Field:  "board",
				Reason: fmt.Sprintf("unsupported cell value at %s", key),
			}
		}
	}

	var err error
	if s.WhiteKnight, err = parseCoord(dto.WhiteKnight); err != nil {
		return nil, &game.ValidationError{Field: "white_knight", Reason: err.Error()}
	}
	if s.BlackKnight, err = parseCoord(dto.BlackKnight); err != nil {
		return nil, &game.ValidationError{Field: "black_knight", Reason: err.Error()}
	}
	if s.Current, err = game.ParsePlayer(dto.CurrentPlayer); err != nil {
		return nil, &game.ValidationError{Field: "current_player", Reason: err.Error()}
	}
	if s.Difficulty, err = game.ParseDifficulty(dto.Difficulty); err != nil {
		return nil, &game.ValidationError{Field: "difficulty", Reason: err.Error()}
	}
	winner := ""
	if dto.Winner != nil {
		winner = *dto.Winner
	}
	if s.Winner, err = game.ParseWinner(winner); err != nil {
		return nil, &game.ValidationError{Field: "winner", Reason: err.Error()}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseBoardKey(key string) (game.Coord, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return game.Coord{}, fmt.Errorf("malformed board key %q", key)
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return game.Coord{}, fmt.Errorf("malformed board key %q", key)
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return game.Coord{}, fmt.Errorf("malformed board key %q", key)
	}
	c := game.Coord{Row: row, Col: col}
	if !c.InBounds() {
		return game.Coord{}, fmt.Errorf("board key %q out of bounds", key)
	}
	return c, nil
}

func parseCoord(pair []int) (game.Coord, error) {
	if len(pair) != 2 {
		return game.Coord{}, fmt.Errorf("expected [row, col], got %v", pair)
	}
	c := game.Coord{Row: pair[0], Col: pair[1]}
	if !c.InBounds() {
		return game.Coord{}, fmt.Errorf("coordinate %v out of bounds", pair)
	}
	return c, nil
}

func coordSlice(c game.Coord) []int {
	return []int{c.Row, c.Col}
}

func coordSlices(coords []game.Coord) [][]int {
	out := make([][]int, len(coords))
	for i, c := range coords {
		out[i] = coordSlice(c)
	}
	return out
}
