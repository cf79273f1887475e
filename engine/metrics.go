package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"smarthorses/game"
)

// GameRecord summarizes one finished self-play game.
type GameRecord struct {
	ID         int
	Difficulty game.Difficulty
	Winner     game.Winner
	WhiteScore int
	BlackScore int
	Moves      int
}

// WriteMetrics dumps game records and their per-move search metrics to a CSV
// file, one move row per searched move.
func WriteMetrics(path string, games []GameRecord, moves map[int][]MoveMetric) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		"game", "difficulty", "winner", "white_score", "black_score",
		"step", "player", "move", "evaluation", "nodes", "depth", "duration",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write metrics header: %w", err)
	}

	for _, g := range games {
		for _, m := range moves[g.ID] {
			move := ""
			if m.Result.Move != nil {
				move = m.Result.Move.String()
			}
			row := []string{
				strconv.Itoa(g.ID),
				string(g.Difficulty),
				g.Winner.String(),
				strconv.Itoa(g.WhiteScore),
				strconv.Itoa(g.BlackScore),
				strconv.Itoa(m.Step),
				m.Player.String(),
				move,
				strconv.FormatFloat(m.Result.Evaluation, 'f', -1, 64),
				strconv.Itoa(m.Result.Nodes),
				strconv.Itoa(m.Result.Depth),
				m.Result.Duration.String(),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write metrics row: %w", err)
			}
		}
	}
	return nil
}
