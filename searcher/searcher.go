// Package searcher selects moves for the automated player with depth-bounded
// minimax and alpha-beta pruning over the game state model.
package searcher

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"smarthorses/game"
)

// Result carries the outcome of one search: the chosen move (nil when the
// side to move is stuck or the game is over), the evaluation backing it, and
// how much work the search did.
type Result struct {
	Move       *game.Coord
	Evaluation float64
	Nodes      int
	Depth      int
	Duration   time.Duration
}

// FindBestMove searches from s to the state's configured depth and returns
// the best move for the side to move. The caller's state is never modified:
// the search works on its own snapshot.
func FindBestMove(s *game.GameState) Result {
	start := time.Now()

	work := s.Copy()
	score, move, nodes := alphaBeta(work, s.MaxDepth, math.Inf(-1), math.Inf(1))

	result := Result{
		Move:       move,
		Evaluation: score,
		Nodes:      nodes,
		Depth:      s.MaxDepth,
		Duration:   time.Since(start),
	}

	evt := log.Debug().
		Stringer("player", s.Current).
		Float64("evaluation", result.Evaluation).
		Int("nodes", result.Nodes).
		Int("depth", result.Depth).
		Dur("elapsed", result.Duration)
	if result.Move != nil {
		evt = evt.Stringer("move", result.Move)
	}
	evt.Msg("search finished")

	return result
}
