package engine

import (
	"fmt"

	"golang.org/x/exp/rand"

	"smarthorses/game"
	"smarthorses/searcher"
)

// Agent picks a move for the side to move. The returned move is nil only
// when the side to move has no legal move.
type Agent interface {
	Pick(s *game.GameState) (searcher.Result, error)
}

// SearchAgent plays with the minimax searcher at the state's configured
// depth.
type SearchAgent struct{}

func (SearchAgent) Pick(s *game.GameState) (searcher.Result, error) {
	return searcher.FindBestMove(s), nil
}

// RandomAgent plays a uniformly random legal move. It stands in for a human
// opponent in self-play and tests.
type RandomAgent struct {
	Rng *rand.Rand
}

func (a RandomAgent) Pick(s *game.GameState) (searcher.Result, error) {
	if a.Rng == nil {
		return searcher.Result{}, fmt.Errorf("random agent needs a random source")
	}
	moves := s.MovesFor(s.Current)
	if len(moves) == 0 {
		return searcher.Result{}, nil
	}
	mv := moves[a.Rng.Intn(len(moves))]
	return searcher.Result{Move: &mv}, nil
}
