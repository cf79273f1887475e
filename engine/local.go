// Package engine drives complete games between two agents on a single
// shared state. The HTTP layer does not use it; it exists for self-play
// runs and for exercising the full transition function end to end.
package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"smarthorses/game"
	"smarthorses/searcher"
)

// MaxMoves caps a game. Every move destroys a fresh square, so a legal game
// cannot come near this; hitting it means the transition function is broken.
const MaxMoves = 256

// MoveMetric records one played move and the search work behind it.
type MoveMetric struct {
	Step   int
	Player game.Player
	Result searcher.Result
}

// Local runs a game to termination on its own state.
type Local struct {
	State *game.GameState
	white Agent
	black Agent
}

func NewLocal(state *game.GameState, white, black Agent) *Local {
	return &Local{State: state, white: white, black: black}
}

func (e *Local) agent(p game.Player) Agent {
	if p == game.White {
		return e.white
	}
	return e.black
}

// Run plays until the game is over and returns the winner with per-move
// metrics. Stuck turns are settled by the state itself, exactly as the
// searcher simulates them.
func (e *Local) Run() (game.Winner, []MoveMetric, error) {
	var metrics []MoveMetric
	step := 1

	log.Info().Stringer("player", e.State.Current).Msg("game starting")

	for !e.State.GameOver {
		if step > MaxMoves {
			return game.NoWinner, metrics, fmt.Errorf("game exceeded %d moves", MaxMoves)
		}

		if e.State.SettleTurn() {
			log.Debug().Stringer("player", e.State.Current).Msg("stuck turn settled")
			continue
		}

		mover := e.State.Current
		result, err := e.agent(mover).Pick(e.State)
		if err != nil {
			return game.NoWinner, metrics, fmt.Errorf("agent for %s: %w", mover, err)
		}
		if result.Move == nil {
			return game.NoWinner, metrics, fmt.Errorf("agent for %s returned no move from a movable position", mover)
		}
		if err := e.State.ApplyMove(*result.Move); err != nil {
			return game.NoWinner, metrics, fmt.Errorf("agent for %s: %w", mover, err)
		}

		metrics = append(metrics, MoveMetric{Step: step, Player: mover, Result: result})
		log.Debug().
			Int("step", step).
			Stringer("player", mover).
			Stringer("move", result.Move).
			Int("white_score", e.State.WhiteScore).
			Int("black_score", e.State.BlackScore).
			Msg("move played")
		step++
	}

	log.Info().
		Stringer("winner", e.State.Winner).
		Int("white_score", e.State.WhiteScore).
		Int("black_score", e.State.BlackScore).
		Int("moves", len(metrics)).
		Msg("game over")

	return e.State.Winner, metrics, nil
}
