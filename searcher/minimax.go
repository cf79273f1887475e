package searcher

import (
	"math"

	"smarthorses/game"
)

// alphaBeta runs depth-bounded minimax with alpha-beta pruning. White
// maximizes and Black minimizes, so the direction follows the side to move.
// The state is mutated in place and every transition is unmade before
// returning, so the caller's state is bit-identical afterwards.
//
// The returned node count is the number of positions visited: leaves count
// one, interior nodes count themselves plus their explored children. Pruning
// only ever shrinks this count; the score and move are the same as an
// unpruned full-width search would produce.
func alphaBeta(s *game.GameState, depth int, alpha, beta float64) (float64, *game.Coord, int) {
	if s.GameOver || depth == 0 {
		return game.Evaluate(s), nil, 1
	}

	moves := s.MovesFor(s.Current)
	if len(moves) == 0 {
		// Stuck side: penalty-and-pass without consuming a ply. The
		// transition either ends the game or hands the turn to a side
		// with at least one move, so this cannot recurse twice in a row.
		u := s.MakePass()
		score, _, nodes := alphaBeta(s, depth, alpha, beta)
		s.Unmake(u)
		return score, nil, nodes
	}

	nodes := 1
	var best game.Coord

	if s.Current == game.White {
		bestScore := math.Inf(-1)
		for _, mv := range moves {
			u := s.MakeMove(mv)
			score, _, n := alphaBeta(s, depth-1, alpha, beta)
			s.Unmake(u)
			nodes += n
			if score > bestScore {
				bestScore = score
				best = mv
			}
			if bestScore > alpha {
				alpha = bestScore
			}
			if beta <= alpha {
				break
			}
		}
		return bestScore, &best, nodes
	}

	bestScore := math.Inf(1)
	for _, mv := range moves {
		u := s.MakeMove(mv)
		score, _, n := alphaBeta(s, depth-1, alpha, beta)
		s.Unmake(u)
		nodes += n
		if score < bestScore {
			bestScore = score
			best = mv
		}
		if bestScore < beta {
			beta = bestScore
		}
		if beta <= alpha {
			break
		}
	}
	return bestScore, &best, nodes
}
