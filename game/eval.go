package game

// Heuristic weights, ordered by dominance. The terminal bonus outranks
// everything; the trapped term outranks all positional terms.
const (
	terminalBonus   = 10000
	scoreWeight     = 100
	mobilityWeight  = 10
	proximityWeight = 5
	centerWeight    = 3
	trappedTerm     = 400
)

// Evaluate scores the position from White's perspective: positive favors
// White, negative favors Black. It is a pure function of the state.
func Evaluate(s *GameState) float64 {
	if s.GameOver {
		switch s.Winner {
		case WhiteWins:
			return terminalBonus
		case BlackWins:
			return -terminalBonus
		default:
			return 0
		}
	}

	whiteMobility := s.CountMovesFor(White)
	blackMobility := s.CountMovesFor(Black)

	eval := float64(scoreWeight * (s.WhiteScore - s.BlackScore))
	eval += float64(mobilityWeight * (whiteMobility - blackMobility))
	eval += proximityWeight * (s.proximity(s.WhiteKnight) - s.proximity(s.BlackKnight))
	if s.WhiteKnight.IsCenter() {
		eval += centerWeight
	}
	if s.BlackKnight.IsCenter() {
		eval -= centerWeight
	}
	if whiteMobility == 0 {
		eval -= trappedTerm
	}
	if blackMobility == 0 {
		eval += trappedTerm
	}
	return eval
}

// proximity sums value/distance over the remaining point cells. Standing on
// a point cell counts its value twice, which also avoids dividing by zero.
func (s *GameState) proximity(from Coord) float64 {
	total := 0.0
	for i := range s.Board {
		cell := s.Board[i]
		if cell.Kind != CellPoint {
			continue
		}
		if d := Manhattan(from, coordAt(i)); d > 0 {
			total += float64(cell.Value) / float64(d)
		} else {
			total += 2 * float64(cell.Value)
		}
	}
	return total
}
