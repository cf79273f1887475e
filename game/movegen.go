package game

// knightOffsets is the canonical L-shape offset order. The order is fixed so
// node counts are reproducible across runs.
var knightOffsets = [8]Coord{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Moves returns the legal destinations for a knight standing on from: within
// bounds, not destroyed, and not the opponent's square.
func Moves(b *Board, from, opponent Coord) []Coord {
	moves := make([]Coord, 0, len(knightOffsets))
	for _, off := range knightOffsets {
		to := Coord{Row: from.Row + off.Row, Col: from.Col + off.Col}
		if !to.InBounds() {
			continue
		}
		if b.At(to).Kind == CellDestroyed {
			continue
		}
		if to == opponent {
			continue
		}
		moves = append(moves, to)
	}
	return moves
}

// CountMoves returns the number of legal destinations without building the
// slice.
func CountMoves(b *Board, from, opponent Coord) int {
	count := 0
	for _, off := range knightOffsets {
		to := Coord{Row: from.Row + off.Row, Col: from.Col + off.Col}
		if !to.InBounds() {
			continue
		}
		if b.At(to).Kind == CellDestroyed {
			continue
		}
		if to == opponent {
			continue
		}
		count++
	}
	return count
}

// MovesFor returns the legal destinations for p's knight.
func (s *GameState) MovesFor(p Player) []Coord {
	return Moves(&s.Board, s.knight(p), s.knight(p.Other()))
}

// CountMovesFor returns p's mobility.
func (s *GameState) CountMovesFor(p Player) int {
	return CountMoves(&s.Board, s.knight(p), s.knight(p.Other()))
}
