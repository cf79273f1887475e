package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Player identifies a side. White is the automated player and moves first.
type Player uint8

const (
	White Player = iota
	Black
)

func (p Player) Other() Player {
	if p == White {
		return Black
	}
	return White
}

func (p Player) String() string {
	if p == White {
		return "white"
	}
	return "black"
}

// ParsePlayer maps the wire names back to a Player.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown player %q", s)
}

// Winner is the game outcome. NoWinner means the game is still running.
type Winner uint8

const (
	NoWinner Winner = iota
	WhiteWins
	BlackWins
	Tie
)

func (w Winner) String() string {
	switch w {
	case WhiteWins:
		return "white"
	case BlackWins:
		return "black"
	case Tie:
		return "tie"
	}
	return ""
}

// ParseWinner maps the wire names back to a Winner. The empty string means
// no winner yet.
func ParseWinner(s string) (Winner, error) {
	switch s {
	case "":
		return NoWinner, nil
	case "white":
		return WhiteWins, nil
	case "black":
		return BlackWins, nil
	case "tie":
		return Tie, nil
	}
	return NoWinner, fmt.Errorf("unknown winner %q", s)
}

// Difficulty selects the search depth.
type Difficulty string

const (
	Beginner Difficulty = "beginner"
	Amateur  Difficulty = "amateur"
	Expert   Difficulty = "expert"
)

var difficultyDepths = map[Difficulty]int{
	Beginner: 2,
	Amateur:  4,
	Expert:   6,
}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if _, ok := difficultyDepths[d]; !ok {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Depth returns the fixed search depth for d.
func (d Difficulty) Depth() int {
	return difficultyDepths[d]
}

// stuckPenalty is taken from a side's score when it has no legal move.
const stuckPenalty = 4

// GameState is the authoritative game position. It is a plain value: Copy
// duplicates it completely and no field aliases shared mutable data.
type GameState struct {
	Board       Board
	WhiteKnight Coord
	BlackKnight Coord
	WhiteScore  int
	BlackScore  int
	Current     Player
	Difficulty  Difficulty
	MaxDepth    int
	GameOver    bool
	Winner      Winner
}

// NewGameState builds a fresh randomized position: two knights and the ten
// point cells on pairwise distinct squares, knights on empty squares, White
// to move. The caller supplies the random source so starting positions are
// reproducible.
func NewGameState(difficulty Difficulty, rng *rand.Rand) *GameState {
	s := &GameState{
		Current:    White,
		Difficulty: difficulty,
		MaxDepth:   difficulty.Depth(),
	}

	squares := make([]Coord, 0, BoardSize*BoardSize)
	for i := 0; i < BoardSize*BoardSize; i++ {
		squares = append(squares, coordAt(i))
	}
	rng.Shuffle(len(squares), func(i, j int) {
		squares[i], squares[j] = squares[j], squares[i]
	})

	s.WhiteKnight = squares[0]
	s.BlackKnight = squares[1]
	for i, v := range PointValues {
		s.Board.Set(squares[i+2], PointCell(v))
	}
	return s
}

// Copy returns an independent duplicate of s.
func (s *GameState) Copy() *GameState {
	dup := *s
	return &dup
}

func (s *GameState) knight(p Player) Coord {
	if p == White {
		return s.WhiteKnight
	}
	return s.BlackKnight
}

func (s *GameState) setKnight(p Player, c Coord) {
	if p == White {
		s.WhiteKnight = c
	} else {
		s.BlackKnight = c
	}
}

// Score returns p's cumulative score.
func (s *GameState) Score(p Player) int {
	if p == White {
		return s.WhiteScore
	}
	return s.BlackScore
}

func (s *GameState) addScore(p Player, delta int) {
	if p == White {
		s.WhiteScore += delta
	} else {
		s.BlackScore += delta
	}
}

// Undo captures everything a MakeMove or MakePass changes, so the searcher
// can restore the exact prior state. Fields are unexported: an Undo is only
// meaningful to the state that produced it.
type Undo struct {
	whiteKnight Coord
	blackKnight Coord
	whiteScore  int
	blackScore  int
	current     Player
	gameOver    bool
	winner      Winner

	cellsChanged bool
	from, to     Coord
	fromCell     Cell
	toCell       Cell
}

func (s *GameState) snapshot() Undo {
	return Undo{
		whiteKnight: s.WhiteKnight,
		blackKnight: s.BlackKnight,
		whiteScore:  s.WhiteScore,
		blackScore:  s.BlackScore,
		current:     s.Current,
		gameOver:    s.GameOver,
		winner:      s.Winner,
	}
}

// ApplyMove plays a move for the side to move. The destination must be in
// the legal set; otherwise ErrInvalidMove is returned and the state is
// untouched. After the move the no-legal-move policy runs for the new side
// to move.
func (s *GameState) ApplyMove(to Coord) error {
	if s.GameOver {
		return fmt.Errorf("%w: game is over", ErrInvalidMove)
	}
	if !to.InBounds() {
		return fmt.Errorf("%w: %v is off the board", ErrInvalidMove, to)
	}
	legal := false
	for _, mv := range s.MovesFor(s.Current) {
		if mv == to {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%w: %s cannot reach %v", ErrInvalidMove, s.Current, to)
	}
	s.MakeMove(to)
	return nil
}

// MakeMove applies a move without validation and returns the undo record.
// The mover collects the destination's point value, both the vacated and the
// entered square are destroyed, the turn flips, and the stuck policy runs
// for the new mover. The caller guarantees legality.
func (s *GameState) MakeMove(to Coord) Undo {
	from := s.knight(s.Current)
	u := s.snapshot()
	u.cellsChanged = true
	u.from, u.fromCell = from, s.Board.At(from)
	u.to, u.toCell = to, s.Board.At(to)

	if cell := s.Board.At(to); cell.Kind == CellPoint {
		s.addScore(s.Current, cell.Value)
	}
	s.Board.Set(from, DestroyedCell)
	s.Board.Set(to, DestroyedCell)
	s.setKnight(s.Current, to)
	s.Current = s.Current.Other()
	s.settleStuck()
	return u
}

// MakePass applies the no-legal-move policy as a zero-ply transition and
// returns the undo record. It is a no-op (beyond the snapshot) when the side
// to move has a legal move.
func (s *GameState) MakePass() Undo {
	u := s.snapshot()
	s.settleStuck()
	return u
}

// Unmake restores the state captured by u.
func (s *GameState) Unmake(u Undo) {
	s.WhiteKnight = u.whiteKnight
	s.BlackKnight = u.blackKnight
	s.WhiteScore = u.whiteScore
	s.BlackScore = u.blackScore
	s.Current = u.current
	s.GameOver = u.gameOver
	s.Winner = u.winner
	if u.cellsChanged {
		s.Board.Set(u.from, u.fromCell)
		s.Board.Set(u.to, u.toCell)
	}
}

// SettleTurn runs the no-legal-move policy for the side to move and reports
// whether a penalty was applied. Game drivers call this before asking the
// stuck side for a move; the searcher goes through MakePass instead so the
// transition can be undone.
func (s *GameState) SettleTurn() bool {
	if s.GameOver || s.CountMovesFor(s.Current) > 0 {
		return false
	}
	s.settleStuck()
	return true
}

// settleStuck implements the no-legal-move policy: the stuck side loses
// stuckPenalty points and the turn passes without moving or destroying
// anything; if the opponent is also stuck the game ends with the winner
// decided by score. The turn flips even then, so a terminal state always
// shows the opponent of the last penalized side.
func (s *GameState) settleStuck() {
	if s.GameOver || s.CountMovesFor(s.Current) > 0 {
		return
	}
	s.addScore(s.Current, -stuckPenalty)
	s.Current = s.Current.Other()
	if s.CountMovesFor(s.Current) == 0 {
		s.GameOver = true
		s.Winner = s.winnerByScore()
	}
}

func (s *GameState) winnerByScore() Winner {
	switch {
	case s.WhiteScore > s.BlackScore:
		return WhiteWins
	case s.BlackScore > s.WhiteScore:
		return BlackWins
	}
	return Tie
}

// Validate checks the structural invariants of a state received from
// outside the core. It returns a *ValidationError on the first violation.
func (s *GameState) Validate() error {
	if !s.WhiteKnight.InBounds() {
		return &ValidationError{Field: "white_knight", Reason: "out of bounds"}
	}
	if !s.BlackKnight.InBounds() {
		return &ValidationError{Field: "black_knight", Reason: "out of bounds"}
	}
	if s.WhiteKnight == s.BlackKnight {
		return &ValidationError{Field: "black_knight", Reason: "knights share a square"}
	}
	if s.Board.At(s.WhiteKnight).Kind == CellPoint {
		return &ValidationError{Field: "white_knight", Reason: "knight on an unconsumed point cell"}
	}
	if s.Board.At(s.BlackKnight).Kind == CellPoint {
		return &ValidationError{Field: "black_knight", Reason: "knight on an unconsumed point cell"}
	}
	if _, err := ParseDifficulty(string(s.Difficulty)); err != nil {
		return &ValidationError{Field: "difficulty", Reason: err.Error()}
	}
	if s.MaxDepth != s.Difficulty.Depth() {
		return &ValidationError{Field: "max_depth", Reason: "does not match difficulty"}
	}

	seen := map[int]bool{}
	allowed := map[int]bool{}
	for _, v := range PointValues {
		allowed[v] = true
	}
	for i := range s.Board {
		cell := s.Board[i]
		if cell.Kind != CellPoint {
			continue
		}
		if !allowed[cell.Value] {
			return &ValidationError{
				Field:  "board",
				Reason: fmt.Sprintf("illegal point value %d at %v", cell.Value, coordAt(i)),
			}
		}
		if seen[cell.Value] {
			return &ValidationError{
				Field:  "board",
				Reason: fmt.Sprintf("duplicate point value %d", cell.Value),
			}
		}
		seen[cell.Value] = true
	}

	if s.GameOver && s.Winner == NoWinner {
		return &ValidationError{Field: "winner", Reason: "game over without a winner"}
	}
	if !s.GameOver && s.Winner != NoWinner {
		return &ValidationError{Field: "winner", Reason: "winner set before game over"}
	}
	return nil
}
