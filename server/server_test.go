package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"smarthorses/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

// blackToMove builds a position with black on (0,0), white on (5,5) and
// black to move, so handler behavior is fully predictable.
func blackToMove() *game.GameState {
	return &game.GameState{
		WhiteKnight: game.Coord{Row: 5, Col: 5},
		BlackKnight: game.Coord{Row: 0, Col: 0},
		Current:     game.Black,
		Difficulty:  game.Beginner,
		MaxDepth:    game.Beginner.Depth(),
	}
}

func TestHealth(t *testing.T) {
	srv := New(Config{Seed: 1})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	require.Equal(t, "healthy", body["status"])
}

func TestIndexListsEndpoints(t *testing.T) {
	srv := New(Config{Seed: 1})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Endpoints map[string]string `json:"endpoints"`
	}
	decodeBody(t, rec, &body)
	require.Contains(t, body.Endpoints, "new_game")
	require.Contains(t, body.Endpoints, "play_socket")
}

func TestNewGame(t *testing.T) {
	srv := New(Config{Seed: 42})
	rec := postJSON(t, srv, "/api/game/new", map[string]string{"difficulty": "amateur"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		stateDTO
		Message          string `json:"message"`
		MachineFirstMove []int  `json:"machine_first_move"`
		PenaltyApplied   bool   `json:"penalty_applied"`
	}
	decodeBody(t, rec, &body)

	require.Equal(t, "amateur", body.Difficulty)
	require.Equal(t, 4, body.MaxDepth)
	require.Len(t, body.Board, game.BoardSize*game.BoardSize)
	require.NotEmpty(t, body.Message)

	// A fresh board has no destroyed squares, so the machine always has an
	// opening move.
	require.Len(t, body.MachineFirstMove, 2)
	if !body.PenaltyApplied {
		require.Equal(t, "black", body.CurrentPlayer)
	}
}

func TestNewGameDefaultsAndRejects(t *testing.T) {
	srv := New(Config{Seed: 42})

	rec := postJSON(t, srv, "/api/game/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body stateDTO
	decodeBody(t, rec, &body)
	require.Equal(t, "beginner", body.Difficulty)

	rec = postJSON(t, srv, "/api/game/new", map[string]string{"difficulty": "nightmare"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayerMove(t *testing.T) {
	srv := New(Config{Seed: 1})
	st := encodeState(blackToMove())

	rec := postJSON(t, srv, "/api/game/move", map[string]any{
		"game_state": st,
		"move":       []int{1, 2},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		stateDTO
		MachineMove    []int `json:"machine_move"`
		NodesEvaluated *int  `json:"nodes_evaluated"`
	}
	decodeBody(t, rec, &body)

	require.Equal(t, []int{1, 2}, body.BlackKnight)
	require.Equal(t, "destroyed", body.Board["0,0"], "the vacated square is gone")
	require.Equal(t, "destroyed", body.Board["1,2"])
	require.Len(t, body.MachineMove, 2, "the machine answers in the same response")
	require.NotNil(t, body.NodesEvaluated)
	require.Positive(t, *body.NodesEvaluated)
	require.False(t, body.GameOver)
}

func TestPlayerMoveIllegal(t *testing.T) {
	srv := New(Config{Seed: 1})
	st := encodeState(blackToMove())

	rec := postJSON(t, srv, "/api/game/move", map[string]any{
		"game_state": st,
		"move":       []int{4, 4},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	decodeBody(t, rec, &body)
	require.Equal(t, "Invalid Move", body.Error)
	require.ElementsMatch(t, [][]int{{1, 2}, {2, 1}}, body.ValidMoves)
}

func TestPlayerMoveOutOfTurn(t *testing.T) {
	srv := New(Config{Seed: 1})
	s := blackToMove()
	s.Current = game.White

	rec := postJSON(t, srv, "/api/game/move", map[string]any{
		"game_state": encodeState(s),
		"move":       []int{1, 2},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	decodeBody(t, rec, &body)
	require.Equal(t, "Not player's turn", body.Message)
}

func TestPlayerMoveMissingFields(t *testing.T) {
	srv := New(Config{Seed: 1})
	rec := postJSON(t, srv, "/api/game/move", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayerMoveRejectsBrokenState(t *testing.T) {
	srv := New(Config{Seed: 1})
	s := blackToMove()
	s.WhiteKnight = s.BlackKnight

	rec := postJSON(t, srv, "/api/game/move", map[string]any{
		"game_state": encodeState(s),
		"move":       []int{1, 2},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	decodeBody(t, rec, &body)
	require.Contains(t, body.Message, "black_knight")
}

func TestMachineMove(t *testing.T) {
	srv := New(Config{Seed: 1})
	s := blackToMove()
	s.Current = game.White
	s.WhiteKnight = game.Coord{Row: 3, Col: 3}
	s.Board.Set(game.Coord{Row: 5, Col: 4}, game.PointCell(10))

	rec := postJSON(t, srv, "/api/game/machine-move", map[string]any{
		"game_state": encodeState(s),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Move           []int   `json:"move"`
		Evaluation     float64 `json:"evaluation"`
		NodesEvaluated int     `json:"nodes_evaluated"`
		DepthReached   int     `json:"depth_reached"`
	}
	decodeBody(t, rec, &body)

	require.Equal(t, []int{5, 4}, body.Move, "the ten-point cell dominates")
	require.Positive(t, body.NodesEvaluated)
	require.Equal(t, 2, body.DepthReached)
}

func TestValidMoves(t *testing.T) {
	srv := New(Config{Seed: 1})
	st := encodeState(blackToMove())

	rec := postJSON(t, srv, "/api/game/valid-moves", map[string]any{
		"game_state": st,
		"knight":     "black",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body validMovesResponse
	decodeBody(t, rec, &body)
	require.Equal(t, "black", body.Knight)
	require.Equal(t, []int{0, 0}, body.Position)
	require.Equal(t, 2, body.Count)
	require.Equal(t, [][]int{{1, 2}, {2, 1}}, body.ValidMoves)
	require.False(t, body.PenaltyApplied)
	require.Nil(t, body.GameState)
}

func TestValidMovesDefaultsToBlack(t *testing.T) {
	srv := New(Config{Seed: 1})
	rec := postJSON(t, srv, "/api/game/valid-moves", map[string]any{
		"game_state": encodeState(blackToMove()),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body validMovesResponse
	decodeBody(t, rec, &body)
	require.Equal(t, "black", body.Knight)
}

func TestValidMovesSettlesStuckTurn(t *testing.T) {
	srv := New(Config{Seed: 1})
	s := blackToMove()
	s.Board.Set(game.Coord{Row: 1, Col: 2}, game.DestroyedCell)
	s.Board.Set(game.Coord{Row: 2, Col: 1}, game.DestroyedCell)

	rec := postJSON(t, srv, "/api/game/valid-moves", map[string]any{
		"game_state": encodeState(s),
		"knight":     "black",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body validMovesResponse
	decodeBody(t, rec, &body)
	require.Zero(t, body.Count)
	require.True(t, body.PenaltyApplied)
	require.NotNil(t, body.GameState)
	require.Len(t, body.MachineMove, 2, "the machine plays its turn after the pass")
	// Black is stuck again after the machine's reply, so the penalty has
	// landed twice and the turn is back with the machine.
	require.Equal(t, -8, body.GameState.BlackScore)
	require.Equal(t, "white", body.GameState.CurrentPlayer)
}

func TestValidMovesBadKnight(t *testing.T) {
	srv := New(Config{Seed: 1})
	rec := postJSON(t, srv, "/api/game/valid-moves", map[string]any{
		"game_state": encodeState(blackToMove()),
		"knight":     "green",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
