// Package server exposes the game core over HTTP. It owns transport
// encoding and request validation only; game state travels in the request
// body (or lives on a websocket connection) rather than in server-side
// sessions.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"smarthorses/game"
	"smarthorses/searcher"
)

// Config carries the server's runtime knobs.
type Config struct {
	// Seed for board generation; 0 seeds from the clock.
	Seed uint64
	// CORSOrigins lists allowed origins; empty allows any.
	CORSOrigins []string
}

type Server struct {
	router  chi.Router
	origins []string

	mu  sync.Mutex
	rng *rand.Rand
}

func New(cfg Config) *Server {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Server{
		origins: cfg.CORSOrigins,
		rng:     rand.New(rand.NewSource(seed)),
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Route("/api/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/move", s.handlePlayerMove)
		r.Post("/valid-moves", s.handleValidMoves)
		r.Post("/machine-move", s.handleMachineMove)
	})
	r.Get("/ws/play", s.handlePlaySocket)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// newState builds a randomized starting position. The shared source is
// guarded so concurrent /new requests stay well defined.
func (s *Server) newState(d game.Difficulty) *game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.NewGameState(d, s.rng)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type errorResponse struct {
	Error      string  `json:"error"`
	Message    string  `json:"message"`
	ValidMoves [][]int `json:"valid_moves,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, errorResponse{Error: title, Message: message})
}

// writeStateError maps a decode/validation failure to the right status.
func writeStateError(w http.ResponseWriter, err error) {
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, "Bad Request", verr.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Smart Horses API",
		"game":    "Smart Horses - Minimax AI Game",
		"endpoints": map[string]string{
			"health":       "/health",
			"new_game":     "/api/game/new",
			"move":         "/api/game/move",
			"valid_moves":  "/api/game/valid-moves",
			"machine_move": "/api/game/machine-move",
			"play_socket":  "/ws/play",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "smart-horses",
	})
}

type newGameRequest struct {
	Difficulty string `json:"difficulty"`
}

type newGameResponse struct {
	stateDTO
	Message          string `json:"message"`
	MachineFirstMove []int  `json:"machine_first_move"`
	PenaltyApplied   bool   `json:"penalty_applied"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	// An empty body means default difficulty, matching a bare POST.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = string(game.Beginner)
	}

	difficulty, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid difficulty",
			"Difficulty must be beginner, amateur, or expert")
		return
	}

	st := s.newState(difficulty)

	// The machine opens the game; a machine stuck at birth just takes the
	// penalty and hands the first move to the player.
	if st.SettleTurn() {
		writeJSON(w, http.StatusOK, newGameResponse{
			stateDTO:       encodeState(st),
			Message:        "Game started. Machine had no moves, -4 penalty applied. Player's turn.",
			PenaltyApplied: true,
		})
		return
	}

	machineMove, _, penalty := playMachineTurn(st)
	msg := "Game started. The machine (white) has moved."
	if penalty {
		msg = "Game started. The machine (white) has moved. Player had no moves, -4 penalty applied."
	}
	writeJSON(w, http.StatusOK, newGameResponse{
		stateDTO:         encodeState(st),
		Message:          msg,
		MachineFirstMove: machineMove,
		PenaltyApplied:   penalty,
	})
}

type playerMoveRequest struct {
	GameState *stateDTO `json:"game_state"`
	Move      []int     `json:"move"`
}

type playerMoveResponse struct {
	stateDTO
	Message           string   `json:"message"`
	MachineMove       []int    `json:"machine_move"`
	MachineEvaluation *float64 `json:"machine_evaluation,omitempty"`
	NodesEvaluated    *int     `json:"nodes_evaluated,omitempty"`
	PenaltyApplied    bool     `json:"penalty_applied"`
}

func (s *Server) handlePlayerMove(w http.ResponseWriter, r *http.Request) {
	var req playerMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.GameState == nil || req.Move == nil {
		writeError(w, http.StatusBadRequest, "Bad Request",
			"Missing required fields: game_state, move")
		return
	}

	st, err := decodeState(*req.GameState)
	if err != nil {
		writeStateError(w, err)
		return
	}
	if st.Current != game.Black {
		writeError(w, http.StatusBadRequest, "Invalid Move", "Not player's turn")
		return
	}

	move, err := parseCoord(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Move", err.Error())
		return
	}
	if err := st.ApplyMove(move); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      "Invalid Move",
			Message:    "This is not a valid move",
			ValidMoves: coordSlices(st.MovesFor(game.Black)),
		})
		return
	}

	if st.GameOver {
		writeJSON(w, http.StatusOK, playerMoveResponse{
			stateDTO: encodeState(st),
			Message:  "Game over! Winner: " + st.Winner.String(),
		})
		return
	}

	resp := playerMoveResponse{}
	if st.Current == game.White {
		machineMove, result, penalty := playMachineTurn(st)
		resp.MachineMove = machineMove
		resp.PenaltyApplied = penalty
		if result != nil {
			resp.MachineEvaluation = &result.Evaluation
			resp.NodesEvaluated = &result.Nodes
		}
	} else {
		// The machine's stuck penalty settled inside the player's move;
		// the turn is already back with the player.
		resp.PenaltyApplied = true
		eval := game.Evaluate(st)
		resp.MachineEvaluation = &eval
	}

	resp.stateDTO = encodeState(st)
	switch {
	case st.GameOver:
		resp.Message = "Game over! Winner: " + st.Winner.String()
	case resp.MachineMove == nil:
		resp.Message = "Machine had no moves, -4 penalty applied. Player's turn."
	default:
		resp.Message = "Player's turn (black)"
	}
	writeJSON(w, http.StatusOK, resp)
}

type validMovesRequest struct {
	GameState *stateDTO `json:"game_state"`
	Knight    string    `json:"knight"`
}

type validMovesResponse struct {
	Knight         string    `json:"knight"`
	Position       []int     `json:"position"`
	ValidMoves     [][]int   `json:"valid_moves"`
	Count          int       `json:"count"`
	PenaltyApplied bool      `json:"penalty_applied,omitempty"`
	GameState      *stateDTO `json:"game_state,omitempty"`
	MachineMove    []int     `json:"machine_move,omitempty"`
}

func (s *Server) handleValidMoves(w http.ResponseWriter, r *http.Request) {
	var req validMovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.GameState == nil {
		writeError(w, http.StatusBadRequest, "Bad Request",
			"Missing required field: game_state")
		return
	}
	if req.Knight == "" {
		req.Knight = game.Black.String()
	}
	knight, err := game.ParsePlayer(req.Knight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request",
			`Knight must be "white" or "black"`)
		return
	}

	st, err := decodeState(*req.GameState)
	if err != nil {
		writeStateError(w, err)
		return
	}

	moves := st.MovesFor(knight)

	// A stuck knight whose turn it is gets exactly one penalty step here,
	// and at most one machine reply, so clients can surface the stall one
	// step at a time.
	if len(moves) == 0 && st.Current == knight && !st.GameOver {
		penalty := st.SettleTurn()
		var machineMove []int
		if penalty && !st.GameOver && st.Current == game.White {
			machineMove, _, _ = playMachineTurn(st)
		}
		dto := encodeState(st)
		writeJSON(w, http.StatusOK, validMovesResponse{
			Knight:         knight.String(),
			Position:       coordSlice(knightPosition(st, knight)),
			ValidMoves:     [][]int{},
			Count:          0,
			PenaltyApplied: penalty,
			GameState:      &dto,
			MachineMove:    machineMove,
		})
		return
	}

	writeJSON(w, http.StatusOK, validMovesResponse{
		Knight:     knight.String(),
		Position:   coordSlice(knightPosition(st, knight)),
		ValidMoves: coordSlices(moves),
		Count:      len(moves),
	})
}

func knightPosition(st *game.GameState, p game.Player) game.Coord {
	if p == game.White {
		return st.WhiteKnight
	}
	return st.BlackKnight
}

type machineMoveRequest struct {
	GameState *stateDTO `json:"game_state"`
}

type machineMoveResponse struct {
	Move           []int   `json:"move"`
	Evaluation     float64 `json:"evaluation"`
	NodesEvaluated int     `json:"nodes_evaluated"`
	DepthReached   int     `json:"depth_reached"`
}

func (s *Server) handleMachineMove(w http.ResponseWriter, r *http.Request) {
	var req machineMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.GameState == nil {
		writeError(w, http.StatusBadRequest, "Bad Request",
			"Missing required field: game_state")
		return
	}

	st, err := decodeState(*req.GameState)
	if err != nil {
		writeStateError(w, err)
		return
	}

	result := searcher.FindBestMove(st)
	resp := machineMoveResponse{
		Evaluation:     result.Evaluation,
		NodesEvaluated: result.Nodes,
		DepthReached:   result.Depth,
	}
	if result.Move != nil {
		resp.Move = coordSlice(*result.Move)
	}
	writeJSON(w, http.StatusOK, resp)
}

// playMachineTurn runs the search and applies the machine's move when White
// is to move. It reports the move played (nil when White could not move),
// the search result, and whether the player took a stuck penalty during the
// machine's transition.
func playMachineTurn(st *game.GameState) ([]int, *searcher.Result, bool) {
	if st.GameOver || st.Current != game.White {
		return nil, nil, false
	}
	result := searcher.FindBestMove(st)
	if result.Move == nil {
		return nil, &result, false
	}
	blackBefore := st.BlackScore
	if err := st.ApplyMove(*result.Move); err != nil {
		// The searcher only proposes legal moves.
		log.Error().Err(err).Msg("search proposed an illegal move")
		return nil, &result, false
	}
	return coordSlice(*result.Move), &result, st.BlackScore < blackBefore
}
