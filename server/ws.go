package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"smarthorses/game"
)

// checkOrigin applies the same origin policy as the CORS layer on the HTTP
// routes. Requests without an Origin header (non-browser clients) pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.origins) == 0 {
		return true
	}
	for _, allowed := range s.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// wsCommand is a client message on the play socket.
type wsCommand struct {
	Type       string `json:"type"`
	Difficulty string `json:"difficulty,omitempty"`
	Move       []int  `json:"move,omitempty"`
	Knight     string `json:"knight,omitempty"`
}

// wsEvent is a server message on the play socket.
type wsEvent struct {
	Type              string    `json:"type"`
	Message           string    `json:"message,omitempty"`
	GameState         *stateDTO `json:"game_state,omitempty"`
	MachineMove       []int     `json:"machine_move,omitempty"`
	MachineEvaluation *float64  `json:"machine_evaluation,omitempty"`
	NodesEvaluated    *int      `json:"nodes_evaluated,omitempty"`
	PenaltyApplied    bool      `json:"penalty_applied,omitempty"`
	ValidMoves        [][]int   `json:"valid_moves,omitempty"`
}

// handlePlaySocket runs a whole interactive game over one connection. The
// state lives on the connection, so clients do not have to round-trip it.
func (s *Server) handlePlaySocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var st *game.GameState

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("play socket closed unexpectedly")
			}
			return
		}

		var event wsEvent
		switch cmd.Type {
		case "new":
			st, event = s.wsNewGame(cmd)
		case "move":
			event = wsPlayerMove(st, cmd)
		case "valid-moves":
			event = wsValidMoves(st, cmd)
		default:
			event = wsEvent{Type: "error", Message: "unknown command type"}
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Warn().Err(err).Msg("play socket write failed")
			return
		}
	}
}

func (s *Server) wsNewGame(cmd wsCommand) (*game.GameState, wsEvent) {
	name := cmd.Difficulty
	if name == "" {
		name = string(game.Beginner)
	}
	difficulty, err := game.ParseDifficulty(name)
	if err != nil {
		return nil, wsEvent{Type: "error", Message: err.Error()}
	}

	st := s.newState(difficulty)
	event := wsEvent{Type: "state"}

	if st.SettleTurn() {
		event.PenaltyApplied = true
		event.Message = "machine had no opening move, penalty applied"
	} else {
		machineMove, result, penalty := playMachineTurn(st)
		event.MachineMove = machineMove
		event.PenaltyApplied = penalty
		if result != nil {
			event.MachineEvaluation = &result.Evaluation
			event.NodesEvaluated = &result.Nodes
		}
	}

	dto := encodeState(st)
	event.GameState = &dto
	return st, event
}

func wsPlayerMove(st *game.GameState, cmd wsCommand) wsEvent {
	if st == nil {
		return wsEvent{Type: "error", Message: "no game in progress; send a new command first"}
	}
	if st.Current != game.Black {
		return wsEvent{Type: "error", Message: "not player's turn"}
	}
	move, err := parseCoord(cmd.Move)
	if err != nil {
		return wsEvent{Type: "error", Message: err.Error()}
	}
	if err := st.ApplyMove(move); err != nil {
		return wsEvent{
			Type:       "error",
			Message:    "this is not a valid move",
			ValidMoves: coordSlices(st.MovesFor(game.Black)),
		}
	}

	event := wsEvent{Type: "state"}
	if !st.GameOver {
		machineMove, result, penalty := playMachineTurn(st)
		event.MachineMove = machineMove
		event.PenaltyApplied = penalty || (machineMove == nil && st.Current == game.Black)
		if result != nil {
			event.MachineEvaluation = &result.Evaluation
			event.NodesEvaluated = &result.Nodes
		}
	}
	if st.GameOver {
		event.Message = "game over, winner: " + st.Winner.String()
	}

	dto := encodeState(st)
	event.GameState = &dto
	return event
}

func wsValidMoves(st *game.GameState, cmd wsCommand) wsEvent {
	if st == nil {
		return wsEvent{Type: "error", Message: "no game in progress; send a new command first"}
	}
	knightName := cmd.Knight
	if knightName == "" {
		knightName = game.Black.String()
	}
	knight, err := game.ParsePlayer(knightName)
	if err != nil {
		return wsEvent{Type: "error", Message: err.Error()}
	}
	return wsEvent{
		Type:       "valid-moves",
		ValidMoves: coordSlices(st.MovesFor(knight)),
	}
}
