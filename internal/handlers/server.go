// internal/handlers/server.go
package handlers

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/flopgame/flop/internal/game"
)

// RoomServer holds the single shared room handle and the logger. Every
// handler hangs off it; there is no global state.
type RoomServer struct {
	Logger *logrus.Logger
	Room   *game.Handle
}

// NewRoomServer builds the room and wraps it in a handle. rng may be nil for
// a time-seeded shuffle; tests pass a fixed seed.
func NewRoomServer(logger *logrus.Logger, cfg game.Config, rng *rand.Rand) *RoomServer {
	return &RoomServer{
		Logger: logger,
		Room:   game.NewHandle(game.NewRoom(cfg, rng)),
	}
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeGameError maps an engine error to an HTTP status and a JSON body.
// Unknown errors are internal bugs and are logged as such.
func (s *RoomServer) writeGameError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrRoomClosed):
		status = http.StatusGone
	case errors.Is(err, game.ErrRoomFull), errors.Is(err, game.ErrAlreadyJoined):
		status = http.StatusConflict
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrInvalidAction),
		errors.Is(err, game.ErrInsufficientStack),
		errors.Is(err, game.ErrNotEnoughPlayers):
		status = http.StatusBadRequest
	default:
		s.Logger.Errorf("internal engine error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
