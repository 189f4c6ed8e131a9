// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/flopgame/flop/internal/auth"
	"github.com/flopgame/flop/internal/game"
)

const maxNameLen = 20

type joinRequest struct {
	Name string `json:"name"`
}

type joinResponse struct {
	PlayerID uuid.UUID `json:"playerId"`
	Token    string    `json:"token"`
}

// validName rejects empty, oversized or control-character names.
func validName(name string) bool {
	if name == "" || len(name) > maxNameLen {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// JoinHandler seats a new player and issues their token. The token is also
// set as an auth_token cookie so browser clients authenticate transparently.
func (s *RoomServer) JoinHandler(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if !validName(req.Name) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid name"})
		return
	}

	playerID := uuid.New()
	if err := s.Room.Join(playerID, req.Name); err != nil {
		s.writeGameError(w, err)
		return
	}

	token, err := auth.CreatePlayerToken(playerID)
	if err != nil {
		s.Logger.Errorf("failed to create player token: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
	writeJSON(w, http.StatusCreated, joinResponse{PlayerID: playerID, Token: token})
}

// StartHandler begins the next hand. Any seated player may start one.
func (s *RoomServer) StartHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := playerFromRequest(r); !ok {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "invalid token"})
		return
	}
	if err := s.Room.StartHand(); err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Room.Snapshot())
}

type playRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// PlayHandler applies one action by the authenticated player.
func (s *RoomServer) PlayHandler(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "invalid token"})
		return
	}

	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	kind, err := game.ParseActionKind(req.Action)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.Room.PlayTurn(playerID, game.Action{Kind: kind, Amount: req.Amount}); err != nil {
		s.writeGameError(w, err)
		return
	}
	view, err := s.Room.PlayerView(playerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ResetHandler clears the room back to a fresh open state.
func (s *RoomServer) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Room.Reset(); err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Room.Snapshot())
}

// CloseHandler shuts the room permanently.
func (s *RoomServer) CloseHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Room.Close(); err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Room.Snapshot())
}

// StateHandler returns the public room projection. No authentication; this
// view never contains hole cards.
func (s *RoomServer) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Room.Snapshot())
}

// PlayerStateHandler returns the requesting player's private view, including
// their hole cards and the current price to call.
func (s *RoomServer) PlayerStateHandler(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "invalid token"})
		return
	}
	view, err := s.Room.PlayerView(playerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
