// internal/handlers/room_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flopgame/flop/internal/auth"
	"github.com/flopgame/flop/internal/game"
)

func newTestServer(cfg game.Config) *RoomServer {
	auth.Init() // ephemeral keys
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewRoomServer(logger, cfg, rand.New(rand.NewSource(1)))
}

// join seats a player through the HTTP handler and returns their id and token.
func join(t *testing.T, s *RoomServer, name string) (uuid.UUID, string) {
	t.Helper()
	body := `{"name":"` + name + `"}`
	req := httptest.NewRequest("POST", "/room/join", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.JoinHandler(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("join %s: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	var resp joinResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode join response: %v", err)
	}
	if resp.PlayerID == uuid.Nil || resp.Token == "" {
		t.Fatalf("join response missing id or token: %s", w.Body.String())
	}
	return resp.PlayerID, resp.Token
}

// do fires an authenticated request at a handler and returns the recorder.
func do(s *RoomServer, h http.HandlerFunc, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// TestJoinIssuesTokenAndCookie checks that /room/join seats a player, returns
// a usable token and sets the auth cookie.
func TestJoinIssuesTokenAndCookie(t *testing.T) {
	s := newTestServer(game.Config{})

	body := `{"name":"alice"}`
	req := httptest.NewRequest("POST", "/room/join", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.JoinHandler(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp joinResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode join response: %v", err)
	}

	cookieSet := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.Value == resp.Token {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatalf("auth_token cookie not set")
	}

	id, err := auth.PlayerIDFromToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if id != resp.PlayerID {
		t.Fatalf("token subject mismatch: expected %v got %v", resp.PlayerID, id)
	}
}

func TestJoinRejectsBadNames(t *testing.T) {
	s := newTestServer(game.Config{})
	for _, body := range []string{
		`{"name":""}`,
		`{"name":"   "}`,
		`{"name":"this-name-is-far-too-long-for-a-seat"}`,
		`{"name":"bad\tname"}`,
		`not json`,
	} {
		w := do(s, s.JoinHandler, "POST", "/room/join", "", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestJoinFullRoomConflicts(t *testing.T) {
	s := newTestServer(game.Config{MaxSeats: 2})
	join(t, s, "alice")
	join(t, s, "bob")

	w := do(s, s.JoinHandler, "POST", "/room/join", "", `{"name":"carol"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a full room, got %d: %s", w.Code, w.Body.String())
	}
}

// TestPlayHandFlow walks a heads-up hand over HTTP: join, start, call, check,
// and verifies the public state advanced to the flop.
func TestPlayHandFlow(t *testing.T) {
	s := newTestServer(game.Config{SmallBlind: 5, BigBlind: 10})
	_, tokenA := join(t, s, "alice")
	_, tokenB := join(t, s, "bob")

	w := do(s, s.StartHandler, "POST", "/room/start", tokenA, "")
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(s, s.PlayHandler, "POST", "/room/play", tokenA, `{"action":"call"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("call: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = do(s, s.PlayHandler, "POST", "/room/play", tokenB, `{"action":"check"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("check: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(s, s.StateHandler, "GET", "/room/state", "", "")
	var view game.RoomView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode room view: %v", err)
	}
	if len(view.Community) != 3 {
		t.Fatalf("expected 3 community cards after the preflop round, got %d", len(view.Community))
	}
	if view.Pot != 20 {
		t.Fatalf("expected pot 20, got %d", view.Pot)
	}
}

func TestPlayErrorMapping(t *testing.T) {
	s := newTestServer(game.Config{})
	_, tokenA := join(t, s, "alice")
	_, tokenB := join(t, s, "bob")

	// Acting before a hand starts is invalid.
	w := do(s, s.PlayHandler, "POST", "/room/play", tokenA, `{"action":"check"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 before hand start, got %d", w.Code)
	}

	if w = do(s, s.StartHandler, "POST", "/room/start", tokenA, ""); w.Code != http.StatusOK {
		t.Fatalf("start failed: %d %s", w.Code, w.Body.String())
	}

	// Out of turn: heads up the dealer acts first, so bob is rejected.
	w = do(s, s.PlayHandler, "POST", "/room/play", tokenB, `{"action":"fold"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 out of turn, got %d", w.Code)
	}

	// Unknown action spelling.
	w = do(s, s.PlayHandler, "POST", "/room/play", tokenA, `{"action":"shove"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", w.Code)
	}

	// No token at all.
	w = do(s, s.PlayHandler, "POST", "/room/play", "", `{"action":"fold"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", w.Code)
	}

	// A token for a player who was never seated here.
	strayToken, _ := auth.CreatePlayerToken(uuid.New())
	w = do(s, s.PlayerStateHandler, "GET", "/room/player", strayToken, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown player, got %d", w.Code)
	}
}

func TestPlayerStateShowsOwnCardsOnly(t *testing.T) {
	s := newTestServer(game.Config{})
	_, tokenA := join(t, s, "alice")
	join(t, s, "bob")
	if w := do(s, s.StartHandler, "POST", "/room/start", tokenA, ""); w.Code != http.StatusOK {
		t.Fatalf("start failed: %d", w.Code)
	}

	w := do(s, s.PlayerStateHandler, "GET", "/room/player", tokenA, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var pv game.PlayerViewData
	if err := json.Unmarshal(w.Body.Bytes(), &pv); err != nil {
		t.Fatalf("failed to decode player view: %v", err)
	}
	if len(pv.HoleCards) != 2 {
		t.Fatalf("expected 2 hole cards, got %d", len(pv.HoleCards))
	}
	if !pv.YourTurn {
		t.Fatalf("dealer should act first heads up")
	}

	// The public view must not leak cards.
	w = do(s, s.StateHandler, "GET", "/room/state", "", "")
	if bytes.Contains(w.Body.Bytes(), []byte(`"cards":[{`)) {
		t.Fatalf("public state leaked hole cards: %s", w.Body.String())
	}
}

func TestCloseThenGone(t *testing.T) {
	s := newTestServer(game.Config{})
	join(t, s, "alice")

	if w := do(s, s.CloseHandler, "POST", "/room/close", "", ""); w.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d", w.Code)
	}

	w := do(s, s.JoinHandler, "POST", "/room/join", "", `{"name":"bob"}`)
	if w.Code != http.StatusGone {
		t.Fatalf("expected 410 joining a closed room, got %d", w.Code)
	}
	if w := do(s, s.CloseHandler, "POST", "/room/close", "", ""); w.Code != http.StatusGone {
		t.Fatalf("expected 410 closing twice, got %d", w.Code)
	}

	// Reads still work on a closed room.
	w = do(s, s.StateHandler, "GET", "/room/state", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200 on closed room, got %d", w.Code)
	}
}

func TestResetEmptiesRoom(t *testing.T) {
	s := newTestServer(game.Config{})
	join(t, s, "alice")
	join(t, s, "bob")

	if w := do(s, s.ResetHandler, "POST", "/room/reset", "", ""); w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", w.Code)
	}
	var view game.RoomView
	w := do(s, s.StateHandler, "GET", "/room/state", "", "")
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode room view: %v", err)
	}
	if len(view.Players) != 0 {
		t.Fatalf("expected an empty roster after reset, got %d players", len(view.Players))
	}
}
