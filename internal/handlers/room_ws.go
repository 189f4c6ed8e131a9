// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/flopgame/flop/internal/middleware"
)

// watchWriteTimeout bounds each push to a spectator; a stuck client loses its
// feed instead of holding a goroutine hostage.
const watchWriteTimeout = 10 * time.Second

// WatchWSHandler upgrades the connection to WebSocket and streams the public
// room view: one snapshot on connect, then one per room change. Pushes are
// coalesced, so a slow client sees the latest state rather than every
// intermediate one. No authentication; the feed carries no hole cards.
func (s *RoomServer) WatchWSHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"watch"},
		OriginPatterns: []string{"*"}, // Adjust for production security.
	})
	if err != nil {
		s.Logger.Warnf("WebSocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

	if c.Subprotocol() != "watch" {
		c.Close(websocket.StatusPolicyViolation, "Client must use the 'watch' subprotocol.")
		return
	}
	middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

	updates, cancel := s.Room.Watch()
	defer cancel()

	ctx := r.Context()
	if err := s.pushSnapshot(ctx, c); err != nil {
		middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
		return
	}

	// Reads are drained only to detect the peer going away; spectators have
	// nothing to say.
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := c.Read(ctx); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-updates:
			if err := s.pushSnapshot(ctx, c); err != nil {
				middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}
		case err := <-readErr:
			middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
			c.Close(websocket.StatusNormalClosure, "")
			return
		case <-ctx.Done():
			middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, ctx.Err())
			return
		}
	}
}

func (s *RoomServer) pushSnapshot(ctx context.Context, c *websocket.Conn) error {
	data, err := json.Marshal(s.Room.Snapshot())
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, watchWriteTimeout)
	defer cancel()
	return c.Write(writeCtx, websocket.MessageText, data)
}
