// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/flopgame/flop/internal/auth"
	"github.com/flopgame/flop/internal/config"
	"github.com/flopgame/flop/internal/handlers"
	"github.com/flopgame/flop/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	srv := handlers.NewRoomServer(logger, cfg.Table, nil)

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	// room endpoints
	mux.Handle("POST /room/join", logged(http.HandlerFunc(srv.JoinHandler)))
	mux.Handle("POST /room/start", logged(http.HandlerFunc(srv.StartHandler)))
	mux.Handle("POST /room/play", logged(http.HandlerFunc(srv.PlayHandler)))
	mux.Handle("POST /room/reset", logged(http.HandlerFunc(srv.ResetHandler)))
	mux.Handle("POST /room/close", logged(http.HandlerFunc(srv.CloseHandler)))
	mux.Handle("GET /room/state", logged(http.HandlerFunc(srv.StateHandler)))
	mux.Handle("GET /room/player", logged(http.HandlerFunc(srv.PlayerStateHandler)))

	// spectator websocket
	mux.Handle("GET /room/ws", logged(http.HandlerFunc(srv.WatchWSHandler)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logger.Infof("Running on %s (seats=%d, stack=%d, blinds=%d/%d)",
		cfg.Addr, cfg.Table.MaxSeats, cfg.Table.StartingStack,
		cfg.Table.SmallBlind, cfg.Table.BigBlind)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
