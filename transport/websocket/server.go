package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/othello-backend/internal/server"
)

const Path = "/ws"

type sessionServer interface {
	Serve(ctx context.Context, conn server.Conn) error
}

// Server upgrades requests on Path and hands the connection to the game server.
type Server struct {
	logger   *slog.Logger
	sessions sessionServer
}

func New(logger *slog.Logger, sessions sessionServer) *Server {
	return &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
	}
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	stop := context.AfterFunc(ctx, func() {
		_ = srv.Close()
	})
	defer stop()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP", "remote", req.RemoteAddr)

	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established")

	ctx := req.Context()
	if err = that.sessions.Serve(ctx, newLineConn(ctx, conn, req.RemoteAddr)); err != nil {
		log.Warn("session ended with error", "error", err)
	}
}
