package tcp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/rocketscienceinc/othello-backend/internal/server"
)

type sessionServer interface {
	Serve(ctx context.Context, conn server.Conn) error
}

// Server accepts raw TCP connections and serves each on its own goroutine.
type Server struct {
	logger   *slog.Logger
	sessions sessionServer
}

func New(logger *slog.Logger, sessions sessionServer) *Server {
	return &Server{
		logger:   logger.With("component", "tcp"),
		sessions: sessions,
	}
}

// Start listens on port and serves until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return that.Serve(ctx, listener)
}

// Serve accepts connections from listener until ctx is cancelled. It returns
// after every connection has been cleaned up.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	log.Info("accepting connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("listener closed")
				return nil
			}

			return fmt.Errorf("failed to accept connection: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if serveErr := that.sessions.Serve(ctx, server.NewLineConn(conn)); serveErr != nil {
				log.Warn("session ended with error", "error", serveErr)
			}
		}()
	}
}
