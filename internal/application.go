package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/othello-backend/internal/config"
	"github.com/rocketscienceinc/othello-backend/internal/repository"
	"github.com/rocketscienceinc/othello-backend/internal/repository/storage"
	"github.com/rocketscienceinc/othello-backend/internal/server"
	"github.com/rocketscienceinc/othello-backend/internal/usecase"
	"github.com/rocketscienceinc/othello-backend/transport/rest"
	"github.com/rocketscienceinc/othello-backend/transport/tcp"
	"github.com/rocketscienceinc/othello-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	playerRepo, gameRepo, closeRepos, err := initRepositories(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepos()

	mirror := usecase.NewSessionMirror(logger, playerRepo, gameRepo, conf.MirrorBuffer)
	sessions := server.New(logger, server.Options{
		Description: conf.ServerDescription,
		Mirror:      mirror,
	})

	// run session mirror
	go func() {
		if mirrorErr := mirror.Run(ctx); mirrorErr != nil {
			log.Error("session mirror error", "error", mirrorErr)
		}
	}()

	// run TCP game server
	tcpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting TCP server", "port", conf.TCPPort)
		if tcpErr := tcp.New(logger, sessions).Start(ctx, conf.TCPPort); tcpErr != nil {
			log.Error("TCP server error", "error", tcpErr)
			tcpErrCh <- tcpErr
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, sessions)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, sessions).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-tcpErrCh:
		return fmt.Errorf("TCP server error: %w", err)
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// initRepositories picks Redis when it is enabled and in-memory maps otherwise.
func initRepositories(
	ctx context.Context,
	log *slog.Logger,
	conf *config.Config,
) (repository.PlayerRepository, repository.GameRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, mirroring sessions in memory")
		return repository.NewMemoryPlayerRepository(), repository.NewMemoryGameRepository(), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewPlayerRepository(redisStorage), repository.NewGameRepository(redisStorage), closeStorage, nil
}
