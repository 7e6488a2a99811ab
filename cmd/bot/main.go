package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/othello-backend/internal/client"
	"github.com/rocketscienceinc/othello-backend/internal/config"
	"github.com/rocketscienceinc/othello-backend/internal/strategy"
)

// main - is the entry point of the bot. It connects to a game server and plays the configured number of games.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoadBot()
	logger := initLogger(conf.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, conf); err != nil {
		panic(fmt.Errorf("bot run failed: %w", err))
	}
}

func run(ctx context.Context, logger *slog.Logger, conf *config.Bot) error {
	log := logger.With("component", "bot", "name", conf.Name)

	strat, err := strategy.New(strategy.Options{
		Kind:    strategy.Kind(conf.Strategy),
		Depth:   conf.Depth,
		Filters: strategy.ParseKinds(conf.Filters),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to build strategy: %w", err)
	}

	bot, err := client.Dial(ctx, logger, conf.Addr, client.Options{Description: strat.Name()})
	if err != nil {
		return err
	}
	defer bot.Close()

	if err = bot.Login(conf.Name); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	won := 0
	for game := range conf.Games {
		if err = bot.Queue(); err != nil {
			return err
		}

		result, err := bot.Play(ctx, strat)
		if err != nil {
			return fmt.Errorf("game %d failed: %w", game+1, err)
		}

		if result.Won() {
			won++
		}

		log.Info("game finished", "game", game+1, "reason", result.Reason, "winner", result.Winner,
			"black", result.BlackScore, "white", result.WhiteScore)
	}

	log.Info("all games played", "games", conf.Games, "won", won)

	return nil
}

// initialize logger.
func initLogger(logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
