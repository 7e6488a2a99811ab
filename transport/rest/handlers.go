package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/othello-backend/internal/server"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	StatsHandler(w http.ResponseWriter, _ *http.Request)
}

type statsProvider interface {
	Stats() server.Stats
}

type handlers struct {
	logger *slog.Logger
	stats  statsProvider
}

func NewHandlers(logger *slog.Logger, stats statsProvider) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		stats:  stats,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// StatsHandler reports the number of connected, logged in and queued
// clients and of running games.
func (that *handlers) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	log := that.logger.With("method", "StatsHandler")

	body, err := json.Marshal(that.stats.Stats())
	if err != nil {
		log.Error("failed to marshal stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(body); err != nil {
		log.Error("failed to write stats", "error", err)
	}
}
