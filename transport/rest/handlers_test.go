package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/othello-backend/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats server.Stats

func (that fixedStats) Stats() server.Stats {
	return server.Stats(that)
}

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	stats := fixedStats{Connected: 5, LoggedIn: 4, Queued: 1, Games: 1}

	return NewRouter(NewHandlers(logger, stats))
}

func TestPingHandler(t *testing.T) {
	// Given: the status router
	router := newTestRouter()

	// When: /ping is requested
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Then: it answers pong
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestStatsHandler(t *testing.T) {
	t.Run("Reports the server counters", func(t *testing.T) {
		// Given: the status router
		router := newTestRouter()

		// When: /stats is requested
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/stats", nil))

		// Then: the counters are returned as JSON
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

		var stats server.Stats
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stats))
		assert.Equal(t, server.Stats{Connected: 5, LoggedIn: 4, Queued: 1, Games: 1}, stats)
	})

	t.Run("Only GET is served", func(t *testing.T) {
		router := newTestRouter()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/stats", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	})
}
