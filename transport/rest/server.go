package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	CreateGame(ctx context.Context, nameA, nameB string) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, row, col int) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	RenamePlayers(ctx context.Context, id, nameA, nameB string) (*entity.Game, error)
	EndGame(ctx context.Context, id string) error
}

type Server struct {
	logger *slog.Logger
	uGame  uGame
}

func New(logger *slog.Logger, uGame uGame) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

// Handler returns the routes of the HTTP API.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /sessions", that.handleCreateGame)
	mux.HandleFunc("GET /sessions/{id}", that.handleGetGame)
	mux.HandleFunc("DELETE /sessions/{id}", that.handleEndGame)
	mux.HandleFunc("POST /sessions/{id}/moves", that.handleMakeTurn)
	mux.HandleFunc("POST /sessions/{id}/reset", that.handleResetGame)
	mux.HandleFunc("PUT /sessions/{id}/players", that.handleRenamePlayers)

	return mux
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
