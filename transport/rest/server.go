package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type sessionUseCase interface {
	NewSession(ctx context.Context, difficulty entity.Difficulty) (*entity.Session, error)
	ResetSession(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	Reveal(ctx context.Context, id string, row, col int) (*entity.Session, entity.GameState, error)
	ToggleFlag(ctx context.Context, id string, row, col int) (*entity.Session, int, error)
}

type Server struct {
	logger            *slog.Logger
	sessionUseCase    sessionUseCase
	defaultDifficulty string
	now               func() time.Time
}

func New(logger *slog.Logger, sessionUseCase sessionUseCase, defaultDifficulty string) *Server {
	return &Server{
		logger:            logger.With("component", "rest"),
		sessionUseCase:    sessionUseCase,
		defaultDifficulty: defaultDifficulty,
		now:               time.Now,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("GET /api/presets", that.handlePresets)
	mux.HandleFunc("POST /api/sessions", that.handleNewSession)
	mux.HandleFunc("GET /api/sessions/{id}", that.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/reset", that.handleResetSession)
	mux.HandleFunc("POST /api/sessions/{id}/reveal", that.handleReveal)
	mux.HandleFunc("POST /api/sessions/{id}/flag", that.handleFlag)

	return mux
}

// Start - serves the REST API until ctx is cancelled.
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
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
