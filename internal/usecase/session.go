package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
)

type SessionUseCase interface {
	NewSession(ctx context.Context, difficulty entity.Difficulty) (*entity.Session, error)
	ResetSession(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	Reveal(ctx context.Context, id string, row, col int) (*entity.Session, entity.GameState, error)
	ToggleFlag(ctx context.Context, id string, row, col int) (*entity.Session, int, error)
}

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

type engine interface {
	ResetSession(id string, difficulty entity.Difficulty) (*entity.Session, error)
	HandleReveal(session *entity.Session, row, col int) (entity.GameState, error)
	HandleFlag(session *entity.Session, row, col int) int
}

type sessionUseCase struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	engine      engine
	now         func() time.Time
}

// NewSessionUseCase - now defaults to time.Now when nil.
func NewSessionUseCase(logger *slog.Logger, sessionRepo sessionRepo, engine engine, now func() time.Time) SessionUseCase {
	if now == nil {
		now = time.Now
	}

	return &sessionUseCase{
		logger:      logger.With("component", "session_usecase"),
		sessionRepo: sessionRepo,
		engine:      engine,
		now:         now,
	}
}

func (that *sessionUseCase) NewSession(ctx context.Context, difficulty entity.Difficulty) (*entity.Session, error) {
	id, err := pkg.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("error generating session ID: %w", err)
	}

	session, err := that.engine.ResetSession(id, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err = that.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "sessionID", id, "difficulty", difficulty.Name)

	return session, nil
}

// ResetSession replaces the stored session wholesale, keeping only its ID.
func (that *sessionUseCase) ResetSession(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		fresh, err := that.engine.ResetSession(id, difficulty)
		if err != nil {
			return err
		}

		*session = *fresh

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	that.logger.Info("session reset", "sessionID", id, "difficulty", difficulty.Name)

	return session, nil
}

func (that *sessionUseCase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// Reveal opens a cell and keeps the timer bookkeeping: StartedAt is stamped by the
// click that places the mines, FinishedAt by the click that ends the game.
func (that *sessionUseCase) Reveal(ctx context.Context, id string, row, col int) (*entity.Session, entity.GameState, error) {
	log := that.logger.With("method", "Reveal", "sessionID", id)

	var finished bool

	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		wasPending := session.FirstClickPending
		wasPlaying := session.IsPlaying()

		if _, err := that.engine.HandleReveal(session, row, col); err != nil {
			return err
		}

		now := that.now().UTC()
		if wasPending && !session.FirstClickPending {
			session.StartedAt = &now
		}

		if wasPlaying && session.IsFinished() {
			session.FinishedAt = &now
			finished = true
		}

		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to reveal cell: %w", err)
	}

	if finished {
		log.Info("game finished", "state", session.State, "elapsed", session.Elapsed(that.now()))
	} else {
		log.Debug("cell revealed", "row", row, "col", col)
	}

	return session, session.State, nil
}

func (that *sessionUseCase) ToggleFlag(ctx context.Context, id string, row, col int) (*entity.Session, int, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		that.engine.HandleFlag(session, row, col)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to toggle flag: %w", err)
	}

	that.logger.Debug("flag toggled", "method", "ToggleFlag", "sessionID", id, "row", row, "col", col, "flags", session.FlagCount)

	return session, session.FlagCount, nil
}
