package entity

import (
	"time"
)

type GameState string

const (
	StatePlaying GameState = "playing"
	StateWon     GameState = "won"
	StateLost    GameState = "lost"
)

// Session wraps one board together with the state the caller needs between commands.
// A reset replaces the whole value; nothing survives it except the ID.
type Session struct {
	ID                string     `json:"id"`
	Difficulty        string     `json:"difficulty"`
	Board             *Board     `json:"board"`
	State             GameState  `json:"state"`
	FirstClickPending bool       `json:"first_click_pending"`
	FlagCount         int        `json:"flag_count"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}

func (that *Session) IsPlaying() bool {
	return that.State == StatePlaying
}

func (that *Session) IsFinished() bool {
	return that.State == StateWon || that.State == StateLost
}

func (that *Session) MinesRemaining() int {
	if that.Board == nil {
		return 0
	}

	return that.Board.MineCount - that.FlagCount
}

// Elapsed is measured from the first reveal to the terminal transition, or to now while playing.
func (that *Session) Elapsed(now time.Time) time.Duration {
	if that.StartedAt == nil {
		return 0
	}

	end := now
	if that.FinishedAt != nil {
		end = *that.FinishedAt
	}

	if end.Before(*that.StartedAt) {
		return 0
	}

	return end.Sub(*that.StartedAt)
}
