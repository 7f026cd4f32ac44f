package minesweeper

import (
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// Controller applies player commands to sessions. It is stateless apart from the
// random source used when the first reveal places the mines.
type Controller struct {
	rng Rand
}

func NewController(rng Rand) *Controller {
	if rng == nil {
		rng = globalRand{}
	}

	return &Controller{rng: rng}
}

// ResetSession validates the difficulty and returns a fresh session waiting for its first click.
func (that *Controller) ResetSession(id string, difficulty entity.Difficulty) (*entity.Session, error) {
	if err := difficulty.Validate(); err != nil {
		return nil, fmt.Errorf("invalid difficulty: %w", err)
	}

	board := CreateBoard(difficulty.Width, difficulty.Height)
	board.MineCount = difficulty.Mines

	return &entity.Session{
		ID:                id,
		Difficulty:        difficulty.Name,
		Board:             board,
		State:             entity.StatePlaying,
		FirstClickPending: true,
	}, nil
}

// HandleReveal opens (row, col). The first reveal of a session places the mines
// around it. Terminal sessions and off-board coordinates are left untouched.
func (that *Controller) HandleReveal(session *entity.Session, row, col int) (entity.GameState, error) {
	if !session.IsPlaying() || !session.Board.InBounds(row, col) {
		return session.State, nil
	}

	if session.FirstClickPending {
		if err := PlaceMines(session.Board, row, col, session.Board.MineCount, that.rng); err != nil {
			return session.State, fmt.Errorf("failed to place mines: %w", err)
		}

		ComputeNeighborCounts(session.Board)
		session.FirstClickPending = false
	}

	Reveal(session.Board, row, col)

	switch cell := session.Board.Cells[row][col]; {
	case cell.HasMine && cell.IsRevealed:
		RevealMines(session.Board)
		session.State = entity.StateLost
	case CheckWinCondition(session.Board):
		session.State = entity.StateWon
	}

	return session.State, nil
}

// HandleFlag toggles the flag at (row, col) and returns the number of flags on the board.
func (that *Controller) HandleFlag(session *entity.Session, row, col int) int {
	if session.IsPlaying() {
		ToggleFlag(session.Board, row, col)
		session.FlagCount = session.Board.FlagCount()
	}

	return session.FlagCount
}
