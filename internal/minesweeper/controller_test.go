package minesweeper

import (
	"testing"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minedSession returns a playing session whose mines are already laid out.
func minedSession(width, height int, mines ...entity.Position) *entity.Session {
	return &entity.Session{
		ID:         "s1",
		Difficulty: entity.DifficultyCustom,
		Board:      boardWithMines(width, height, mines...),
		State:      entity.StatePlaying,
	}
}

func cloneCells(board *entity.Board) [][]entity.Cell {
	cells := make([][]entity.Cell, len(board.Cells))
	for row := range board.Cells {
		cells[row] = append([]entity.Cell(nil), board.Cells[row]...)
	}
	return cells
}

func TestController_ResetSession(t *testing.T) {
	controller := NewController(newTestRand(1))

	t.Run("Creates an unmined playing session", func(t *testing.T) {
		// When: a beginner session is created
		session, err := controller.ResetSession("abc", entity.Beginner)
		require.NoError(t, err)

		// Then: the board is blank and waits for the first click
		assert.Equal(t, "abc", session.ID)
		assert.Equal(t, entity.DifficultyBeginner, session.Difficulty)
		assert.Equal(t, entity.StatePlaying, session.State)
		assert.True(t, session.FirstClickPending)
		assert.Equal(t, 0, session.FlagCount)
		assert.Equal(t, 10, session.Board.MineCount)
		assert.Equal(t, 0, session.Board.MinedCount())
		assert.Equal(t, 10, session.MinesRemaining())
		assert.Nil(t, session.StartedAt)
	})

	t.Run("Rejects more mines than cells", func(t *testing.T) {
		_, err := controller.ResetSession("abc", entity.CustomDifficulty(3, 3, 9))

		require.ErrorIs(t, err, apperror.ErrTooManyMines)
	})

	t.Run("Rejects empty dimensions", func(t *testing.T) {
		_, err := controller.ResetSession("abc", entity.CustomDifficulty(0, 3, 1))

		require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})
}

func TestController_HandleReveal(t *testing.T) {
	t.Run("First click at (4,4) on beginner is never a mine", func(t *testing.T) {
		for seed := range uint64(100) {
			// Given: a fresh beginner session
			controller := NewController(newTestRand(seed))
			session, err := controller.ResetSession("abc", entity.Beginner)
			require.NoError(t, err)

			// When: the player opens (4,4)
			state, err := controller.HandleReveal(session, 4, 4)
			require.NoError(t, err)

			// Then: the mines are placed, (4,4) is safe and open, and the game has not been lost
			assert.NotEqual(t, entity.StateLost, state)
			assert.False(t, session.FirstClickPending)
			assert.Equal(t, 10, session.Board.MinedCount())
			assert.False(t, session.Board.Cells[4][4].HasMine)
			assert.True(t, session.Board.Cells[4][4].IsRevealed)
		}
	})

	t.Run("Mines are placed only once", func(t *testing.T) {
		// Given: a session after its first click
		controller := NewController(newTestRand(9))
		session, err := controller.ResetSession("abc", entity.Intermediate)
		require.NoError(t, err)
		_, err = controller.HandleReveal(session, 0, 0)
		require.NoError(t, err)

		layout := make([]bool, 0, session.Board.Size())
		for _, row := range session.Board.Cells {
			for _, cell := range row {
				layout = append(layout, cell.HasMine)
			}
		}

		// When: another cell is revealed
		_, err = controller.HandleReveal(session, 15, 15)
		require.NoError(t, err)

		// Then: the mine layout is unchanged
		i := 0
		for _, row := range session.Board.Cells {
			for _, cell := range row {
				assert.Equal(t, layout[i], cell.HasMine)
				i++
			}
		}
	})

	t.Run("Full flood fill of a mine free 3x3 wins", func(t *testing.T) {
		// Given: a 3x3 board with no mines
		controller := NewController(nil)
		session := minedSession(3, 3)

		// When: the center is revealed
		state, err := controller.HandleReveal(session, 1, 1)
		require.NoError(t, err)

		// Then: all nine cells are open and the game is won
		assert.Equal(t, 9, countRevealed(session.Board))
		assert.Equal(t, entity.StateWon, state)
		assert.Equal(t, entity.StateWon, session.State)
	})

	t.Run("Flagged cell cannot be revealed", func(t *testing.T) {
		// Given: a flag on (0,0)
		controller := NewController(nil)
		session := minedSession(3, 3, entity.Position{Row: 2, Col: 2})
		controller.HandleFlag(session, 0, 0)

		// When: the player tries to reveal (0,0)
		state, err := controller.HandleReveal(session, 0, 0)
		require.NoError(t, err)

		// Then: the cell stays closed and flagged and the game continues
		assert.False(t, session.Board.Cells[0][0].IsRevealed)
		assert.True(t, session.Board.Cells[0][0].IsFlagged)
		assert.Equal(t, entity.StatePlaying, state)
	})

	t.Run("Flagged first click places mines but stays hidden", func(t *testing.T) {
		// Given: a fresh session whose (2,2) is flagged before any reveal
		controller := NewController(newTestRand(7))
		session, err := controller.ResetSession("abc", entity.CustomDifficulty(5, 5, 4))
		require.NoError(t, err)
		controller.HandleFlag(session, 2, 2)

		// When: the flagged cell is revealed as the first click
		state, err := controller.HandleReveal(session, 2, 2)
		require.NoError(t, err)

		// Then: the click consumes placement but the flag blocks the reveal
		assert.Equal(t, entity.StatePlaying, state)
		assert.False(t, session.FirstClickPending)
		assert.Equal(t, session.Board.MineCount, session.Board.MinedCount())
		assert.False(t, session.Board.Cells[2][2].HasMine)
		assert.False(t, session.Board.Cells[2][2].IsRevealed)
		assert.True(t, session.Board.Cells[2][2].IsFlagged)
		assert.Equal(t, 0, countRevealed(session.Board))
	})

	t.Run("Revealing a mine loses and discloses every mine", func(t *testing.T) {
		// Given: mines at (0,0) and (2,2), with (2,2) flagged
		controller := NewController(nil)
		session := minedSession(3, 3, entity.Position{Row: 0, Col: 0}, entity.Position{Row: 2, Col: 2})
		controller.HandleFlag(session, 2, 2)

		// When: the mine at (0,0) is revealed
		state, err := controller.HandleReveal(session, 0, 0)
		require.NoError(t, err)

		// Then: the game is lost and both mines are revealed despite the flag
		assert.Equal(t, entity.StateLost, state)
		assert.True(t, session.Board.Cells[0][0].IsRevealed)
		assert.True(t, session.Board.Cells[2][2].IsRevealed)
		assert.True(t, session.Board.Cells[2][2].IsFlagged)
		assert.False(t, session.Board.Cells[1][1].IsRevealed)
	})

	t.Run("Safe reveal with hidden cells left keeps playing", func(t *testing.T) {
		controller := NewController(nil)
		session := minedSession(3, 3, entity.Position{Row: 0, Col: 0})

		state, err := controller.HandleReveal(session, 1, 1)
		require.NoError(t, err)

		assert.Equal(t, entity.StatePlaying, state)
	})

	t.Run("Out of bounds is a no-op even on the first click", func(t *testing.T) {
		// Given: a fresh session
		controller := NewController(newTestRand(2))
		session, err := controller.ResetSession("abc", entity.Beginner)
		require.NoError(t, err)

		// When: the player reveals outside the grid
		state, err := controller.HandleReveal(session, 9, 0)
		require.NoError(t, err)

		// Then: no mines are placed and the first click is still pending
		assert.Equal(t, entity.StatePlaying, state)
		assert.True(t, session.FirstClickPending)
		assert.Equal(t, 0, session.Board.MinedCount())
	})
}

func TestController_TerminalSessionsAreFrozen(t *testing.T) {
	for _, terminal := range []entity.GameState{entity.StateWon, entity.StateLost} {
		t.Run(string(terminal), func(t *testing.T) {
			// Given: a finished session
			controller := NewController(nil)
			session := minedSession(3, 3, entity.Position{Row: 0, Col: 0})
			session.State = terminal
			before := cloneCells(session.Board)

			// When: the player keeps clicking
			state, err := controller.HandleReveal(session, 2, 2)
			require.NoError(t, err)
			flags := controller.HandleFlag(session, 1, 1)

			// Then: nothing on the board or in the state moves
			assert.Equal(t, terminal, state)
			assert.Equal(t, terminal, session.State)
			assert.Equal(t, 0, flags)
			assert.Equal(t, before, session.Board.Cells)
		})
	}
}

func TestController_HandleFlag(t *testing.T) {
	t.Run("Returns the running flag count", func(t *testing.T) {
		controller := NewController(nil)
		session := minedSession(3, 3, entity.Position{Row: 0, Col: 0})

		assert.Equal(t, 1, controller.HandleFlag(session, 0, 0))
		assert.Equal(t, 2, controller.HandleFlag(session, 0, 1))
		assert.Equal(t, 1, controller.HandleFlag(session, 0, 1))
		assert.Equal(t, 0, session.MinesRemaining())
	})

	t.Run("Flags before the first click are allowed", func(t *testing.T) {
		// Given: a fresh session
		controller := NewController(newTestRand(4))
		session, err := controller.ResetSession("abc", entity.Beginner)
		require.NoError(t, err)

		// When: a flag is placed
		count := controller.HandleFlag(session, 3, 3)

		// Then: it counts and the board is still unmined
		assert.Equal(t, 1, count)
		assert.Equal(t, 9, session.MinesRemaining())
		assert.True(t, session.FirstClickPending)
	})

	t.Run("Flags on revealed cells are ignored", func(t *testing.T) {
		controller := NewController(nil)
		session := minedSession(3, 3, entity.Position{Row: 0, Col: 0})
		_, err := controller.HandleReveal(session, 1, 1)
		require.NoError(t, err)

		assert.Equal(t, 0, controller.HandleFlag(session, 1, 1))
	})
}
