package viewmodel

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

const (
	CellHidden   = "hidden"
	CellFlagged  = "flagged"
	CellRevealed = "revealed"
)

// CellView never carries mine information for a cell the player has not seen.
type CellView struct {
	State string `json:"state"`
	Count int    `json:"count,omitempty"`
	Mine  bool   `json:"mine,omitempty"`
}

type SessionView struct {
	ID             string           `json:"id"`
	Difficulty     string           `json:"difficulty"`
	State          entity.GameState `json:"state"`
	Width          int              `json:"width"`
	Height         int              `json:"height"`
	MineCount      int              `json:"mine_count"`
	FlagCount      int              `json:"flag_count"`
	MinesRemaining int              `json:"mines_remaining"`
	Elapsed        string           `json:"elapsed"`
	Cells          [][]CellView     `json:"cells"`
}

func NewSessionView(session *entity.Session, now time.Time) *SessionView {
	if session == nil || session.Board == nil {
		return nil
	}

	board := session.Board

	cells := make([][]CellView, board.Height)
	for row := range board.Height {
		cells[row] = make([]CellView, board.Width)
		for col := range board.Width {
			cells[row][col] = newCellView(board.Cells[row][col])
		}
	}

	return &SessionView{
		ID:             session.ID,
		Difficulty:     session.Difficulty,
		State:          session.State,
		Width:          board.Width,
		Height:         board.Height,
		MineCount:      board.MineCount,
		FlagCount:      session.FlagCount,
		MinesRemaining: session.MinesRemaining(),
		Elapsed:        FormatElapsed(session.Elapsed(now)),
		Cells:          cells,
	}
}

func newCellView(cell entity.Cell) CellView {
	switch {
	case cell.IsRevealed && cell.HasMine:
		return CellView{State: CellRevealed, Mine: true}
	case cell.IsRevealed:
		return CellView{State: CellRevealed, Count: cell.NeighborMineCount}
	case cell.IsFlagged:
		return CellView{State: CellFlagged}
	default:
		return CellView{State: CellHidden}
	}
}

// FormatElapsed renders whole seconds as MM:SS. Minutes keep growing past 59.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	seconds := int(d / time.Second)

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
