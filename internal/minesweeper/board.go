package minesweeper

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// Rand is the part of *rand.Rand used for mine placement.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the top-level math/rand/v2 functions, which are safe for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n) //nolint: gosec // game randomness
}

// CreateBoard returns a board with no mines and nothing revealed or flagged.
func CreateBoard(width, height int) *entity.Board {
	cells := make([][]entity.Cell, height)
	for row := range height {
		cells[row] = make([]entity.Cell, width)
	}

	return &entity.Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// PlaceMines samples cells uniformly until exactly mineCount of them are mined,
// never mining (excludeRow, excludeCol).
func PlaceMines(board *entity.Board, excludeRow, excludeCol, mineCount int, rng Rand) error {
	if board.MinedCount() != 0 {
		return apperror.ErrMinesAlreadyPlaced
	}

	available := board.Size()
	if board.InBounds(excludeRow, excludeCol) {
		available--
	}

	if mineCount <= 0 {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidMineCount, mineCount)
	}

	if mineCount > available {
		return fmt.Errorf("%w: %d mines, %d candidate cells", apperror.ErrTooManyMines, mineCount, available)
	}

	if rng == nil {
		rng = globalRand{}
	}

	placed := 0
	for placed < mineCount {
		row := rng.IntN(board.Height)
		col := rng.IntN(board.Width)

		cell := &board.Cells[row][col]
		if cell.HasMine || (row == excludeRow && col == excludeCol) {
			continue
		}

		cell.HasMine = true
		placed++
	}

	board.MineCount = mineCount

	return nil
}

// ComputeNeighborCounts fills NeighborMineCount for every cell without a mine.
func ComputeNeighborCounts(board *entity.Board) {
	for row := range board.Height {
		for col := range board.Width {
			cell := &board.Cells[row][col]
			if cell.HasMine {
				cell.NeighborMineCount = 0
				continue
			}

			count := 0
			for _, n := range board.Neighbors(row, col) {
				if board.Cells[n.Row][n.Col].HasMine {
					count++
				}
			}

			cell.NeighborMineCount = count
		}
	}
}

// Reveal opens (row, col) and flood-fills through cells with no adjacent mines.
// Flagged cells are never opened and stop the fill. It returns the number of cells
// it revealed.
func Reveal(board *entity.Board, row, col int) int {
	start := board.Cell(row, col)
	if start == nil || start.IsRevealed || start.IsFlagged {
		return 0
	}

	revealed := 0
	visited := make(map[entity.Position]struct{}, 1)
	stack := []entity.Position{{Row: row, Col: col}}
	visited[stack[0]] = struct{}{}

	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &board.Cells[pos.Row][pos.Col]
		if cell.IsRevealed || cell.IsFlagged {
			continue
		}

		cell.IsRevealed = true
		revealed++

		if cell.HasMine || cell.NeighborMineCount != 0 {
			continue
		}

		for _, n := range board.Neighbors(pos.Row, pos.Col) {
			if _, seen := visited[n]; seen {
				continue
			}

			next := board.Cells[n.Row][n.Col]
			if next.IsRevealed || next.IsFlagged {
				continue
			}

			visited[n] = struct{}{}
			stack = append(stack, n)
		}
	}

	return revealed
}

// RevealMines discloses every mine, flagged or not.
func RevealMines(board *entity.Board) {
	for row := range board.Cells {
		for col := range board.Cells[row] {
			if board.Cells[row][col].HasMine {
				board.Cells[row][col].IsRevealed = true
			}
		}
	}
}

// ToggleFlag flips the flag on an unrevealed cell and reports whether anything changed.
func ToggleFlag(board *entity.Board, row, col int) bool {
	cell := board.Cell(row, col)
	if cell == nil || cell.IsRevealed {
		return false
	}

	cell.IsFlagged = !cell.IsFlagged

	return true
}

// CheckWinCondition reports whether every safe cell is revealed. Flags do not matter.
func CheckWinCondition(board *entity.Board) bool {
	for row := range board.Cells {
		for col := range board.Cells[row] {
			cell := board.Cells[row][col]
			if !cell.HasMine && !cell.IsRevealed {
				return false
			}
		}
	}

	return true
}
