package entity

// Cell is one grid position.
type Cell struct {
	HasMine           bool `json:"has_mine"`
	IsRevealed        bool `json:"is_revealed"`
	IsFlagged         bool `json:"is_flagged"`
	NeighborMineCount int  `json:"neighbor_mine_count"`
}

// Board is a height x width grid of cells indexed as Cells[row][col].
type Board struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	MineCount int      `json:"mine_count"`
	Cells     [][]Cell `json:"cells"`
}

// Position addresses a cell on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.Height && col >= 0 && col < that.Width
}

// Cell returns the cell at (row, col) or nil when the position is off the board.
func (that *Board) Cell(row, col int) *Cell {
	if !that.InBounds(row, col) {
		return nil
	}

	return &that.Cells[row][col]
}

// Neighbors returns the in-bounds Moore neighbors of (row, col).
func (that *Board) Neighbors(row, col int) []Position {
	neighbors := make([]Position, 0, 8)

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}

			if that.InBounds(row+dr, col+dc) {
				neighbors = append(neighbors, Position{Row: row + dr, Col: col + dc})
			}
		}
	}

	return neighbors
}

func (that *Board) FlagCount() int {
	count := 0
	for row := range that.Cells {
		for col := range that.Cells[row] {
			if that.Cells[row][col].IsFlagged {
				count++
			}
		}
	}

	return count
}

func (that *Board) MinedCount() int {
	count := 0
	for row := range that.Cells {
		for col := range that.Cells[row] {
			if that.Cells[row][col].HasMine {
				count++
			}
		}
	}

	return count
}

func (that *Board) Size() int {
	return that.Width * that.Height
}
