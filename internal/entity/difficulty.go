package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyExpert       = "expert"
	DifficultyCustom       = "custom"
)

// MaxBoardSide bounds custom boards; the expert preset is 30 wide.
const MaxBoardSide = 100

type Difficulty struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mines  int    `json:"mines"`
}

var (
	Beginner     = Difficulty{Name: DifficultyBeginner, Width: 9, Height: 9, Mines: 10}
	Intermediate = Difficulty{Name: DifficultyIntermediate, Width: 16, Height: 16, Mines: 40}
	Expert       = Difficulty{Name: DifficultyExpert, Width: 30, Height: 16, Mines: 99}

	Presets = []Difficulty{Beginner, Intermediate, Expert}
)

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Difficulty, error) {
	for _, preset := range Presets {
		if strings.EqualFold(preset.Name, name) {
			return preset, nil
		}
	}

	return Difficulty{}, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, name)
}

func CustomDifficulty(width, height, mines int) Difficulty {
	return Difficulty{Name: DifficultyCustom, Width: width, Height: height, Mines: mines}
}

// Validate rejects dimensions that cannot hold a playable board: each side must be in
// [1, MaxBoardSide], and at least one mine and one safe cell are required.
func (that Difficulty) Validate() error {
	if that.Width <= 0 || that.Height <= 0 || that.Width > MaxBoardSide || that.Height > MaxBoardSide {
		return fmt.Errorf("%w: %dx%d", apperror.ErrInvalidBoardSize, that.Width, that.Height)
	}

	if that.Mines <= 0 {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidMineCount, that.Mines)
	}

	if that.Mines >= that.Width*that.Height {
		return fmt.Errorf("%w: %d mines on %dx%d", apperror.ErrTooManyMines, that.Mines, that.Width, that.Height)
	}

	return nil
}

// ResolveDifficulty picks custom dimensions when any of them is given, otherwise the named preset.
func ResolveDifficulty(name string, width, height, mines int) (Difficulty, error) {
	if width != 0 || height != 0 || mines != 0 {
		custom := CustomDifficulty(width, height, mines)
		if err := custom.Validate(); err != nil {
			return Difficulty{}, err
		}

		return custom, nil
	}

	return PresetByName(name)
}
