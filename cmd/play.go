package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
	"github.com/rocketscienceinc/minesweeper-backend/internal/viewmodel"
)

const playSessionID = "local"

var playDifficulty string

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play a game in the terminal against the local engine.

Commands:
  r <row> <col>   reveal a cell
  f <row> <col>   toggle a flag
  n               start a new game
  q               quit

Examples:
  minesweeper play
  minesweeper play --difficulty expert`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			difficulty, err := entity.PresetByName(playDifficulty)
			if err != nil {
				return err
			}

			return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), difficulty, minesweeper.NewController(nil), time.Now)
		},
	}

	playCmd.Flags().StringVarP(&playDifficulty, "difficulty", "d", entity.DifficultyBeginner, "beginner, intermediate or expert")

	rootCmd.AddCommand(playCmd)
}

var errBadCommand = errors.New("unknown command, use r <row> <col>, f <row> <col>, n or q")

func runPlay(in io.Reader, out io.Writer, difficulty entity.Difficulty, controller *minesweeper.Controller, now func() time.Time) error {
	session, err := newLocalSession(controller, difficulty)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, renderSession(viewmodel.NewSessionView(session, now())))
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			return nil
		case "n":
			if session, err = newLocalSession(controller, difficulty); err != nil {
				return err
			}
		case "r", "f":
			row, col, parseErr := parseCell(fields[1:])
			if parseErr != nil {
				fmt.Fprintln(out, parseErr)
				continue
			}

			if fields[0] == "f" {
				controller.HandleFlag(session, row, col)
				continue
			}

			if err = revealLocal(controller, session, row, col, now); err != nil {
				return err
			}
		default:
			fmt.Fprintln(out, errBadCommand)
		}
	}
}

func newLocalSession(controller *minesweeper.Controller, difficulty entity.Difficulty) (*entity.Session, error) {
	session, err := controller.ResetSession(playSessionID, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return session, nil
}

// revealLocal stamps the clock the same way the server does.
func revealLocal(controller *minesweeper.Controller, session *entity.Session, row, col int, now func() time.Time) error {
	firstClick := session.FirstClickPending

	state, err := controller.HandleReveal(session, row, col)
	if err != nil {
		return fmt.Errorf("failed to reveal cell: %w", err)
	}

	if firstClick && !session.FirstClickPending {
		startedAt := now()
		session.StartedAt = &startedAt
	}

	if state != entity.StatePlaying && session.FinishedAt == nil {
		finishedAt := now()
		session.FinishedAt = &finishedAt
	}

	return nil
}

func parseCell(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errBadCommand
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q: %w", args[0], err)
	}

	col, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col %q: %w", args[1], err)
	}

	return row, col, nil
}

// renderSession draws # for hidden, F for flagged, * for a disclosed mine,
// . for an empty cell and the neighbor count otherwise.
func renderSession(view *viewmodel.SessionView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s  mines: %d  time: %s\n", view.State, view.MinesRemaining, view.Elapsed)

	for _, row := range view.Cells {
		for col, cell := range row {
			if col > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteByte(cellSymbol(cell))
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}

func cellSymbol(cell viewmodel.CellView) byte {
	switch {
	case cell.State == viewmodel.CellFlagged:
		return 'F'
	case cell.State == viewmodel.CellHidden:
		return '#'
	case cell.Mine:
		return '*'
	case cell.Count == 0:
		return '.'
	default:
		return byte('0' + cell.Count)
	}
}
