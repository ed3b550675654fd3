package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

const help = "commands: <row> <col> (0-2), names <a> <b>, reset, help, quit"

var errQuit = errors.New("quit")

// Console plays a hot-seat game on a line-oriented terminal.
type Console struct {
	in         *bufio.Scanner
	out        io.Writer
	controller *tictactoe.GameController
}

func New(in io.Reader, out io.Writer, controller *tictactoe.GameController) *Console {
	return &Console{
		in:         bufio.NewScanner(in),
		out:        out,
		controller: controller,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	that.printf("%s\n\n", help)
	that.render()

	for that.in.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("console stopped: %w", err)
		}

		err := that.execute(strings.Fields(that.in.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}

		if err != nil {
			that.printf("%v\n", err)
		}
	}

	if err := that.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Console) execute(fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "exit":
		return errQuit
	case "help":
		that.printf("%s\n", help)
		return nil
	case "reset":
		that.controller.Reset()
	case "names":
		if len(fields) != 3 {
			return errors.New("usage: names <a> <b>")
		}
		that.controller.SetPlayerNames(fields[1], fields[2])
	default:
		row, col, err := parseMove(fields)
		if err != nil {
			return err
		}

		if err = that.controller.PlayMove(row, col); err != nil {
			if reason := apperror.ReasonOf(err); reason != apperror.ReasonNone {
				return fmt.Errorf("invalid move: %s", reason)
			}
			return err
		}
	}

	that.render()

	return nil
}

func parseMove(fields []string) (int, int, error) {
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unknown command %q, %s", strings.Join(fields, " "), help)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q", fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col %q", fields[1])
	}

	return row, col, nil
}

func (that *Console) render() {
	that.printf("%s\n%s\n%s\n\n", RenderBoard(that.controller.Snapshot()), that.status(), that.scores())
}

func (that *Console) status() string {
	player := that.controller.ActivePlayer()

	switch {
	case that.controller.IsWon():
		return fmt.Sprintf("%s (%s) wins!", player.Name, player.Mark)
	case that.controller.IsTied():
		return "Tie game!"
	default:
		return fmt.Sprintf("%s (%s) to move", player.Name, player.Mark)
	}
}

func (that *Console) scores() string {
	players := that.controller.Game().Players
	scores := that.controller.Scores()

	return fmt.Sprintf("Score: %s %d - %d %s", players[0].Name, scores.PlayerA, scores.PlayerB, players[1].Name)
}

func (that *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

// RenderBoard draws the board with row and column indexes. Winning cells are
// bracketed.
func RenderBoard(board entity.Board) string {
	var sb strings.Builder

	sb.WriteString("    0   1   2\n")
	for row := range board {
		if row > 0 {
			sb.WriteString("   ---+---+---\n")
		}

		cells := make([]string, 0, entity.BoardSize)
		for _, cell := range board[row] {
			cells = append(cells, renderCell(cell))
		}

		fmt.Fprintf(&sb, "%d  %s\n", row, strings.Join(cells, "|"))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func renderCell(cell entity.Cell) string {
	token := string(cell.Token)
	if cell.IsEmpty() {
		token = "."
	}

	if cell.Winning {
		return "[" + token + "]"
	}

	return " " + token + " "
}
