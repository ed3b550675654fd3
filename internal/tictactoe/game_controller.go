package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

// GameController applies the rules of the game to a single session.
type GameController struct {
	game *entity.Game
}

func NewGameController(game *entity.Game) *GameController {
	return &GameController{
		game: game,
	}
}

func (that *GameController) Game() *entity.Game {
	return that.game
}

// PlayMove places the active player's token at row, col. A rejected move
// leaves the game untouched and returns an error wrapping
// apperror.ErrInvalidMove.
func (that *GameController) PlayMove(row, col int) error {
	if err := that.validateMove(row, col); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.game.TurnCount++
	that.game.Board.PlaceToken(that.game.Turn, row, col)
	that.updateGameStatus(row, col)

	return nil
}

// validateMove - checks if the move is valid.
func (that *GameController) validateMove(row, col int) error {
	if err := that.game.ConfirmOngoingState(); err != nil {
		return err
	}

	if !entity.InBounds(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfRange, row, col)
	}

	if !that.game.Board.IsEmpty(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	return nil
}

// updateGameStatus - checks the game status after a move. A completed line
// wins even when it fills the board.
func (that *GameController) updateGameStatus(row, col int) {
	mark := that.game.Turn

	if lines := winningLines(&that.game.Board, mark, row, col); len(lines) > 0 {
		for _, line := range lines {
			that.game.Board.MarkWinningLine(line)
		}

		that.game.Status = entity.StatusWon
		that.game.Winner = mark
		that.game.PlayerByMark(mark).Wins++
		return
	}

	if that.game.TurnCount >= entity.CellCount {
		that.game.Status = entity.StatusTied
		return
	}

	that.game.Turn = entity.OppositeMark(mark)
}

// Reset starts a new round. Names and scores are kept.
func (that *GameController) Reset() {
	that.game.Board.Reset()
	that.game.Turn = entity.PlayerX
	that.game.TurnCount = 0
	that.game.Status = entity.StatusOngoing
	that.game.Winner = entity.EmptyCell
}

// SetPlayerNames renames both players. A blank name keeps the current one.
func (that *GameController) SetPlayerNames(nameA, nameB string) {
	for i, name := range [2]string{nameA, nameB} {
		if name = strings.TrimSpace(name); name != "" {
			that.game.Players[i].Name = name
		}
	}
}

// ActivePlayer returns the player to move, or the winner once the game is won.
func (that *GameController) ActivePlayer() entity.Player {
	if player := that.game.PlayerByMark(that.game.Turn); player != nil {
		return *player
	}
	return entity.Player{}
}

func (that *GameController) IsOver() bool {
	return that.game.IsFinished()
}

func (that *GameController) IsWon() bool {
	return that.game.IsWon()
}

func (that *GameController) IsTied() bool {
	return that.game.IsTied()
}

func (that *GameController) State() entity.GameState {
	return that.game.State()
}

func (that *GameController) Snapshot() entity.Board {
	return that.game.Board.Snapshot()
}

func (that *GameController) Scores() entity.Scores {
	return that.game.Scores()
}

func (that *GameController) View() *entity.GameView {
	return entity.NewGameView(that.game)
}
