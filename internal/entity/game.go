package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusTied    = "tied"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the state of one session: the board, both players and the turn
// bookkeeping. Players[0] always holds PlayerX and moves first.
type Game struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Players   [2]Player `json:"players"`
	Turn      Token     `json:"player_turn"`
	TurnCount int       `json:"turn_count"`
	Status    string    `json:"status"`
	Winner    Token     `json:"winner"`
}

// GameState is the externally visible outcome of a game.
type GameState struct {
	Status string `json:"status"`
	Winner Token  `json:"winner,omitempty"`
}

type Scores struct {
	PlayerA int `json:"player_a"`
	PlayerB int `json:"player_b"`
}

func NewGame(id, nameA, nameB string) *Game {
	return &Game{
		ID: id,
		Players: [2]Player{
			NewPlayer(nameA, PlayerX),
			NewPlayer(nameB, PlayerO),
		},
		Turn:   PlayerX,
		Status: StatusOngoing,
	}
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Game) IsTied() bool {
	return that.Status == StatusTied
}

func (that *Game) IsFinished() bool {
	return that.IsWon() || that.IsTied()
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameStatus, that.Status)
	}
}

// PlayerByMark returns the player holding mark, or nil for an empty mark.
func (that *Game) PlayerByMark(mark Token) *Player {
	for i := range that.Players {
		if that.Players[i].Mark == mark {
			return &that.Players[i]
		}
	}

	return nil
}

func (that *Game) State() GameState {
	return GameState{
		Status: that.Status,
		Winner: that.Winner,
	}
}

func (that *Game) Scores() Scores {
	return Scores{
		PlayerA: that.Players[0].Wins,
		PlayerB: that.Players[1].Wins,
	}
}
