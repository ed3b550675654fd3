package apperror

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

var (
	ErrOutOfRange   = fmt.Errorf("%w: cell is out of range", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrInvalidMove)
)

// InvalidMoveReason tells the presentation layer why a move was rejected.
type InvalidMoveReason string

const (
	ReasonNone         InvalidMoveReason = ""
	ReasonOutOfRange   InvalidMoveReason = "out_of_range"
	ReasonCellOccupied InvalidMoveReason = "cell_occupied"
	ReasonGameOver     InvalidMoveReason = "game_over"
)

// ReasonOf maps err to the rejection reason, or ReasonNone when err is not an
// invalid move.
func ReasonOf(err error) InvalidMoveReason {
	switch {
	case errors.Is(err, ErrOutOfRange):
		return ReasonOutOfRange
	case errors.Is(err, ErrCellOccupied):
		return ReasonCellOccupied
	case errors.Is(err, ErrGameFinished):
		return ReasonGameOver
	default:
		return ReasonNone
	}
}
