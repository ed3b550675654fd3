package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingCell   = errors.New("row and col are required")
)

func (that *Server) processMessage(ctx context.Context, gameID string, msg *Message) (ResponsePayload, error) {
	handler, ok := that.handlers[msg.Action]
	if !ok {
		return ResponsePayload{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}

	var payload RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return ResponsePayload{}, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return handler(ctx, gameID, &payload)
}

func (that *Server) handleGameState(ctx context.Context, gameID string, _ *RequestPayload) (ResponsePayload, error) {
	game, err := that.uGame.GetGame(ctx, gameID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: entity.NewGameView(game)}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, gameID string, payload *RequestPayload) (ResponsePayload, error) {
	if payload.Row == nil || payload.Col == nil {
		return ResponsePayload{}, ErrMissingCell
	}

	accepted := true

	game, err := that.uGame.MakeTurn(ctx, gameID, *payload.Row, *payload.Col)
	if errors.Is(err, apperror.ErrInvalidMove) {
		accepted = false

		return ResponsePayload{
			Game:     entity.NewGameView(game),
			Accepted: &accepted,
			Reason:   apperror.ReasonOf(err),
		}, nil
	}

	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{
		Game:     entity.NewGameView(game),
		Accepted: &accepted,
	}, nil
}

func (that *Server) handleGameReset(ctx context.Context, gameID string, _ *RequestPayload) (ResponsePayload, error) {
	game, err := that.uGame.ResetGame(ctx, gameID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: entity.NewGameView(game)}, nil
}

func (that *Server) handleGameNames(ctx context.Context, gameID string, payload *RequestPayload) (ResponsePayload, error) {
	game, err := that.uGame.RenamePlayers(ctx, gameID, payload.PlayerA, payload.PlayerB)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: entity.NewGameView(game)}, nil
}
