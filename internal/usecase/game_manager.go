package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs rules-engine operations against stored sessions.
// Operations on the same session are serialised.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	defaultNames [2]string

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock is dropped from GameManager.locks once nobody holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, defaultNameA, defaultNameB string) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,

		defaultNames: [2]string{defaultNameA, defaultNameB},
		locks:        make(map[string]*sessionLock),
	}
}

// CreateGame starts a new session. Blank names fall back to the defaults.
func (that *GameManager) CreateGame(ctx context.Context, nameA, nameB string) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), that.defaultNames[0], that.defaultNames[1])
	tictactoe.NewGameController(game).SetPlayerNames(nameA, nameB)

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	metrics.SessionsCreated.Inc()
	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn plays the active player's token at row, col. A rejected move
// returns the unchanged game together with an error wrapping
// apperror.ErrInvalidMove.
func (that *GameManager) MakeTurn(ctx context.Context, id string, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", id)

	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		mark := controller.ActivePlayer().Mark

		if err := controller.PlayMove(row, col); err != nil {
			if reason := apperror.ReasonOf(err); reason != apperror.ReasonNone {
				metrics.Moves.WithLabelValues(string(reason)).Inc()
				log.Debug("move rejected", "row", row, "col", col, "reason", reason)
			}

			return fmt.Errorf("failed to make turn: %w", err)
		}

		metrics.Moves.WithLabelValues(metrics.ResultAccepted).Inc()
		log.Debug("move played", "mark", mark, "row", row, "col", col)

		switch {
		case controller.IsWon():
			metrics.GamesFinished.WithLabelValues(metrics.OutcomeWon).Inc()
			log.Info("game won", "winner", mark, "turn", controller.Game().TurnCount)
		case controller.IsTied():
			metrics.GamesFinished.WithLabelValues(metrics.OutcomeTied).Inc()
			log.Info("game tied")
		}

		return nil
	})
}

// ResetGame starts a new round in the session, keeping names and scores.
func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		controller.Reset()
		return nil
	})
}

func (that *GameManager) RenamePlayers(ctx context.Context, id, nameA, nameB string) (*entity.Game, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		controller.SetPlayerNames(nameA, nameB)
		return nil
	})
}

// EndGame drops the session.
func (that *GameManager) EndGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game ended", "gameID", id)

	return nil
}

// update loads the game, applies fn and saves the result. Nothing is saved
// when fn fails.
func (that *GameManager) update(ctx context.Context, id string, fn func(*tictactoe.GameController) error) (*entity.Game, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = fn(tictactoe.NewGameController(game)); err != nil {
		return game, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		that.logger.Error("failed to save game", "gameID", id, "error", err)
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *GameManager) lock(id string) func() {
	that.locksMu.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &sessionLock{}
		that.locks[id] = entry
	}
	entry.refs++
	that.locksMu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.locksMu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMu.Unlock()
	}
}
