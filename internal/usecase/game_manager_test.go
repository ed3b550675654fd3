package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/testing/suite"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newMockGameRepo(t *testing.T) *mockGameRepo {
	t.Helper()

	repo := &mockGameRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	return repo
}

func newManager(repo gameRepo) *GameManager {
	return NewGameManager(suite.NewLogger(), repo, entity.DefaultPlayerAName, entity.DefaultPlayerBName)
}

func TestGameManager_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores a new game", func(t *testing.T) {
		// Given: a repository accepting writes
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		mockRepo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
			return game.ID != "" && game.IsOngoing() && game.Players[0].Name == "Alice"
		})).Return(nil).Once()

		// When: creating a game with only the first name
		game, err := manager.CreateGame(ctx, "Alice", "")

		// Then: the game is fresh and the second player keeps the default name
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, "Alice", game.Players[0].Name)
		assert.Equal(t, entity.DefaultPlayerBName, game.Players[1].Name)
		assert.Equal(t, entity.PlayerX, game.Turn)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		// Given: a repository that fails on write
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		mockRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		// When: creating a game
		game, err := manager.CreateGame(ctx, "", "")

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted move is saved", func(t *testing.T) {
		// Given: a stored game
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		stored := entity.NewGame("g1", "Alice", "Bob")
		mockRepo.On("GetByID", mock.Anything, "g1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, stored).Return(nil).Once()

		accepted := testutil.ToFloat64(metrics.Moves.WithLabelValues(metrics.ResultAccepted))

		// When: X plays the centre
		game, err := manager.MakeTurn(ctx, "g1", 1, 1)

		// Then: the move is applied and counted
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board.Token(1, 1))
		assert.Equal(t, entity.PlayerO, game.Turn)
		assert.Equal(t, accepted+1, testutil.ToFloat64(metrics.Moves.WithLabelValues(metrics.ResultAccepted)))
	})

	t.Run("Rejected move is not saved", func(t *testing.T) {
		// Given: a stored game where (0,0) is taken
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		stored := entity.NewGame("g1", "Alice", "Bob")
		stored.Board.PlaceToken(entity.PlayerX, 0, 0)
		stored.TurnCount = 1
		stored.Turn = entity.PlayerO
		mockRepo.On("GetByID", mock.Anything, "g1").Return(stored, nil).Once()

		occupied := testutil.ToFloat64(metrics.Moves.WithLabelValues(string(apperror.ReasonCellOccupied)))

		// When: O plays the same cell
		game, err := manager.MakeTurn(ctx, "g1", 0, 0)

		// Then: the move is rejected with a reason and the repository is not written
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, apperror.ReasonCellOccupied, apperror.ReasonOf(err))
		require.NotNil(t, game)
		assert.Equal(t, 1, game.TurnCount)
		mockRepo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
		assert.Equal(t, occupied+1, testutil.ToFloat64(metrics.Moves.WithLabelValues(string(apperror.ReasonCellOccupied))))
	})

	t.Run("Winning move counts a finished game", func(t *testing.T) {
		// Given: X is one move from completing the top row
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		stored := entity.NewGame("g1", "Alice", "Bob")
		stored.Board.PlaceToken(entity.PlayerX, 0, 0)
		stored.Board.PlaceToken(entity.PlayerO, 1, 0)
		stored.Board.PlaceToken(entity.PlayerX, 0, 1)
		stored.Board.PlaceToken(entity.PlayerO, 1, 1)
		stored.TurnCount = 4
		mockRepo.On("GetByID", mock.Anything, "g1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, stored).Return(nil).Once()

		won := testutil.ToFloat64(metrics.GamesFinished.WithLabelValues(metrics.OutcomeWon))

		// When: X completes the row
		game, err := manager.MakeTurn(ctx, "g1", 0, 2)

		// Then: X wins and the outcome is counted
		require.NoError(t, err)
		assert.Equal(t, entity.GameState{Status: entity.StatusWon, Winner: entity.PlayerX}, game.State())
		assert.Equal(t, 1, game.Players[0].Wins)
		assert.Equal(t, won+1, testutil.ToFloat64(metrics.GamesFinished.WithLabelValues(metrics.OutcomeWon)))
	})

	t.Run("Unknown game", func(t *testing.T) {
		// Given: a repository without the game
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrGameNotFound).Once()

		// When: playing a move
		game, err := manager.MakeTurn(ctx, "missing", 0, 0)

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, repository.ErrGameNotFound)
		assert.Nil(t, game)
	})

	t.Run("Save failure", func(t *testing.T) {
		// Given: a repository that fails on write
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		stored := entity.NewGame("g1", "Alice", "Bob")
		mockRepo.On("GetByID", mock.Anything, "g1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, stored).Return(errRedisDown).Once()

		// When: playing a move
		game, err := manager.MakeTurn(ctx, "g1", 0, 0)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})
}

func TestGameManager_ResetGame(t *testing.T) {
	ctx := context.Background()

	// Given: a finished game where O has two wins
	mockRepo := newMockGameRepo(t)
	manager := newManager(mockRepo)

	stored := entity.NewGame("g1", "Alice", "Bob")
	stored.Board.PlaceToken(entity.PlayerX, 2, 2)
	stored.TurnCount = 1
	stored.Status = entity.StatusTied
	stored.Players[1].Wins = 2
	mockRepo.On("GetByID", mock.Anything, "g1").Return(stored, nil).Once()
	mockRepo.On("CreateOrUpdate", mock.Anything, stored).Return(nil).Once()

	// When: the game is reset
	game, err := manager.ResetGame(ctx, "g1")

	// Then: the round restarts and the score is kept
	require.NoError(t, err)
	assert.True(t, game.IsOngoing())
	assert.Equal(t, 0, game.TurnCount)
	assert.Equal(t, entity.Board{}, game.Board)
	assert.Equal(t, entity.Scores{PlayerA: 0, PlayerB: 2}, game.Scores())
}

func TestGameManager_RenamePlayers(t *testing.T) {
	ctx := context.Background()

	// Given: a stored game
	mockRepo := newMockGameRepo(t)
	manager := newManager(mockRepo)

	stored := entity.NewGame("g1", "Alice", "Bob")
	mockRepo.On("GetByID", mock.Anything, "g1").Return(stored, nil).Once()
	mockRepo.On("CreateOrUpdate", mock.Anything, stored).Return(nil).Once()

	// When: the players are renamed
	game, err := manager.RenamePlayers(ctx, "g1", "Carol", "Dave")

	// Then: the names are saved
	require.NoError(t, err)
	assert.Equal(t, "Carol", game.Players[0].Name)
	assert.Equal(t, "Dave", game.Players[1].Name)
}

func TestGameManager_EndGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the game", func(t *testing.T) {
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		mockRepo.On("DeleteByID", mock.Anything, "g1").Return(nil).Once()

		require.NoError(t, manager.EndGame(ctx, "g1"))
	})

	t.Run("Unknown game", func(t *testing.T) {
		mockRepo := newMockGameRepo(t)
		manager := newManager(mockRepo)

		mockRepo.On("DeleteByID", mock.Anything, "g1").Return(repository.ErrGameNotFound).Once()

		require.ErrorIs(t, manager.EndGame(ctx, "g1"), repository.ErrGameNotFound)
	})
}

func TestGameManager_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()

	// Given: a game in an in-memory repository
	manager := newManager(repository.NewMemoryGameRepository(0))
	game, err := manager.CreateGame(ctx, "", "")
	require.NoError(t, err)

	// When: every cell is played at the same time
	var wg sync.WaitGroup
	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = manager.MakeTurn(ctx, game.ID, row, col)
			}()
		}
	}
	wg.Wait()

	// Then: no move was lost and the game reached an end state
	final, err := manager.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, final.Board.Filled(), final.TurnCount)
	assert.True(t, final.IsFinished())
}

func (that *GameManager) lockCount() int {
	that.locksMu.Lock()
	defer that.locksMu.Unlock()

	return len(that.locks)
}

func TestGameManager_LocksReleased(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown sessions", func(t *testing.T) {
		// Given: a manager with no sessions
		manager := newManager(repository.NewMemoryGameRepository(0))

		// When: moves are sent to many unknown sessions
		for i := range 1000 {
			_, err := manager.MakeTurn(ctx, fmt.Sprintf("missing-%d", i), 0, 0)
			require.ErrorIs(t, err, repository.ErrGameNotFound)
		}

		// Then: no lock entry is left behind
		assert.Zero(t, manager.lockCount())
	})

	t.Run("Concurrent moves on a live session", func(t *testing.T) {
		manager := newManager(repository.NewMemoryGameRepository(0))
		game, err := manager.CreateGame(ctx, "", "")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = manager.MakeTurn(ctx, game.ID, i%entity.BoardSize, (i/entity.BoardSize)%entity.BoardSize)
				_, _ = manager.ResetGame(ctx, game.ID)
			}()
		}
		wg.Wait()

		assert.Zero(t, manager.lockCount())
	})

	t.Run("Ended session", func(t *testing.T) {
		manager := newManager(repository.NewMemoryGameRepository(0))
		game, err := manager.CreateGame(ctx, "", "")
		require.NoError(t, err)

		require.NoError(t, manager.EndGame(ctx, game.ID))
		_, err = manager.MakeTurn(ctx, game.ID, 0, 0)

		require.ErrorIs(t, err, repository.ErrGameNotFound)
		assert.Zero(t, manager.lockCount())
	})
}
