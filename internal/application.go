package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-core/transport/rest"
	"github.com/rocketscienceinc/tictactoe-core/transport/websocket"
)

var (
	ErrAddrNotFound         = errors.New("redis host is empty")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, closeRepo, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	log.Info("Game storage ready", "driver", conf.Storage.Driver, "ttl", conf.Storage.SessionTTL)

	gameUseCase := usecase.NewGameManager(logger, gameRepo, conf.Players.PlayerA, conf.Players.PlayerB)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameUseCase)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.StorageMemory, "":
		return repository.NewMemoryGameRepository(conf.Storage.SessionTTL), func() error { return nil }, nil
	case config.StorageRedis:
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(redisStorage.Connection, conf.Storage.SessionTTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, conf.Storage.Driver)
	}
}
