package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type memoryEntry struct {
	game      entity.Game
	expiresAt time.Time
}

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryGameRepository keeps games in process memory. Entries older than
// ttl are treated as missing; zero keeps them until deleted.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	entry := memoryEntry{game: *game}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = entry
	that.purgeExpired()

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	entry, ok := that.games[id]
	that.mu.RUnlock()

	if !ok || that.expired(entry) {
		return nil, ErrGameNotFound
	}

	game := entry.game
	return &game, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[id]
	if !ok || that.expired(entry) {
		delete(that.games, id)
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

func (that *memoryGame) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt)
}

// purgeExpired must be called with mu held.
func (that *memoryGame) purgeExpired() {
	for id, entry := range that.games {
		if that.expired(entry) {
			delete(that.games, id)
		}
	}
}
