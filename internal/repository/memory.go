package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

// memGame keeps game snapshots in process memory. Values are copied on the
// way in and out.
type memGame struct {
	mu    sync.RWMutex
	games map[string]entity.Game
}

func NewMemoryGameRepository() GameRepository {
	return &memGame{
		games: make(map[string]entity.Game),
	}
}

func (that *memGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *memGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return &entity.Game{}, ErrGameNotFound
	}

	return &game, nil
}

func (that *memGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

type memPlayer struct {
	mu      sync.RWMutex
	players map[string]entity.Player
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memPlayer{
		players: make(map[string]entity.Player),
	}
}

func (that *memPlayer) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.Name] = *player

	return nil
}

func (that *memPlayer) GetByName(_ context.Context, name string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[name]
	if !ok {
		return &entity.Player{}, ErrPlayerNotFound
	}

	return &player, nil
}

func (that *memPlayer) DeleteByName(_ context.Context, name string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.players[name]; !ok {
		return ErrPlayerNotFound
	}

	delete(that.players, name)

	return nil
}
