package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

var (
	ErrGameNotFound = errors.New("game not found")

	waitingPublicKey = "game:waiting:public"
)

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetWaitingPublicGame(ctx context.Context) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := "game:" + game.ID
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	// a waiting public room is advertised under a well-known key so
	// matchmaking never has to scan
	if game.IsPublic() && game.IsWaiting() {
		if err = that.client.Set(ctx, waitingPublicKey, game.ID, 0).Err(); err != nil {
			return fmt.Errorf("failed to advertise waiting game: %w", err)
		}
		return nil
	}

	advertised, err := that.client.Get(ctx, waitingPublicKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to check waiting game: %w", err)
	}
	if advertised == game.ID {
		if err = that.client.Del(ctx, waitingPublicKey).Err(); err != nil {
			return fmt.Errorf("failed to drop waiting game: %w", err)
		}
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	gameKey := "game:" + id

	response, err := that.client.Get(ctx, gameKey).Result()
	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}
	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get game: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) GetWaitingPublicGame(ctx context.Context) (*entity.Game, error) {
	id, err := that.client.Get(ctx, waitingPublicKey).Result()
	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}
	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get waiting game: %w", err)
	}

	return that.GetByID(ctx, id)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	gameKey := "game:" + id

	if err := that.client.Del(ctx, gameKey).Err(); err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	advertised, err := that.client.Get(ctx, waitingPublicKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to check waiting game: %w", err)
	}
	if advertised == id {
		if err = that.client.Del(ctx, waitingPublicKey).Err(); err != nil {
			return fmt.Errorf("failed to drop waiting game: %w", err)
		}
	}

	return nil
}
