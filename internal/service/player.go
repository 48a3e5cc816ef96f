package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/repository"
)

type PlayerService interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
	UpdatePlayer(ctx context.Context, player *entity.Player) error
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerService struct {
	playerRepo playerRepo
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

func (that *playerService) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	existingPlayer, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		player := &entity.Player{ID: id}
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return existingPlayer, nil
}

func (that *playerService) GetPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	existingPlayer, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return existingPlayer, nil
}

func (that *playerService) UpdatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
