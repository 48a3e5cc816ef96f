package service

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn plays the bot's move on the embedded board, or passes when the
// board says the bot has nothing.
func (that *botService) MakeTurn(game *entity.Game) error {
	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	state := game.State

	if !reversi.HasAnyMove(state, botPlayer.Color) {
		next, err := reversi.Pass(state, botPlayer.Color)
		if err != nil {
			return fmt.Errorf("bot failed to pass: %w", err)
		}
		game.State = next
		game.SyncStatus()
		return nil
	}

	move, err := reversi.SelectMove(state, botPlayer.Color, game.Difficulty, moveSeed(game))
	if err != nil {
		return fmt.Errorf("bot failed to select move: %w", err)
	}

	next, err := reversi.Apply(state, botPlayer.Color, move)
	if err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	game.State = next
	game.SyncStatus()

	return nil
}

// moveSeed derives a reproducible seed from the room id and the move number,
// so replaying the same game produces the same bot play.
func moveSeed(game *entity.Game) int64 {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(game.ID))
	return int64(hash.Sum64()) + int64(game.State.BlackCount+game.State.WhiteCount)
}
