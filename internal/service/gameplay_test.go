package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/repository"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryGameRepo and memoryPlayerRepo keep everything in maps so gameplay
// scenarios run without redis.
type memoryGameRepo struct {
	games map[string]*entity.Game
}

func newMemoryGameRepo() *memoryGameRepo {
	return &memoryGameRepo{games: make(map[string]*entity.Game)}
}

func (that *memoryGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.games[game.ID] = game
	return nil
}

func (that *memoryGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games[id]
	if !ok {
		return &entity.Game{}, repository.ErrGameNotFound
	}
	return game, nil
}

func (that *memoryGameRepo) GetWaitingPublicGame(_ context.Context) (*entity.Game, error) {
	for _, game := range that.games {
		if game.IsPublic() && game.IsWaiting() {
			return game, nil
		}
	}
	return &entity.Game{}, repository.ErrGameNotFound
}

func (that *memoryGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.games, id)
	return nil
}

type memoryPlayerRepo struct {
	players map[string]*entity.Player
}

func newMemoryPlayerRepo() *memoryPlayerRepo {
	return &memoryPlayerRepo{players: make(map[string]*entity.Player)}
}

func (that *memoryPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.players[player.ID] = player
	return nil
}

func (that *memoryPlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.players[id]
	if !ok {
		return &entity.Player{}, repository.ErrPlayerNotFound
	}
	return player, nil
}

type memoryArchive struct {
	saved []*entity.Game
}

func (that *memoryArchive) Save(_ context.Context, game *entity.Game) error {
	that.saved = append(that.saved, game)
	return nil
}

func newTestGamePlay(t *testing.T) (GamePlayService, PlayerService, *memoryArchive) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	playerService := NewPlayerService(newMemoryPlayerRepo())
	gameService := NewGameService(newMemoryGameRepo())
	archive := &memoryArchive{}

	return NewGamePlayService(logger, playerService, gameService, NewBotService(), archive), playerService, archive
}

func TestGamePlay_BotGame(t *testing.T) {
	t.Run("Creating a bot room starts it immediately", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		// Given: a fresh player
		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)

		// When: creating a bot room at Novice
		game, err := gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyNovice)

		// Then: the room is ongoing, the human plays Black, the bot White
		require.NoError(t, err)
		assert.True(t, game.IsOngoing())
		assert.Equal(t, reversi.PlayerBlack, player.Color)
		require.NotNil(t, game.BotPlayer())
		assert.Equal(t, reversi.PlayerWhite, game.BotPlayer().Color)
	})

	t.Run("A human move triggers the bot reply", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		_, err = gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyNovice)
		require.NoError(t, err)

		// When: the human opens with a legal move
		game, err := gamePlay.MakeMove(ctx, "p1", reversi.Move{Row: 2, Col: 3})

		// Then: the bot has already answered and it is the human's turn again
		require.NoError(t, err)
		assert.Equal(t, reversi.PlayerBlack, game.State.Turn)
		assert.Equal(t, 6, game.State.BlackCount+game.State.WhiteCount)
	})

	t.Run("An illegal move is rejected and changes nothing", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		_, err = gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyBeginner)
		require.NoError(t, err)

		// When: the human plays a corner with nothing to flip
		game, err := gamePlay.MakeMove(ctx, "p1", reversi.Move{Row: 0, Col: 0})

		// Then: ErrInvalidMove, board untouched, still the human's turn
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, 4, game.State.BlackCount+game.State.WhiteCount)
		assert.Equal(t, reversi.PlayerBlack, game.State.Turn)
	})

	t.Run("Pass while a move exists is rejected", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		_, err = gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyBeginner)
		require.NoError(t, err)

		// When: the human passes from the opening
		_, err = gamePlay.Pass(ctx, "p1")

		// Then: ErrPassNotForced
		assert.ErrorIs(t, err, apperror.ErrPassNotForced)
	})

	t.Run("Resigning archives the game and frees the room", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, archive := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		created, err := gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyBeginner)
		require.NoError(t, err)

		// When: the human resigns
		game, err := gamePlay.Resign(ctx, "p1")

		// Then: the bot wins, one archive row exists, the player is detached
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, reversi.PlayerWhite, game.State.Winner)
		require.Len(t, archive.saved, 1)
		assert.Equal(t, created.ID, archive.saved[0].ID)

		detached, err := playerService.GetPlayerByID(ctx, "p1")
		require.NoError(t, err)
		assert.Empty(t, detached.GameID)
	})
}

func TestGamePlay_Hint(t *testing.T) {
	t.Run("Hint returns a legal move without touching the board", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		game, err := gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyExpert)
		require.NoError(t, err)

		// When: asking for a hint twice
		first, err := gamePlay.Hint(ctx, "p1")
		require.NoError(t, err)
		second, err := gamePlay.Hint(ctx, "p1")
		require.NoError(t, err)

		// Then: both hints are the same legal move and nothing changed
		assert.Equal(t, first, second)
		assert.Contains(t, reversi.ValidMoves(game.State, reversi.PlayerBlack), first)
		assert.Equal(t, 4, game.State.BlackCount+game.State.WhiteCount)
	})

	t.Run("Hint out of turn is rejected", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		// Given: a private room where only White's opponent may move
		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		_, err = gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType, "")
		require.NoError(t, err)

		second, err := playerService.GetOrCreatePlayer(ctx, "p2")
		require.NoError(t, err)
		_, err = gamePlay.JoinGameByID(ctx, player.GameID, second.ID)
		require.NoError(t, err)

		// When: White asks for a hint while Black is to move
		_, err = gamePlay.Hint(ctx, "p2")

		// Then: ErrNotYourTurn
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}

func TestGamePlay_Join(t *testing.T) {
	t.Run("Second player joins a private room and play starts", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		created, err := gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType, "")
		require.NoError(t, err)
		assert.True(t, created.IsWaiting())

		second, err := playerService.GetOrCreatePlayer(ctx, "p2")
		require.NoError(t, err)

		// When: the second player joins
		game, err := gamePlay.JoinGameByID(ctx, created.ID, second.ID)

		// Then: the room is ongoing with two players
		require.NoError(t, err)
		assert.True(t, game.IsOngoing())
		assert.Len(t, game.Players, 2)
		assert.Equal(t, reversi.PlayerWhite, second.Color)
	})

	t.Run("A full room rejects a third player", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		created, err := gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType, "")
		require.NoError(t, err)

		second, err := playerService.GetOrCreatePlayer(ctx, "p2")
		require.NoError(t, err)
		_, err = gamePlay.JoinGameByID(ctx, created.ID, second.ID)
		require.NoError(t, err)

		third, err := playerService.GetOrCreatePlayer(ctx, "p3")
		require.NoError(t, err)

		// When: a third player tries to join
		_, err = gamePlay.JoinGameByID(ctx, created.ID, third.ID)

		// Then: ErrGameAlreadyExists
		assert.ErrorIs(t, err, apperror.ErrGameAlreadyExists)
	})

	t.Run("Waiting public room is found by matchmaking", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, _ := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		created, err := gamePlay.GetOrCreateGame(ctx, player, entity.PublicType, "")
		require.NoError(t, err)

		second, err := playerService.GetOrCreatePlayer(ctx, "p2")
		require.NoError(t, err)

		// When: the second player asks for any public game
		game, err := gamePlay.JoinWaitingPublicGame(ctx, second.ID)

		// Then: they land in the waiting room
		require.NoError(t, err)
		assert.Equal(t, created.ID, game.ID)
		assert.True(t, game.IsOngoing())
	})
}

func TestGamePlay_FullBotGame(t *testing.T) {
	t.Run("A whole game against the bot reaches a result", func(t *testing.T) {
		ctx := context.Background()
		gamePlay, playerService, archive := newTestGamePlay(t)

		player, err := playerService.GetOrCreatePlayer(ctx, "p1")
		require.NoError(t, err)
		_, err = gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, reversi.DifficultyNovice)
		require.NoError(t, err)

		// When: the human greedily plays first-valid until the game ends
		for turns := 0; turns < 70; turns++ {
			current, err := playerService.GetPlayerByID(ctx, "p1")
			require.NoError(t, err)
			if current.GameID == "" {
				break
			}

			game, err := gamePlay.GetOrCreateGame(ctx, current, entity.WithBotType, reversi.DifficultyNovice)
			require.NoError(t, err)
			if game.IsFinished() {
				break
			}

			moves := reversi.ValidMoves(game.State, current.Color)
			if len(moves) == 0 {
				_, err = gamePlay.Pass(ctx, "p1")
			} else {
				_, err = gamePlay.MakeMove(ctx, "p1", moves[0])
			}
			require.NoError(t, err)
		}

		// Then: the game finished and was archived with a verdict
		require.Len(t, archive.saved, 1)
		finished := archive.saved[0]
		assert.True(t, finished.IsFinished())
		assert.Contains(t, []string{reversi.PlayerBlack, reversi.PlayerWhite, reversi.PlayerTie}, finished.State.Winner)
	})
}
