package repository

import (
	"testing"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
	"github.com/rocketscienceinc/reversi-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a waiting room with the opening position
	game := entity.NewGame("123", entity.PrivateType, reversi.DifficultyNovice)

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored room
		game := entity.NewGame("123", entity.WithBotType, reversi.DifficultyMaster)
		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved room matches, board state included
		require.NoError(t, err)
		require.Equal(t, game.ID, retrievedGame.ID)
		require.Equal(t, game.Status, retrievedGame.Status)
		require.Equal(t, game.Difficulty, retrievedGame.Difficulty)
		require.Equal(t, game.State, retrievedGame.State)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGameNotFound)
		assert.Empty(t, retrievedGame.ID)
	})
}

func TestGameRepository_WaitingPublicGame(t *testing.T) {
	t.Run("Waiting public room is advertised", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a waiting public room
		game := entity.NewGame("pub-1", entity.PublicType, "")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: matchmaking looks for a waiting public game
		found, err := gameRepo.GetWaitingPublicGame(ctx)

		// Then: the room is found
		require.NoError(t, err)
		assert.Equal(t, game.ID, found.ID)
	})

	t.Run("Started room stops being advertised", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a public room that has since started
		game := entity.NewGame("pub-2", entity.PublicType, "")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		game.Status = entity.StatusOngoing
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: matchmaking looks again
		_, err := gameRepo.GetWaitingPublicGame(ctx)

		// Then: nothing is waiting
		assert.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a stored room
	game := entity.NewGame("123", entity.PrivateType, "")
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

	// When: DeleteByID is called
	err := gameRepo.DeleteByID(ctx, game.ID)

	// Then: the room is gone
	require.NoError(t, err)
	_, err = gameRepo.GetByID(ctx, game.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
}
