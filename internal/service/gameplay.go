package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

type GamePlayService interface {
	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType, difficulty string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)

	MakeMove(ctx context.Context, playerID string, move reversi.Move) (*entity.Game, error)
	Pass(ctx context.Context, playerID string) (*entity.Game, error)
	Resign(ctx context.Context, playerID string) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (reversi.Move, error)
}

type archiveRepo interface {
	Save(ctx context.Context, game *entity.Game) error
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService
	archiveRepo   archiveRepo

	locks *roomLocker
}

func NewGamePlayService(logger *slog.Logger, playerService PlayerService, gameService GameService, botService BotService, archiveRepo archiveRepo) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
		archiveRepo:   archiveRepo,
		locks:         newRoomLocker(),
	}
}

// MakeMove applies one human move and, in a bot room, lets the bot reply.
// All mutation of a room happens under its lock.
func (that *gamePlayService) MakeMove(ctx context.Context, playerID string, move reversi.Move) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	lock := that.locks.Get(player.GameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	next, err := reversi.Apply(game.State, player.Color, move)
	if err != nil {
		return game, fmt.Errorf("failed to make move: %w", err)
	}
	game.State = next
	game.SyncStatus()

	if err = that.letBotReply(game); err != nil {
		return nil, err
	}

	return that.settle(ctx, game)
}

// Pass skips the caller's turn; the engine rejects it unless it is forced.
func (that *gamePlayService) Pass(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	lock := that.locks.Get(player.GameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	next, err := reversi.Pass(game.State, player.Color)
	if err != nil {
		return game, fmt.Errorf("failed to pass: %w", err)
	}
	game.State = next
	game.SyncStatus()

	if err = that.letBotReply(game); err != nil {
		return nil, err
	}

	return that.settle(ctx, game)
}

// Resign ends the game in the opponent's favor.
func (that *gamePlayService) Resign(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	lock := that.locks.Get(player.GameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	game.State = reversi.Resign(game.State, player.Color)
	game.SyncStatus()

	return that.settle(ctx, game)
}

// Hint asks the move selector for the caller's best move without committing
// anything. It never mutates the room.
func (that *gamePlayService) Hint(ctx context.Context, playerID string) (reversi.Move, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return reversi.Move{}, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return reversi.Move{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return reversi.Move{}, err
	}

	if game.State.Turn != player.Color {
		return reversi.Move{}, apperror.ErrNotYourTurn
	}

	difficulty := game.Difficulty
	if difficulty == "" {
		difficulty = reversi.DifficultyExpert
	}

	move, err := reversi.SelectMove(game.State, player.Color, difficulty, moveSeed(game))
	if err != nil {
		return reversi.Move{}, fmt.Errorf("failed to select hint: %w", err)
	}

	return move, nil
}

// letBotReply keeps the bot playing while it is the bot's turn: a move when
// one exists, a pass when the engine flagged one.
func (that *gamePlayService) letBotReply(game *entity.Game) error {
	if !game.IsWithBot() {
		return nil
	}

	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	for game.IsOngoing() && game.State.Turn == botPlayer.Color {
		if err := that.botService.MakeTurn(game); err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	return nil
}

// settle persists the room, archiving and removing it when it just finished.
func (that *gamePlayService) settle(ctx context.Context, game *entity.Game) (*entity.Game, error) {
	if err := that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		that.CleanupGame(ctx, game)
	}

	return game, nil
}

func (that *gamePlayService) GetOrCreateGame(ctx context.Context, player *entity.Player, gameType, difficulty string) (*entity.Game, error) {
	if player.GameID == "" {
		game, err := that.createGame(ctx, player, gameType, difficulty)
		if err != nil {
			return nil, fmt.Errorf("failed to create new game: %w", err)
		}

		return game, nil
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) createGame(ctx context.Context, player *entity.Player, gameType, difficulty string) (*entity.Game, error) {
	game, err := that.gameService.CreateGame(ctx, player, gameType, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if game.IsWithBot() {
		botPlayer := entity.NewBotPlayer(game.ID)
		botPlayer.Color = reversi.PlayerWhite

		game.Status = entity.StatusOngoing
		game.Players = append(game.Players, botPlayer)
		if err = that.gameService.UpdateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	return game, nil
}

func (that *gamePlayService) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return that.joinGame(ctx, game, playerID)
}

func (that *gamePlayService) JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gameService.GetWaitingPublicGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get waiting public game: %w", err)
	}

	return that.joinGame(ctx, game, playerID)
}

func (that *gamePlayService) joinGame(ctx context.Context, game *entity.Game, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	player.GameID = game.ID
	player.Color = reversi.PlayerWhite
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// CleanupGame archives a finished room and releases everything attached to
// it. Failures are logged, never surfaced: the game result already reached
// the players.
func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("component", "gameplay", "gameID", game.ID)

	if that.archiveRepo != nil {
		if err := that.archiveRepo.Save(ctx, game); err != nil {
			log.Error("failed to archive finished game", "error", err)
		}
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}
		player.GameID = ""
		player.Color = ""
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to detach player", "playerID", player.ID, "error", err)
		}
	}

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete finished game", "error", err)
	}

	that.locks.Forget(game.ID)
}
