package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

type gamePlayService interface {
	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType, difficulty string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error)

	MakeMove(ctx context.Context, playerID string, move reversi.Move) (*entity.Game, error)
	Pass(ctx context.Context, playerID string) (*entity.Game, error)
	Resign(ctx context.Context, playerID string) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (reversi.Move, error)
}

type playerService interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

func Start(logger *slog.Logger, gamePlay gamePlayService, players playerService, port, defaultDifficulty string) error {
	h := &handlers{
		logger:            logger.With("component", "rest"),
		gamePlay:          gamePlay,
		players:           players,
		defaultDifficulty: defaultDifficulty,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", h.ping)
	mux.HandleFunc("POST /games", h.createGame)
	mux.HandleFunc("GET /games/{id}", h.gameState)
	mux.HandleFunc("POST /games/{id}/join", h.joinGame)
	mux.HandleFunc("POST /games/join-public", h.joinPublicGame)
	mux.HandleFunc("POST /games/{id}/move", h.makeMove)
	mux.HandleFunc("POST /games/{id}/pass", h.pass)
	mux.HandleFunc("POST /games/{id}/resign", h.resign)
	mux.HandleFunc("GET /games/{id}/hint", h.hint)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
