package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

type handlers struct {
	logger            *slog.Logger
	gamePlay          gamePlayService
	players           playerService
	defaultDifficulty string
}

type createGameRequest struct {
	PlayerID   string `json:"player_id"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty,omitempty"`
}

type moveRequest struct {
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

type playerRequest struct {
	PlayerID string `json:"player_id"`
}

type gameResponse struct {
	Game *entity.Game `json:"game"`
}

type hintResponse struct {
	Move reversi.Move `json:"move"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	player, err := that.players.GetOrCreatePlayer(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, http.StatusInternalServerError, err)
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = that.defaultDifficulty
	}

	game, err := that.gamePlay.GetOrCreateGame(r.Context(), player, req.Type, difficulty)
	if err != nil {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: game})
}

func (that *handlers) gameState(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")

	player, err := that.players.GetPlayerByID(r.Context(), playerID)
	if err != nil {
		that.writeError(w, http.StatusNotFound, err)
		return
	}

	if player.GameID == "" {
		that.writeError(w, http.StatusNotFound, apperror.ErrNoActiveGames)
		return
	}

	game, err := that.gamePlay.GetOrCreateGame(r.Context(), player, "", "")
	if err != nil {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := that.gamePlay.JoinGameByID(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) joinPublicGame(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := that.gamePlay.JoinWaitingPublicGame(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := that.gamePlay.MakeMove(r.Context(), req.PlayerID, reversi.Move{Row: req.Row, Col: req.Col})
	if err != nil && !errors.Is(err, apperror.ErrGameFinished) {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) pass(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := that.gamePlay.Pass(r.Context(), req.PlayerID)
	if err != nil && !errors.Is(err, apperror.ErrGameFinished) {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) resign(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := that.gamePlay.Resign(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) hint(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")

	move, err := that.gamePlay.Hint(r.Context(), playerID)
	if err != nil {
		that.writeError(w, statusFor(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, hintResponse{Move: move})
}

// statusFor maps rule violations to client errors; anything unexpected stays
// a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrPassNotForced),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameIsNotStarted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrNoMoveAvailable),
		errors.Is(err, apperror.ErrGameAlreadyExists),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, status int, err error) {
	that.logger.Error("request failed", "status", status, "error", err)
	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
