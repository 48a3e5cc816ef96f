package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	player, err := that.players.GetOrCreatePlayer(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.rememberConnection(player.ID, conn)

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.gamePlay.GetOrCreateGame(ctx, player, "", "")
		if err != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return that.sendErrorResponse(conn, msg.Action, "failed to get the game")
		}
		payloadResp.Game = game
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	player, err := that.players.GetOrCreatePlayer(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "failed to get the player")
	}

	that.rememberConnection(player.ID, conn)

	difficulty := payloadReq.Difficulty
	if difficulty == "" {
		difficulty = that.defaultDifficulty
	}

	game, err := that.gamePlay.GetOrCreateGame(ctx, player, payloadReq.Type, difficulty)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a game")
	}

	return that.sendMessage(conn, msg.Action, Payload{Player: player, Game: game})
}

func (that *Server) handleJoinGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleJoinGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	that.rememberConnection(payloadReq.Player.ID, conn)

	var (
		game *entity.Game
		err  error
	)
	if payloadReq.Game != nil && payloadReq.Game.ID != "" {
		game, err = that.gamePlay.JoinGameByID(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	} else {
		game, err = that.gamePlay.JoinWaitingPublicGame(ctx, payloadReq.Player.ID)
	}
	if err != nil {
		log.Error("failed to join game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to join the game")
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Move == nil {
		log.Error("Player or Move is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player and Move are required")
	}

	game, err := that.gamePlay.MakeMove(ctx, payloadReq.Player.ID, *payloadReq.Move)
	if err != nil {
		log.Error("failed to make move", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

func (that *Server) handleGamePass(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleGamePass")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	game, err := that.gamePlay.Pass(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to pass", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

func (that *Server) handleGameHint(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleGameHint")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	move, err := that.gamePlay.Hint(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to compute hint", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return that.sendMessage(conn, msg.Action, Payload{Move: &move})
}

func (that *Server) handleGameLeave(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleGameLeave")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	game, err := that.gamePlay.Resign(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to resign", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	that.broadcastGame(msg.Action, game)
	that.forgetConnection(payloadReq.Player.ID)

	return nil
}
