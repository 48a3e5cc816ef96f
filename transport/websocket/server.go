package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
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
}

type Server struct {
	logger            *slog.Logger
	gamePlay          gamePlayService
	players           playerService
	defaultDifficulty string

	upgrader websocket.Upgrader

	connectionsMutex sync.Mutex
	connections      map[string]*websocket.Conn

	handlers map[string]func(ctx context.Context, conn *websocket.Conn, msg *Message) error
}

func New(logger *slog.Logger, gamePlay gamePlayService, players playerService, defaultDifficulty string) *Server {
	server := &Server{
		logger:            logger.With("component", "websocket"),
		gamePlay:          gamePlay,
		players:           players,
		defaultDifficulty: defaultDifficulty,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		connections: make(map[string]*websocket.Conn),
		handlers:    make(map[string]func(context.Context, *websocket.Conn, *Message) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:join"] = server.handleJoinGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:pass"] = server.handleGamePass
	server.handlers["game:hint"] = server.handleGameHint
	server.handlers["game:leave"] = server.handleGameLeave

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the connection and pumps messages until the
// client goes away.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err := that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action, message string) error {
	return that.sendMessage(conn, action, Payload{Error: message})
}

// rememberConnection tracks the connection per player so game updates can be
// pushed to the opponent.
func (that *Server) rememberConnection(playerID string, conn *websocket.Conn) {
	that.connectionsMutex.Lock()
	that.connections[playerID] = conn
	that.connectionsMutex.Unlock()
}

func (that *Server) forgetConnection(playerID string) {
	that.connectionsMutex.Lock()
	delete(that.connections, playerID)
	that.connectionsMutex.Unlock()
}

// broadcastGame pushes the room state to every human player in it.
func (that *Server) broadcastGame(action string, game *entity.Game) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connections[player.ID]
		if !ok {
			continue
		}

		raw, err := json.Marshal(Payload{Player: player, Game: game})
		if err != nil {
			continue
		}

		if err = conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
			that.logger.Error("failed to push game update", "playerID", player.ID, "error", err)
		}
	}
}
