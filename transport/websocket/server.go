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

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/pkg"
)

type roomManager interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Game, error)
	JoinRoom(ctx context.Context, roomID, playerID string) (*entity.Game, error)
	MakeMove(ctx context.Context, roomID, playerID string, boardIndex, row, col int) (*entity.Game, error)
	RestartGame(ctx context.Context, roomID string) (*entity.Game, error)
	RemoveConnection(ctx context.Context, roomID, playerID string) (*entity.Game, error)
}

// client is one WebSocket connection with its assigned identity and, once
// seated, its room. writeMu keeps broadcast frames from interleaving.
type client struct {
	conn     *websocket.Conn
	playerID string
	roomID   string

	writeMu sync.Mutex
}

type Server struct {
	logger *slog.Logger
	rooms  roomManager

	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, conn *client, message *Message) error

	connections      map[string]*client
	connectionsMutex sync.RWMutex
}

func New(logger *slog.Logger, rooms roomManager) *Server {
	server := &Server{
		logger: logger,
		rooms:  rooms,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},

		handlers:    make(map[string]func(context.Context, *client, *Message) error),
		connections: make(map[string]*client),
	}

	server.handlers["room:new"] = server.handleNewRoom
	server.handlers["room:join"] = server.handleJoinRoom
	server.handlers["game:move"] = server.handleGameMove
	server.handlers["game:restart"] = server.handleGameRestart

	return server
}

// Start - starts the WebSocket server and blocks until it fails or the
// context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the connection, assigns it an identity and runs
// its read loop until the peer goes away.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connClient := &client{
		conn:     conn,
		playerID: pkg.GenerateNewSessionID(),
	}

	that.connectionsMutex.Lock()
	that.connections[connClient.playerID] = connClient
	that.connectionsMutex.Unlock()

	log = log.With("playerID", connClient.playerID)
	log.Info("WebSocket connection established")

	if err = that.sendMessage(connClient, "connect", Payload{Player: &entity.Player{ID: connClient.playerID}}); err != nil {
		log.Error("failed to send connect message", "error", err)
	}

	that.readLoop(ctx, connClient)

	that.handleDisconnect(ctx, connClient)
}

// readLoop processes inbound messages one at a time, so events from a
// single connection are applied in the order they arrived.
func (that *Server) readLoop(ctx context.Context, connClient *client) {
	log := that.logger.With("method", "readLoop", "playerID", connClient.playerID)

	for {
		_, data, err := connClient.conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, connClient, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendMessage(connClient *client, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadBytes,
	}

	connClient.writeMu.Lock()
	defer connClient.writeMu.Unlock()

	if err = connClient.conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(connClient *client, action, errorMsg string) error {
	if err := that.sendMessage(connClient, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func (that *Server) clientByPlayerID(playerID string) (*client, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	connClient, ok := that.connections[playerID]

	return connClient, ok
}
