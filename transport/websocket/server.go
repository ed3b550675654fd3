package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMessageSize  = 1 << 12
	shutdownTimeout = 5 * time.Second
)

type uGame interface {
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, row, col int) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	RenamePlayers(ctx context.Context, id, nameA, nameB string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, gameID string, payload *RequestPayload) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	// pingPeriod must stay below pongWait.
	pongWait   time.Duration
	pingPeriod time.Duration

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		pongWait:   pongWait,
		pingPeriod: pingPeriod,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleGameState
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionReset] = server.handleGameReset
	server.handlers[actionNames] = server.handleGameNames

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket for one session.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("session")
	log := that.logger.With("method", "upgradeToWebSocket", "gameID", gameID)

	if gameID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	if _, err := that.uGame.GetGame(r.Context(), gameID); err != nil {
		log.Info("rejected connection", "error", err)
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(r.Context(), conn, gameID); err != nil {
		log.Error("error handling messages", "error", err)
	}

	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, gameID string) error {
	log := that.logger.With("method", "handleMessages", "gameID", gameID)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(that.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(that.pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go that.keepAlive(conn, done)

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		_ = conn.SetReadDeadline(time.Now().Add(that.pongWait))

		payload, err := that.processMessage(ctx, gameID, &message)
		if err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			payload = ResponsePayload{Error: err.Error()}
		}

		if err = that.sendMessage(conn, message.Action, payload); err != nil {
			return err
		}
	}
}

// keepAlive pings the client every pingPeriod until done is closed. The pongs
// extend the read deadline of an idle connection.
func (that *Server) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(that.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// WriteControl may run concurrently with WriteJSON.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				that.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
