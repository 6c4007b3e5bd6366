package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RoboSupreme/my-hex-game/internal/engine"
	"github.com/RoboSupreme/my-hex-game/internal/network"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// Нарративное действие ждет ответа модели, поэтому запас большой.
	actionTimeout = 2 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и GameService. Клиент шлет
// api.ActionRequest; результаты действий рассылаются через Hub всем
// подключенным (мир один, зрители видят ход игры).
type Client struct {
	Game *engine.GameService
	Hub  *network.Broadcaster
	Conn *websocket.Conn

	id      string
	updates chan api.ActionResult
}

func NewClient(game *engine.GameService, hub *network.Broadcaster, conn *websocket.Conn) *Client {
	c := &Client{
		Game: game,
		Hub:  hub,
		Conn: conn,
	}
	c.id, c.updates = hub.Register()
	return c
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.id)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("client_id", c.id).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Первая отрисовка: состояние без действия, только этому клиенту.
	if state, err := c.Game.State(context.Background()); err == nil {
		c.Hub.SendTo(c.id, api.ActionResult{OK: true, State: state})
	} else {
		logger.Log.WithError(err).Error("Не удалось собрать стартовое состояние")
	}

	for {
		var req api.ActionRequest
		if err := c.Conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			return
		}
		if req.Action == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		result, err := c.Game.ApplyAction(ctx, req.Action)
		cancel()
		if err != nil {
			logger.Log.WithError(err).Error("Действие завершилось внутренней ошибкой")
			c.Hub.SendTo(c.id, api.ActionResult{OK: false, Message: "Something went wrong.", MessageType: "ERROR"})
			continue
		}

		// Отклоненное действие - личное дело клиента, успешное видят все.
		if result.OK {
			c.Hub.Broadcast(*result)
		} else {
			c.Hub.SendTo(c.id, *result)
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
