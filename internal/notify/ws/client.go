package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jayasakthi-07/foodie/internal/notify"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Identity describes the authenticated user behind a connection.
type Identity struct {
	UserID string
	Staff  bool
}

// CanSubscribe reports whether the identity may join topic without further
// checks. Staff may join any room; customers only their own user room.
// Customer access to order rooms depends on ownership, see Hub.authorize.
func (id Identity) CanSubscribe(topic string) bool {
	if topic == "" {
		return false
	}
	return id.Staff || topic == notify.UserTopic(id.UserID)
}

// Command is a message sent by the client.
type Command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Client is a single websocket connection registered in the hub.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	identity Identity
	topics   map[string]bool
}

func (c *Client) initialTopics() []string {
	topics := []string{notify.UserTopic(c.identity.UserID)}
	if c.identity.Staff {
		topics = append(topics, notify.AdminTopic)
	}
	return topics
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, identity Identity) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, h.sendBuffer),
		identity: identity,
		topics:   make(map[string]bool),
	}
	if !h.enqueue(h.register, client) {
		_ = conn.Close()
		return ErrHubClosed
	}

	go client.writePump()
	go client.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.enqueue(c.hub.unregister, c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.hub.logger.Debug("ignoring malformed websocket command", slog.String("user_id", c.identity.UserID))
		return
	}
	cmd.Topic = strings.TrimSpace(cmd.Topic)

	switch cmd.Action {
	case ActionSubscribe:
		if !c.hub.authorize(c.identity, cmd.Topic) {
			c.hub.logger.Warn("websocket subscription denied",
				slog.String("user_id", c.identity.UserID), slog.String("topic", cmd.Topic))
			return
		}
		c.hub.requestSubscription(subscription{client: c, topic: cmd.Topic, join: true})
	case ActionUnsubscribe:
		c.hub.requestSubscription(subscription{client: c, topic: cmd.Topic})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
