package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/auth"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512
	sendBuffer     = 256
)

var (
	errMissingToken = errors.New("missing token")
	errInvalidToken = errors.New("invalid token")
	errUnknownTopic = errors.New("unknown topic")
)

// Origins are not checked; every subscriber presents a staff JWT instead.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// topics lists the feeds a screen can follow: the kitchen display gets new
// KOTs, the order screens get refunds.
var topics = map[string]bool{
	enum.TopicKitchen: true,
	enum.TopicOrders:  true,
}

// Client is one subscribed screen. Each event is delivered as its own text
// frame.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	topic   string
	staffID uuid.UUID
	send    chan []byte
}

// ReadPump only watches for disconnects and pongs; screens never publish.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read",
					zap.String("topic", c.topic),
					zap.String("staff_id", c.staffID.String()),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// WritePump forwards events from the hub and keeps the connection alive with
// pings. It exits when the hub closes send or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscription checks the token query parameter and the requested topic
// before the connection is upgraded.
func subscription(r *http.Request, jwtSecret string) (*auth.Claims, string, int, error) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		return nil, "", http.StatusUnauthorized, errMissingToken
	}
	claims, err := auth.ValidateToken(jwtSecret, tokenStr)
	if err != nil {
		return nil, "", http.StatusUnauthorized, errInvalidToken
	}
	topic := chi.URLParam(r, "topic")
	if !topics[topic] {
		return nil, "", http.StatusNotFound, errUnknownTopic
	}
	return claims, topic, http.StatusOK, nil
}

// ServeWS handles GET /ws/{topic}?token=JWT.
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	claims, topic, status, err := subscription(r, jwtSecret)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade", zap.String("topic", topic), zap.Error(err))
		return
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		topic:   topic,
		staffID: claims.StaffID,
		send:    make(chan []byte, sendBuffer),
	}
	hub.register <- client
	hub.logger.Info("websocket subscribed",
		zap.String("topic", topic),
		zap.String("staff_id", claims.StaffID.String()),
		zap.String("role", claims.Role),
	)

	go client.WritePump()
	go client.ReadPump()
}
