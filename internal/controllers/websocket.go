package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsSendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is what a client sends to manage its subscriptions, e.g.
// {"action":"subscribe","channel":"btc/order-update"}.
type WSMessage struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// WSController is a websocket hub; clients receive the notifications of the
// channels they subscribed to.
type WSController struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}

	logger *logrus.Logger
}

func NewWSController(logger *logrus.Logger) *WSController {
	return &WSController{
		clients: map[*wsClient]struct{}{},
		logger:  logger,
	}
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu            sync.RWMutex
	subscriptions map[string]bool
}

func (c *wsClient) subscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.subscriptions[channel]
}

func (c *wsClient) setSubscription(channel string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if on {
		c.subscriptions[channel] = true
		return
	}
	delete(c.subscriptions, channel)
}

func (h *WSController) Name() string {
	return "websocket"
}

// Publish never blocks: a client whose buffer is full misses the message.
func (h *WSController) Publish(_ context.Context, n models.Notification) error {
	message, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "marshal notification")
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.subscribed(n.Channel) {
			continue
		}
		select {
		case c.send <- message:
		default:
			h.logger.
				WithField("method", "WSController.Publish").
				WithField("client", c.id).
				Warn("send buffer full")
		}
	}

	return nil
}

func (h *WSController) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *WSController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithField("method", "WSController.ServeHTTP").WithError(err).Debug("upgrade failed")
		return
	}

	c := &wsClient{
		id:            uuid.NewString(),
		conn:          conn,
		send:          make(chan []byte, wsSendBuffer),
		subscriptions: map[string]bool{},
	}

	for _, channel := range r.URL.Query()["channel"] {
		c.setSubscription(channel, true)
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *WSController) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *WSController) readPump(c *wsClient) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Action {
		case "subscribe":
			c.setSubscription(msg.Channel, true)
		case "unsubscribe":
			c.setSubscription(msg.Channel, false)
		}
	}
}

func (h *WSController) writePump(c *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
