package socket

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
	"travelease/internal/summary/model"
	"travelease/internal/summary/tile"
	"travelease/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4096
)

func (h *Hub) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// checkOrigin accepts requests without an Origin header, same-host origins
// and the configured AllowedOrigins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if len(h.AllowedOrigins) == 0 {
		return true
	}
	origin = strings.TrimSuffix(origin, "/")
	for _, allowed := range h.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	logger.Sugar.Warnf("Rejected websocket origin %s", origin)
	return false
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte
	tiles  map[int64]*tile.Tile

	// Loaded before registration, consumed by the hub.
	initial []model.SummaryRecord
	loadErr error
	done    chan struct{}
}

// ServeWs upgrades the request, loads the user's summaries and joins the
// user's room. It returns without registering once the hub is stopped.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := hub.upgrader().Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	client := &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, 256),
		tiles:  make(map[int64]*tile.Tile),
		done:   make(chan struct{}),
	}
	hub.loadRecords(r.Context(), client)

	select {
	case hub.Register <- client:
	case <-hub.quit:
		conn.Close()
		close(client.done)
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.quit:
		}
		c.Conn.Close()
		close(c.done)
	}()

	c.Conn.SetReadLimit(maxMessage)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(rawMessage, &msg); err != nil {
			logger.Sugar.Errorf("Error unmarshalling message: %v", err)
			continue
		}
		// Server-authoritative sender.
		msg.UserID = c.UserID

		select {
		case c.Hub.Inbound <- inbound{client: c, msg: msg}:
		case <-c.Hub.quit:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
