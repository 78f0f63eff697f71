package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"travelease/internal/summary/model"
	"travelease/internal/summary/tile"
	"travelease/pkg/logger"
)

const (
	TilesType          = "TILES"           // Collapsed tiles of the user's summaries, sent on connect
	SummaryCreatedType = "SUMMARY_CREATED" // A summary was stored for the user
	ToggleType         = "TOGGLE"          // Client clicked a tile
	TileViewType       = "TILE_VIEW"       // Current view of one tile
	ErrorType          = "ERROR"
)

type WSMessage struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TogglePayload struct {
	SummaryID int64       `json:"summary_id"`
	Target    tile.Target `json:"target"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// TileSource supplies the records and tiles a connection starts with.
type TileSource interface {
	ListRecords(ctx context.Context, userID string) ([]model.SummaryRecord, error)
	NewTile(rec model.SummaryRecord) *tile.Tile
}

type inbound struct {
	client *Client
	msg    WSMessage
}

type publication struct {
	userID string
	record model.SummaryRecord
}

// Hub keeps one room per user. Every connection owns its tiles; they are
// only touched from the Run goroutine.
type Hub struct {
	Rooms       map[string]map[*Client]bool
	Inbound     chan inbound
	Publish     chan publication
	Register    chan *Client
	Unregister  chan *Client
	LoadTimeout time.Duration
	// AllowedOrigins lists the browser origins that may connect besides the
	// server's own host. Empty or "*" allows any origin.
	AllowedOrigins []string
	source         TileSource
	mu             sync.Mutex
	quit           chan struct{}
	stopOnce       sync.Once
}

func NewHub(source TileSource) *Hub {
	return &Hub{
		Rooms:       make(map[string]map[*Client]bool),
		Inbound:     make(chan inbound),
		Publish:     make(chan publication, 256),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		source:      source,
		quit:        make(chan struct{}),
		LoadTimeout: 10 * time.Second,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.UserID] == nil {
				h.Rooms[client.UserID] = make(map[*Client]bool)
			}
			h.Rooms[client.UserID][client] = true
			h.mu.Unlock()
			h.sendInitialTiles(client)

		case client := <-h.Unregister:
			h.removeClient(client)

		case in := <-h.Inbound:
			h.handle(in.client, in.msg)

		case p := <-h.Publish:
			h.publish(p)
		}
	}
}

// Stop ends Run and closes every connection. Pumps still running give up
// on the hub instead of blocking on it. Stop may be called more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.Rooms {
		for client := range room {
			close(client.Send)
		}
	}
	h.Rooms = make(map[string]map[*Client]bool)
}

// PublishSummary announces a newly stored summary to the user's connections.
func (h *Hub) PublishSummary(userID string, rec model.SummaryRecord) {
	select {
	case h.Publish <- publication{userID: userID, record: rec}:
	default:
		logger.Sugar.Warnf("Publish queue full, dropping summary %d for user %s", rec.ID, userID)
	}
}

// ClientCount returns the number of open connections of a user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Rooms[userID])
}

// loadRecords runs on the connecting request's goroutine so a slow query
// never stalls the hub.
func (h *Hub) loadRecords(ctx context.Context, client *Client) {
	ctx, cancel := context.WithTimeout(ctx, h.LoadTimeout)
	defer cancel()

	client.initial, client.loadErr = h.source.ListRecords(ctx, client.UserID)
	if client.loadErr != nil {
		logger.Sugar.Errorf("Failed to load summaries for user %s: %v", client.UserID, client.loadErr)
	}
}

func (h *Hub) sendInitialTiles(client *Client) {
	if client.loadErr != nil {
		h.sendError(client, "Failed to load summaries")
		return
	}

	views := make([]tile.View, 0, len(client.initial))
	for _, rec := range client.initial {
		t := h.source.NewTile(rec)
		client.tiles[rec.ID] = t
		views = append(views, t.View())
	}
	client.initial = nil
	h.send(client, TilesType, views)
}

func (h *Hub) handle(client *Client, msg WSMessage) {
	switch msg.Type {
	case ToggleType:
		var p TogglePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || !p.Target.Valid() {
			h.sendError(client, "Invalid toggle payload")
			return
		}
		t, ok := client.tiles[p.SummaryID]
		if !ok {
			h.sendError(client, "Unknown summary")
			return
		}
		t.Click(p.Target)
		h.send(client, TileViewType, t.View())
	default:
		logger.Sugar.Warnf("Ignoring message type %q from user %s", msg.Type, client.UserID)
	}
}

func (h *Hub) publish(p publication) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.Rooms[p.userID]))
	for client := range h.Rooms[p.userID] {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		t := h.source.NewTile(p.record)
		client.tiles[p.record.ID] = t
		h.send(client, SummaryCreatedType, t.View())
	}
}

func (h *Hub) send(client *Client, msgType string, payload any) {
	// Messages can still arrive from a client that was already dropped.
	if !h.registered(client) {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", msgType, err)
		return
	}
	msg, err := json.Marshal(WSMessage{Type: msgType, UserID: client.UserID, Payload: raw})
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s message: %v", msgType, err)
		return
	}
	select {
	case client.Send <- msg:
	default:
		// The client is lagging; drop it rather than block the hub.
		logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.UserID)
		h.removeClient(client)
	}
}

func (h *Hub) sendError(client *Client, message string) {
	h.send(client, ErrorType, ErrorPayload{Message: message})
}

func (h *Hub) registered(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Rooms[client.UserID][client]
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Rooms[client.UserID][client]; !ok {
		return
	}
	delete(h.Rooms[client.UserID], client)
	close(client.Send)
	if len(h.Rooms[client.UserID]) == 0 {
		delete(h.Rooms, client.UserID)
		logger.Sugar.Infof("Closed empty room of user %s", client.UserID)
	}
}
