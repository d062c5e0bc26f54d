package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"club-membership-system/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// ChatHub fans chat messages out over websockets: an empty recipient goes to
// the global room (every connected member), a set recipient goes only to the
// sender's and recipient's connections. Messages are persisted first, and a
// delivered message bumps the sender's message counter through the
// achievement evaluator, best-effort.
type ChatHub struct {
	DB           *gorm.DB
	Activity     *ActivityService
	Achievements *AchievementService

	mu      sync.RWMutex
	clients map[string]map[*chatClient]bool // uid → connections

	upgrader websocket.Upgrader
}

type chatClient struct {
	uid      string
	username string
	conn     *websocket.Conn
	send     chan []byte
}

// inboundMessage is what a connected client writes on the socket.
type inboundMessage struct {
	RecipientUID string `json:"recipient_uid,omitempty"`
	Body         string `json:"body"`
}

func NewChatHub(db *gorm.DB, activity *ActivityService, achievements *AchievementService) *ChatHub {
	return &ChatHub{
		DB:           db,
		Activity:     activity,
		Achievements: achievements,
		clients:      make(map[string]map[*chatClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // gateway enforces origin
		},
	}
}

// HandleWS upgrades the request and runs the connection's read/write pumps.
// Identity comes from the gateway-set headers, same contract as the HTTP API.
func (h *ChatHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	uid := r.Header.Get("X-User-ID")
	if uid == "" {
		uid = r.URL.Query().Get("uid")
	}
	if uid == "" {
		http.Error(w, "missing member identity", http.StatusUnauthorized)
		return
	}
	username := r.Header.Get("X-Username")
	if username == "" {
		username = uid
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ chat upgrade failed for %s: %v", uid, err)
		return
	}

	c := &chatClient{uid: uid, username: username, conn: conn, send: make(chan []byte, 32)}
	h.register(c)
	log.Printf("💬 chat connected: %s", uid)

	go c.writer()
	c.reader(h)
}

func (h *ChatHub) register(c *chatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.uid] == nil {
		h.clients[c.uid] = make(map[*chatClient]bool)
	}
	h.clients[c.uid][c] = true
}

func (h *ChatHub) unregister(c *chatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.clients[c.uid]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.uid)
		}
	}
	close(c.send)
}

func (c *chatClient) reader(h *ChatHub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		log.Printf("💬 chat disconnected: %s", c.uid)
	}()

	c.conn.SetReadLimit(4096)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(raw, &in); err != nil || in.Body == "" {
			continue
		}
		h.deliver(c, in)
	}
}

func (c *chatClient) writer() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// deliver persists the message and fans it out. Persistence failure drops
// the message; progression failure never blocks delivery.
func (h *ChatHub) deliver(c *chatClient, in inboundMessage) {
	msg := models.ChatMessage{
		ID:           uuid.NewString(),
		UID:          c.uid,
		Username:     c.username,
		RecipientUID: in.RecipientUID,
		Body:         in.Body,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		log.Printf("❌ failed to persist chat message from %s: %v", c.uid, err)
		return
	}

	payload, _ := json.Marshal(msg)
	if in.RecipientUID == "" {
		h.broadcast(payload)
	} else {
		h.sendTo(in.RecipientUID, payload)
		h.sendTo(c.uid, payload) // echo to the sender's other devices
	}

	go h.afterMessage(c.uid)
}

func (h *ChatHub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for c := range conns {
			select {
			case c.send <- payload:
			default: // slow consumer, drop
			}
		}
	}
}

func (h *ChatHub) sendTo(uid string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[uid] {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *ChatHub) afterMessage(uid string) {
	counts, err := h.Activity.CountsFor(uid)
	if err != nil {
		log.Printf("⚠️ counter query failed after message for %s: %v", uid, err)
		return
	}
	if err := h.Achievements.Evaluate(uid, models.ProgressEvent{
		Action: models.ActionMessage,
		Counts: counts,
	}); err != nil {
		log.Printf("⚠️ message achievement evaluation failed for %s: %v", uid, err)
	}
}

// History returns recent messages: the global room when otherUID is empty,
// otherwise the direct thread between the two members.
func (h *ChatHub) History(uid, otherUID string, limit int) ([]models.ChatMessage, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var msgs []models.ChatMessage
	q := h.DB.Order("created_at DESC").Limit(limit)
	if otherUID == "" {
		q = q.Where("recipient_uid = ''")
	} else {
		q = q.Where(
			"(uid = ? AND recipient_uid = ?) OR (uid = ? AND recipient_uid = ?)",
			uid, otherUID, otherUID, uid,
		)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}

	// oldest first for display
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Online reports how many distinct members hold an open chat connection.
func (h *ChatHub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
