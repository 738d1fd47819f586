package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/internal/workflow"
	"pathfinder_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	sendBacklog = 32
)

// WorkflowEvent is published after every persisted workflow change.
type WorkflowEvent struct {
	AssociationID string               `json:"associationId"`
	MemberID      uint                 `json:"memberId"`
	SpecialtyID   uint                 `json:"specialtyId"`
	Action        string               `json:"action"`
	From          model.ApprovalStatus `json:"from,omitempty"`
	To            model.ApprovalStatus `json:"to"`
	ActorID       uint                 `json:"actorId"`
	ActorRole     model.UserRole       `json:"actorRole"`
	At            time.Time            `json:"at"`
}

func newEvent(a *model.SpecialtyAssociation, action string, from model.ApprovalStatus, actor workflow.Actor, at time.Time) WorkflowEvent {
	return WorkflowEvent{
		AssociationID: a.ID,
		MemberID:      a.MemberID,
		SpecialtyID:   a.SpecialtyID,
		Action:        action,
		From:          from,
		To:            a.ApprovalStatus,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		At:            at,
	}
}

type WorkflowNotifier interface {
	Notify(ctx context.Context, ev WorkflowEvent)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscriber struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	staff  bool
}

func (s *subscriber) wants(ev WorkflowEvent) bool {
	return s.staff || s.userID == ev.MemberID
}

// WorkflowHub fans workflow events out to websocket subscribers. With redis
// configured, events travel through util.WorkflowChannel so every instance
// sees them; without it delivery is local only.
type WorkflowHub struct {
	Redis   *redis.Client
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
}

func NewWorkflowHub(rdb *redis.Client) *WorkflowHub {
	return &WorkflowHub{
		Redis:   rdb,
		clients: make(map[*subscriber]struct{}),
	}
}

func (h *WorkflowHub) Notify(ctx context.Context, ev WorkflowEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Error("Workflow event marshal error", zap.Error(err))
		return
	}
	if h.Redis != nil {
		err = h.Redis.Publish(ctx, util.WorkflowChannel, payload).Err()
		if err == nil {
			return
		}
		logger.Log.Warn("Workflow event publish failed, delivering locally", zap.Error(err))
	}
	h.deliver(ev, payload)
}

func (h *WorkflowHub) deliver(ev WorkflowEvent, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(ev) {
			continue
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}

// Run relays events from redis until ctx is done, then closes every
// subscriber.
func (h *WorkflowHub) Run(ctx context.Context) {
	defer h.closeAll()
	if h.Redis == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.Redis.Subscribe(ctx, util.WorkflowChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev WorkflowEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.deliver(ev, []byte(msg.Payload))
		}
	}
}

func (h *WorkflowHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *WorkflowHub) register(c *subscriber) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *WorkflowHub) unregister(c *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of connected subscribers.
func (h *WorkflowHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and streams events to the caller. Members only
// receive events for their own claims.
func (h *WorkflowHub) Serve(w http.ResponseWriter, r *http.Request, userID uint, role model.UserRole) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &subscriber{
		conn:   conn,
		send:   make(chan []byte, sendBacklog),
		userID: userID,
		staff:  role != model.Member,
	}
	h.register(c)
	go c.writePump()
	go c.readPump(h)
	return nil
}

// readPump only drains control frames; subscribers never send events.
func (c *subscriber) readPump(h *WorkflowHub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.userID))
			}
			return
		}
	}
}

func (c *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
