// Package board pushes lead movements to open kanban boards over websockets.
package board

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const WRITE_TIMEOUT = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
	user middlewares.AuthUser
}

func (s *subscriber) wants(msg schemas.BoardMessage) bool {
	return s.user.CanAccessClient(msg.ClientID)
}

type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*subscriber]struct{})}
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
}

// Count reports the open connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends msg to admins and to users of the lead's client. Connections
// that fail to receive it are closed and dropped.
func (h *Hub) Broadcast(msg schemas.BoardMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subscribers {
		if !s.wants(msg) {
			continue
		}
		_ = s.conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
		if err := s.conn.WriteJSON(msg); err != nil {
			utils.Log.Debug("dropping board connection", zap.Int64("user_id", s.user.UserID), zap.Error(err))
			s.conn.Close()
			delete(h.subscribers, s)
		}
	}
}
