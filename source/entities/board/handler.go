package board

import (
	"crm/source/middlewares"
	"crm/source/utils"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	tokens *middlewares.TokenIssuer
}

func NewHandler(hub *Hub, tokens *middlewares.TokenIssuer) *Handler {
	return &Handler{hub: hub, tokens: tokens}
}

// Connect upgrades the request once ?token= checks out. Browsers cannot set
// headers on websocket handshakes, hence the query parameter.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.SendResponse(w, http.StatusUnauthorized, middlewares.ErrMissingToken.Error(), nil, 0)
		return
	}
	user, err := h.tokens.Parse(token)
	if err != nil {
		message := middlewares.ErrInvalidToken.Error()
		if errors.Is(err, middlewares.ErrExpiredToken) {
			message = err.Error()
		}
		utils.SendResponse(w, http.StatusUnauthorized, message, nil, 0)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Log.Warn("board websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s := &subscriber{conn: conn, user: *user}
	h.hub.add(s)
	defer h.hub.remove(s)

	utils.Log.Debug("board connection opened", zap.Int64("user_id", user.UserID))

	// Clients only listen; reading keeps control frames flowing and
	// detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
