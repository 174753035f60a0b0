// Package webhooks manages outbound subscriptions to lead events and delivers them.
package webhooks

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"
)

type Handler struct {
	repo       Repository
	dispatcher *Dispatcher
}

func NewHandler(repo Repository, dispatcher *Dispatcher) *Handler {
	return &Handler{repo: repo, dispatcher: dispatcher}
}

// loadScoped resolves {id} to a webhook the caller may see, writing the
// error response itself otherwise.
func (h *Handler) loadScoped(w http.ResponseWriter, r *http.Request) (*schemas.Webhook, bool) {
	user, _ := middlewares.UserFromContext(r.Context())

	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do webhook inválido", nil, 0)
		return nil, false
	}

	webhook, err := h.repo.FindByID(r.Context(), id, user.ScopedClientID(nil))
	if errors.Is(err, ErrWebhookNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Webhook não encontrado", nil, 0)
		return nil, false
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_WEBHOOK_BY_ID_IN_MYSQL)
		return nil, false
	}
	return webhook, true
}
