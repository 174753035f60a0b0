package webhooks

import (
	"crm/source/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	webhook, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	err := h.repo.Delete(r.Context(), webhook.ID)
	if errors.Is(err, ErrWebhookNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Webhook não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_WEBHOOK_FROM_MYSQL)
		return
	}

	utils.Log.Info("webhook removed", zap.Int64("webhook_id", webhook.ID))
	utils.SendResponse(w, http.StatusOK, "Webhook removido com sucesso", nil, 0)
}
