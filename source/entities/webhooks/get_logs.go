package webhooks

import (
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	webhook, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	logs, err := h.repo.FindLogs(r.Context(), webhook.ID, MAX_LOGS)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_WEBHOOK_LOGS_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", logs, 0)
}
