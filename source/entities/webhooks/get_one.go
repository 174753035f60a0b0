package webhooks

import (
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	webhook, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	utils.SendResponse(w, http.StatusOK, "", webhook, 0)
}
