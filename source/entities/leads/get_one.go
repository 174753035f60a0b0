package leads

import (
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	utils.SendResponse(w, http.StatusOK, "", lead, 0)
}
