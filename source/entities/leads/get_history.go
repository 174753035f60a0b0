package leads

import (
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	entries, err := h.history.FindByLead(r.Context(), lead.ID)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_LEADS_HISTORY_IN_MONGODB)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", entries, 0)
}
