package clients

import (
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repo.FindAll(r.Context())
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_CLIENTS_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", clients, 0)
}
