package users

import (
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	clientID, err := utils.QueryID(r, "client_id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do cliente inválido", nil, 0)
		return
	}

	users, err := h.repo.FindAll(r.Context(), clientID)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_USERS_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", users, 0)
}
