package webhooks

import (
	"crm/source/middlewares"
	"crm/source/utils"
	"net/http"
)

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())

	clientID, err := utils.QueryID(r, "client_id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do cliente inválido", nil, 0)
		return
	}

	webhooks, err := h.repo.FindAll(r.Context(), user.ScopedClientID(clientID))
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_WEBHOOKS_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", webhooks, 0)
}
