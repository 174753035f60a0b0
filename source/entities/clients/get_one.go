package clients

import (
	"crm/source/utils"
	"errors"
	"net/http"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do cliente inválido", nil, 0)
		return
	}

	client, err := h.repo.FindByID(r.Context(), id)
	if errors.Is(err, ErrClientNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Cliente não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", client, 0)
}
