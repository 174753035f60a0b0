package funnels

import (
	"crm/source/middlewares"
	"crm/source/utils"
	"errors"
	"net/http"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())

	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do funil inválido", nil, 0)
		return
	}

	funnel, err := h.repo.FindByID(r.Context(), id, user.ScopedClientID(nil))
	if errors.Is(err, ErrFunnelNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Funil não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_FUNNEL_BY_ID_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", funnel, 0)
}
