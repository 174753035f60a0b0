package funnels

import (
	"crm/source/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do funil inválido", nil, 0)
		return
	}

	if _, err := h.repo.FindByID(r.Context(), id, nil); err != nil {
		if errors.Is(err, ErrFunnelNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Funil não encontrado", nil, 0)
			return
		}
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_FUNNEL_BY_ID_IN_MYSQL)
		return
	}

	activeLeads, err := h.repo.CountActiveLeads(r.Context(), id)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_FUNNEL_FROM_MYSQL)
		return
	}
	if activeLeads > 0 {
		utils.SendResponse(w, http.StatusBadRequest, "Não é possível remover funil que possui leads ativos", nil, 0)
		return
	}

	if err := h.repo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, ErrFunnelNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Funil não encontrado", nil, 0)
			return
		}
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_FUNNEL_FROM_MYSQL)
		return
	}

	utils.Log.Info("funnel removed", zap.Int64("funnel_id", id))
	utils.SendResponse(w, http.StatusOK, "Funil removido com sucesso", nil, 0)
}
