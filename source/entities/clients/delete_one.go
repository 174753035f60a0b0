package clients

import (
	"crm/source/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do cliente inválido", nil, 0)
		return
	}

	if _, err := h.repo.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Cliente não encontrado", nil, 0)
			return
		}
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MYSQL)
		return
	}

	activeLeads, err := h.repo.CountActiveLeads(r.Context(), id)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_CLIENT_FROM_MYSQL)
		return
	}
	if activeLeads > 0 {
		utils.SendResponse(w, http.StatusBadRequest, "Não é possível remover cliente que possui leads ativos", nil, 0)
		return
	}

	err = h.repo.SoftDelete(r.Context(), id)
	if errors.Is(err, ErrClientNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Cliente não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_CLIENT_FROM_MYSQL)
		return
	}

	utils.Log.Info("client removed", zap.Int64("client_id", id))
	utils.SendResponse(w, http.StatusOK, "Cliente removido com sucesso", nil, 0)
}
