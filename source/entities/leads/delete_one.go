package leads

import (
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	err := h.repo.Delete(r.Context(), lead.ID)
	if errors.Is(err, ErrLeadNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Lead não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_LEAD_FROM_MYSQL)
		return
	}

	h.track(r.Context(), *lead, schemas.LeadHistory{Action: schemas.LEAD_HISTORY_DELETED}, schemas.BOARD_ACTION_LEAD_DELETED)

	utils.Log.Info("lead removed", zap.Int64("lead_id", lead.ID))
	utils.SendResponse(w, http.StatusOK, "Lead removido com sucesso", nil, 0)
}
