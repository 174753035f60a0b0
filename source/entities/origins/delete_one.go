package origins

import (
	"crm/source/utils"
	"errors"
	"net/http"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if origin.IsDefault {
		utils.SendResponse(w, http.StatusBadRequest, "Origens padrão não podem ser removidas", nil, 0)
		return
	}

	err := h.repo.Delete(r.Context(), origin.ID)
	if errors.Is(err, ErrOriginNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Origem não encontrada", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_ORIGIN_FROM_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Origem removida com sucesso", nil, 0)
}
