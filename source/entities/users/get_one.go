package users

import (
	"crm/source/utils"
	"errors"
	"net/http"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do usuário inválido", nil, 0)
		return
	}

	user, err := h.repo.FindByID(r.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Usuário não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_USER_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", user, 0)
}
