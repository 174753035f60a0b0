package users

import (
	"crm/source/middlewares"
	"crm/source/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	current, _ := middlewares.UserFromContext(r.Context())

	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do usuário inválido", nil, 0)
		return
	}
	if id == current.UserID {
		utils.SendResponse(w, http.StatusBadRequest, "Não é possível remover o próprio usuário", nil, 0)
		return
	}

	err = h.repo.SoftDelete(r.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Usuário não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_DELETE_USER_FROM_MYSQL)
		return
	}

	utils.Log.Info("user removed", zap.Int64("user_id", id))
	utils.SendResponse(w, http.StatusOK, "Usuário removido com sucesso", nil, 0)
}
