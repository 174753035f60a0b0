package auth

import (
	"crm/source/middlewares"
	"crm/source/utils"
	"errors"
	"net/http"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	authUser, _ := middlewares.UserFromContext(r.Context())

	user, err := h.users.FindActiveByID(r.Context(), authUser.UserID)
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
