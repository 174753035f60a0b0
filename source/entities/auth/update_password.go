package auth

import (
	"crm/source/middlewares"
	"crm/source/utils"
	"encoding/json"
	"errors"
	"net/http"
)

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	authUser, _ := middlewares.UserFromContext(r.Context())

	input := updatePasswordRequest{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	user, err := h.users.FindActiveByID(r.Context(), authUser.UserID)
	if errors.Is(err, ErrUserNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Usuário não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_USER_IN_MYSQL)
		return
	}

	if !checkPassword(user.PasswordHash, input.CurrentPassword) {
		utils.SendResponse(w, http.StatusBadRequest, "Senha atual incorreta", nil, 0)
		return
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_HASH_PASSWORD)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_USER_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Senha alterada com sucesso", nil, 0)
}
