package auth

import (
	"crm/source/schemas"
	"crm/source/utils"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  schemas.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	input := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Email e senha são obrigatórios", nil, 0)
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Email e senha são obrigatórios", nil, 0)
		return
	}

	user, err := h.users.FindActiveByEmail(r.Context(), input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_USER_IN_MYSQL)
		return
	}
	if user == nil || !checkPassword(user.PasswordHash, input.Password) {
		utils.SendResponse(w, http.StatusUnauthorized, "Email ou senha inválidos", nil, 0)
		return
	}

	token, err := h.tokens.Issue(*user)
	if err != nil {
		utils.Log.Error("failed to sign token", zap.Int64("user_id", user.ID), zap.Error(err))
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_SIGN_TOKEN)
		return
	}

	utils.Log.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	utils.SendResponse(w, http.StatusOK, "Login realizado com sucesso", loginResponse{Token: token, User: *user}, 0)
}
