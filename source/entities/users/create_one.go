package users

import (
	"crm/source/entities/auth"
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type createUserRequest struct {
	ClientID *int64 `json:"client_id" validate:"required_if=Role client"`
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin client"`
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	input := createUserRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	if input.Role == schemas.ROLE_ADMIN {
		input.ClientID = nil
	} else {
		active, err := h.repo.ClientIsActive(r.Context(), *input.ClientID)
		if err != nil {
			utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_USER_TO_MYSQL)
			return
		}
		if !active {
			utils.SendResponse(w, http.StatusBadRequest, "Cliente não encontrado ou inativo", nil, 0)
			return
		}
	}

	taken, err := h.repo.EmailTaken(r.Context(), input.Email, 0)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_USER_TO_MYSQL)
		return
	}
	if taken {
		utils.SendResponse(w, http.StatusBadRequest, "Já existe um usuário com este email", nil, 0)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_HASH_PASSWORD)
		return
	}

	id, err := h.repo.Create(r.Context(), schemas.User{
		ClientID:     input.ClientID,
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	})
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_USER_TO_MYSQL)
		return
	}

	utils.Log.Info("user created", zap.Int64("user_id", id), zap.String("role", input.Role))
	utils.SendResponse(w, http.StatusCreated, "Usuário criado com sucesso", map[string]int64{"id": id}, 0)
}
