package users

import (
	"crm/source/entities/auth"
	"crm/source/utils"
	"errors"
	"net/http"
	"strings"
)

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,notblank"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
}

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do usuário inválido", nil, 0)
		return
	}

	input := updateUserRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		input.Email = &email
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}
	if input.Name == nil && input.Email == nil && input.Password == nil {
		utils.SendResponse(w, http.StatusBadRequest, "Nenhum campo para atualizar foi fornecido", nil, 0)
		return
	}

	patch := UserPatch{Email: input.Email}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}

	if input.Email != nil {
		taken, err := h.repo.EmailTaken(r.Context(), *input.Email, id)
		if err != nil {
			utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_USER_IN_MYSQL)
			return
		}
		if taken {
			utils.SendResponse(w, http.StatusBadRequest, "Já existe um usuário com este email", nil, 0)
			return
		}
	}

	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_HASH_PASSWORD)
			return
		}
		patch.PasswordHash = &hash
	}

	err = h.repo.Update(r.Context(), id, patch)
	if errors.Is(err, ErrUserNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Usuário não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_USER_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Usuário atualizado com sucesso", nil, 0)
}
