package clients

import (
	"crm/source/utils"
	"errors"
	"net/http"
	"strings"
)

type updateClientRequest struct {
	Name  *string `json:"name" validate:"omitnil,notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do cliente inválido", nil, 0)
		return
	}

	input := updateClientRequest{}
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

	if _, err := h.repo.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Cliente não encontrado", nil, 0)
			return
		}
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MYSQL)
		return
	}

	if input.Email != nil && *input.Email != "" {
		taken, err := h.repo.EmailTaken(r.Context(), *input.Email, id)
		if err != nil {
			utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_CLIENT_IN_MYSQL)
			return
		}
		if taken {
			utils.SendResponse(w, http.StatusBadRequest, "Já existe um cliente com este email", nil, 0)
			return
		}
	}

	patch := ClientPatch{Email: input.Email}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		patch.Phone = &phone
	}

	err = h.repo.Update(r.Context(), id, patch)
	if errors.Is(err, ErrClientNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Cliente não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_CLIENT_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Cliente atualizado com sucesso", nil, 0)
}
