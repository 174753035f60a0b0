package clients

import (
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type createClientRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	input := createClientRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	if input.Email != "" {
		taken, err := h.repo.EmailTaken(r.Context(), input.Email, 0)
		if err != nil {
			utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_CLIENT_TO_MYSQL)
			return
		}
		if taken {
			utils.SendResponse(w, http.StatusBadRequest, "Já existe um cliente com este email", nil, 0)
			return
		}
	}

	id, err := h.repo.CreateWithDefaults(r.Context(), schemas.Client{
		Name:  strings.TrimSpace(input.Name),
		Email: input.Email,
		Phone: strings.TrimSpace(input.Phone),
	})
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_CLIENT_TO_MYSQL)
		return
	}

	utils.Log.Info("client created", zap.Int64("client_id", id))
	utils.SendResponse(w, http.StatusCreated, "Cliente criado com sucesso", map[string]int64{"id": id}, 0)
}
