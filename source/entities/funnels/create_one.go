package funnels

import (
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type createFunnelRequest struct {
	ClientID    int64          `json:"client_id" validate:"required,gt=0"`
	Name        string         `json:"name" validate:"required,notblank"`
	Description string         `json:"description"`
	Stages      []stageRequest `json:"stages"`
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	input := createFunnelRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	stages := schemas.DefaultStages()
	if len(input.Stages) > 0 {
		var message string
		if stages, message = stagesFromRequest(input.Stages); message != "" {
			utils.SendResponse(w, http.StatusBadRequest, message, nil, 0)
			return
		}
	}

	active, err := h.repo.ClientIsActive(r.Context(), input.ClientID)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_FUNNEL_TO_MYSQL)
		return
	}
	if !active {
		utils.SendResponse(w, http.StatusBadRequest, "Cliente não encontrado ou inativo", nil, 0)
		return
	}

	funnel := schemas.Funnel{
		ClientID:    input.ClientID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	id, err := h.repo.Create(r.Context(), funnel, stages)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_FUNNEL_TO_MYSQL)
		return
	}

	utils.Log.Info("funnel created", zap.Int64("funnel_id", id), zap.Int64("client_id", input.ClientID), zap.Int("stages", len(stages)))
	utils.SendResponse(w, http.StatusCreated, "Funil criado com sucesso", map[string]int64{"id": id}, 0)
}
