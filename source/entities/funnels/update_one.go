package funnels

import (
	"crm/source/utils"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type updateFunnelRequest struct {
	Name        *string         `json:"name" validate:"omitnil,notblank"`
	Description *string         `json:"description"`
	Stages      *[]stageRequest `json:"stages"`
}

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do funil inválido", nil, 0)
		return
	}

	input := updateFunnelRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	patch := FunnelPatch{Description: input.Description}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}
	if input.Stages != nil {
		if len(*input.Stages) == 0 {
			utils.SendResponse(w, http.StatusBadRequest, "Pelo menos um estágio é obrigatório", nil, 0)
			return
		}
		stages, message := stagesFromRequest(*input.Stages)
		if message != "" {
			utils.SendResponse(w, http.StatusBadRequest, message, nil, 0)
			return
		}
		patch.Stages = stages
		patch.ReplaceStages = true
	}

	err = h.repo.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, ErrFunnelNotFound):
		utils.SendResponse(w, http.StatusNotFound, "Funil não encontrado", nil, 0)
		return
	case errors.Is(err, ErrNoStages):
		utils.SendResponse(w, http.StatusBadRequest, "Pelo menos um estágio é obrigatório", nil, 0)
		return
	case errors.Is(err, ErrStageHasActiveLeads):
		utils.SendResponse(w, http.StatusBadRequest, "Não é possível remover estágios que possuem leads ativos", nil, 0)
		return
	case err != nil:
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_FUNNEL_IN_MYSQL)
		return
	}

	utils.Log.Info("funnel updated", zap.Int64("funnel_id", id), zap.Bool("stages_replaced", patch.ReplaceStages))
	utils.SendResponse(w, http.StatusOK, "Funil atualizado com sucesso", nil, 0)
}
