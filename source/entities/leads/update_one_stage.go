package leads

import (
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type updateStageRequest struct {
	StageID int64 `json:"stage_id" validate:"required,gt=0"`
}

// UpdateOneStage moves a lead to another stage of its own funnel.
func (h *Handler) UpdateOneStage(w http.ResponseWriter, r *http.Request) {
	input := updateStageRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil || utils.Validate.Struct(input) != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do estágio é obrigatório", nil, 0)
		return
	}

	lead, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	stage, err := h.repo.FindStage(r.Context(), input.StageID)
	if err != nil && !errors.Is(err, ErrStageNotFound) {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_LEAD_IN_MYSQL)
		return
	}
	if stage == nil || stage.FunnelID != lead.FunnelID {
		utils.SendResponse(w, http.StatusBadRequest, "Estágio não encontrado ou não pertence ao funil do lead", nil, 0)
		return
	}

	if stage.ID == lead.StageID {
		utils.SendResponse(w, http.StatusOK, "Lead já está neste estágio", nil, 0)
		return
	}

	err = h.repo.UpdateStage(r.Context(), lead.ID, stage.ID)
	if errors.Is(err, ErrLeadNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Lead não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_LEAD_IN_MYSQL)
		return
	}

	previousStage := lead.StageName
	moved := *lead
	moved.StageID = stage.ID
	moved.StageName = stage.Name
	moved.StageColor = stage.Color
	moved = h.reload(r.Context(), lead.ID, moved)

	h.track(r.Context(), moved, schemas.LeadHistory{
		Action:        schemas.LEAD_HISTORY_STAGE_CHANGED,
		PreviousStage: previousStage,
		NewStage:      stage.Name,
	}, schemas.BOARD_ACTION_LEAD_MOVED)
	h.notifier.Dispatch(r.Context(), schemas.EVENT_STAGE_CHANGED, moved, map[string]any{
		"previous_stage": previousStage,
		"new_stage":      stage.Name,
	})

	utils.Log.Info("lead moved",
		zap.Int64("lead_id", lead.ID),
		zap.Int64("from_stage", lead.StageID),
		zap.Int64("to_stage", stage.ID),
	)
	utils.SendResponse(w, http.StatusOK, "Estágio do lead atualizado com sucesso", nil, 0)
}
