package leads

import (
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"
	"strings"
)

type updateLeadRequest struct {
	Name   *string   `json:"name" validate:"omitnil,notblank"`
	Email  *string   `json:"email" validate:"omitempty,email"`
	Phone  *string   `json:"phone"`
	Source *string   `json:"source"`
	Value  *float64  `json:"value" validate:"omitnil,gte=0"`
	Notes  *string   `json:"notes"`
	Tags   *[]string `json:"tags"`
	Status *string   `json:"status" validate:"omitnil,oneof=active won lost"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	input := updateLeadRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados para atualização são obrigatórios", nil, 0)
		return
	}
	input.Email = trimmed(input.Email)
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	patch := LeadPatch{
		Name:   trimmed(input.Name),
		Email:  input.Email,
		Phone:  trimmed(input.Phone),
		Source: trimmed(input.Source),
		Value:  input.Value,
		Notes:  trimmed(input.Notes),
		Status: input.Status,
	}
	if input.Tags != nil {
		tags := cleanTags(*input.Tags)
		patch.Tags = &tags
	}
	if patch.IsEmpty() {
		utils.SendResponse(w, http.StatusBadRequest, "Nenhum campo para atualizar foi fornecido", nil, 0)
		return
	}

	err := h.repo.Update(r.Context(), lead.ID, patch)
	if errors.Is(err, ErrLeadNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Lead não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_LEAD_IN_MYSQL)
		return
	}

	updated := h.reload(r.Context(), lead.ID, *lead)

	event := schemas.EVENT_LEAD_UPDATED
	entry := schemas.LeadHistory{Action: schemas.LEAD_HISTORY_UPDATED}
	if patch.Status != nil {
		switch *patch.Status {
		case schemas.LEAD_STATUS_WON:
			event = schemas.EVENT_LEAD_WON
		case schemas.LEAD_STATUS_LOST:
			event = schemas.EVENT_LEAD_LOST
		}
		if *patch.Status != lead.Status {
			entry = schemas.LeadHistory{Action: schemas.LEAD_HISTORY_STATUS, Status: *patch.Status}
		}
	}

	h.track(r.Context(), updated, entry, schemas.BOARD_ACTION_LEAD_UPDATED)
	h.notifier.Dispatch(r.Context(), event, updated, nil)

	utils.SendResponse(w, http.StatusOK, "Lead atualizado com sucesso", nil, 0)
}
