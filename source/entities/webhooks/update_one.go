package webhooks

import (
	"bytes"
	"crm/source/utils"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type updateWebhookRequest struct {
	FunnelID json.RawMessage `json:"funnel_id"`
	URL      *string         `json:"url" validate:"omitnil,http_url"`
	Events   *[]string       `json:"events" validate:"omitnil,min=1,dive,oneof=lead_created lead_updated stage_changed lead_won lead_lost"`
	Active   *bool           `json:"active"`
}

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	webhook, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	input := updateWebhookRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if input.URL != nil {
		url := strings.TrimSpace(*input.URL)
		input.URL = &url
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	patch := WebhookPatch{URL: input.URL, Active: input.Active}
	if input.Events != nil {
		patch.Events = dedupe(*input.Events)
	}

	if len(input.FunnelID) > 0 {
		patch.SetFunnelID = true
		if !bytes.Equal(input.FunnelID, []byte("null")) {
			var funnelID int64
			if err := json.Unmarshal(input.FunnelID, &funnelID); err != nil {
				utils.SendResponse(w, http.StatusBadRequest, "Funil inválido", nil, 0)
				return
			}
			if funnelID > 0 {
				owned, err := h.repo.FunnelBelongsTo(r.Context(), funnelID, webhook.ClientID)
				if err != nil {
					utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_WEBHOOK_IN_MYSQL)
					return
				}
				if !owned {
					utils.SendResponse(w, http.StatusBadRequest, "Funil não encontrado ou não pertence ao cliente", nil, 0)
					return
				}
				patch.FunnelID = &funnelID
			}
		}
	}

	if patch.URL == nil && patch.Events == nil && patch.Active == nil && !patch.SetFunnelID {
		utils.SendResponse(w, http.StatusBadRequest, "Nenhum campo para atualizar", nil, 0)
		return
	}

	err := h.repo.Update(r.Context(), webhook.ID, patch)
	if errors.Is(err, ErrWebhookNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Webhook não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_WEBHOOK_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Webhook atualizado com sucesso", nil, 0)
}
