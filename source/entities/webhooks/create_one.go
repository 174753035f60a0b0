package webhooks

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type createWebhookRequest struct {
	ClientID int64    `json:"client_id"`
	FunnelID *int64   `json:"funnel_id"`
	URL      string   `json:"url" validate:"required,http_url"`
	Events   []string `json:"events" validate:"required,min=1,dive,oneof=lead_created lead_updated stage_changed lead_won lead_lost"`
	Active   *bool    `json:"active"`
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())

	input := createWebhookRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	input.URL = strings.TrimSpace(input.URL)
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	clientID := input.ClientID
	if !user.IsAdmin() {
		clientID = *user.ScopedClientID(nil)
	}
	if clientID <= 0 {
		utils.SendResponse(w, http.StatusBadRequest, "Cliente é obrigatório", nil, 0)
		return
	}

	if user.IsAdmin() {
		active, err := h.repo.ClientIsActive(r.Context(), clientID)
		if err != nil {
			utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_WEBHOOK_TO_MYSQL)
			return
		}
		if !active {
			utils.SendResponse(w, http.StatusBadRequest, "Cliente não encontrado ou inativo", nil, 0)
			return
		}
	}

	funnelID := input.FunnelID
	if funnelID != nil && *funnelID <= 0 {
		funnelID = nil
	}
	if funnelID != nil {
		owned, err := h.repo.FunnelBelongsTo(r.Context(), *funnelID, clientID)
		if err != nil {
			utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_WEBHOOK_TO_MYSQL)
			return
		}
		if !owned {
			utils.SendResponse(w, http.StatusBadRequest, "Funil não encontrado ou não pertence ao cliente", nil, 0)
			return
		}
	}

	webhook := schemas.Webhook{
		ClientID: clientID,
		FunnelID: funnelID,
		URL:      input.URL,
		Events:   dedupe(input.Events),
		Active:   input.Active == nil || *input.Active,
	}
	id, err := h.repo.Create(r.Context(), webhook)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_WEBHOOK_TO_MYSQL)
		return
	}

	utils.Log.Info("webhook created", zap.Int64("webhook_id", id), zap.Int64("client_id", clientID), zap.Strings("events", webhook.Events))
	utils.SendResponse(w, http.StatusCreated, "Webhook criado com sucesso", map[string]int64{"id": id}, 0)
}

func dedupe(events []string) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
