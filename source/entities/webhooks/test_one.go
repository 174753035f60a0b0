package webhooks

import (
	"crm/source/schemas"
	"crm/source/utils"
	"fmt"
	"net/http"
	"time"
)

type testResult struct {
	Success     bool                   `json:"success"`
	StatusCode  int                    `json:"status_code"`
	Response    string                 `json:"response"`
	Error       string                 `json:"error"`
	PayloadSent schemas.WebhookPayload `json:"payload_sent"`
}

// TestOne fires a synthetic event at the webhook regardless of its
// subscriptions and reports what the receiver answered.
func (h *Handler) TestOne(w http.ResponseWriter, r *http.Request) {
	webhook, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	payload := testPayload(*webhook, h.dispatcher.now())
	result := h.dispatcher.Send(r.Context(), *webhook, schemas.EVENT_TEST, payload, map[string]string{HEADER_TEST: "true"})

	message := "Webhook testado com sucesso"
	if !result.Succeeded() {
		message = "Webhook testado, mas houve erro na resposta"
	}

	utils.SendResponse(w, http.StatusOK, message, testResult{
		Success:     result.Succeeded(),
		StatusCode:  result.StatusCode,
		Response:    result.Response,
		Error:       result.Error,
		PayloadSent: payload,
	}, 0)
}

func testPayload(webhook schemas.Webhook, now time.Time) schemas.WebhookPayload {
	funnelID := int64(1)
	funnelName := "Funil de Teste"
	if webhook.FunnelID != nil {
		funnelID = *webhook.FunnelID
	}
	if webhook.FunnelName != nil {
		funnelName = *webhook.FunnelName
	}

	return schemas.WebhookPayload{
		Event:    schemas.EVENT_TEST,
		ClientID: webhook.ClientID,
		FunnelID: funnelID,
		LeadID:   fmt.Sprintf("test_lead_%d", now.Unix()),
		Status:   schemas.LEAD_STATUS_ACTIVE,
		Data: schemas.WebhookLeadData{
			Name:   "Lead de Teste",
			Email:  "teste@email.com",
			Phone:  "(11) 99999-9999",
			Source: "Teste Webhook",
			Value:  1000.00,
			Notes:  "Este é um teste de webhook",
		},
		Timestamp: now.Format(time.RFC3339),
		Extra: map[string]any{
			"funil_nome":       funnelName,
			"estagio_anterior": "Novo Lead",
			"estagio_atual":    "Em Contato",
			"teste":            true,
		},
	}
}
