package webhooks

import (
	"bytes"
	"context"
	"crm/source/schemas"
	"crm/source/utils"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	USER_AGENT        = "CRM-System-Webhook/1.0"
	MAX_RESPONSE_BODY = 1 << 20

	HEADER_EVENT    = "X-Webhook-Event"
	HEADER_DELIVERY = "X-Webhook-Delivery"
	HEADER_TEST     = "X-Webhook-Test"
)

// DeliveryStore is the slice of the repository the dispatcher needs.
type DeliveryStore interface {
	FindSubscribed(ctx context.Context, clientID, funnelID int64) ([]schemas.Webhook, error)
	InsertLog(ctx context.Context, log schemas.WebhookLog) error
}

// DeliveryResult describes one POST attempt.
type DeliveryResult struct {
	StatusCode int    `json:"status_code"`
	Response   string `json:"response"`
	Error      string `json:"error"`
}

func (d DeliveryResult) Succeeded() bool {
	return d.Error == "" && d.StatusCode >= 200 && d.StatusCode < 300
}

// Dispatcher delivers lead events to subscribed endpoints, one after another,
// inside the request that caused them.
type Dispatcher struct {
	store  DeliveryStore
	client *http.Client
	now    func() time.Time
}

func NewDispatcher(store DeliveryStore, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		store:  store,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Dispatch sends event for lead to every matching webhook. Delivery failures
// are logged and recorded, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, lead schemas.Lead, extra map[string]any) {
	ctx = context.WithoutCancel(ctx)

	hooks, err := d.store.FindSubscribed(ctx, lead.ClientID, lead.FunnelID)
	if err != nil {
		utils.Log.Error("failed to load webhooks",
			zap.String("event", event),
			zap.Int64("lead_id", lead.ID),
			zap.Error(err),
		)
		return
	}

	payload := d.buildPayload(event, lead, extra)
	for _, hook := range hooks {
		if !hook.Subscribes(event, lead.FunnelID) {
			continue
		}
		d.Send(ctx, hook, event, payload, nil)
	}
}

func (d *Dispatcher) buildPayload(event string, lead schemas.Lead, extra map[string]any) schemas.WebhookPayload {
	return schemas.WebhookPayload{
		Event:    event,
		ClientID: lead.ClientID,
		FunnelID: lead.FunnelID,
		LeadID:   lead.ID,
		Status:   lead.Status,
		Data: schemas.WebhookLeadData{
			Name:   lead.Name,
			Email:  lead.Email,
			Phone:  lead.Phone,
			Source: lead.Source,
			Value:  lead.Value,
			Notes:  lead.Notes,
		},
		Timestamp: d.now().Format(time.RFC3339),
		Extra:     extra,
	}
}

// Send performs a single POST of payload to hook and records it in
// webhook_logs. The result is also handed back for callers that report it.
func (d *Dispatcher) Send(ctx context.Context, hook schemas.Webhook, event string, payload any, headers map[string]string) DeliveryResult {
	logger := utils.Log.With(
		zap.Int64("webhook_id", hook.ID),
		zap.String("event", event),
		zap.String("url", hook.URL),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to encode webhook payload", zap.Error(err))
		return DeliveryResult{Error: err.Error()}
	}

	result := d.post(ctx, hook.URL, event, body, headers)

	entry := schemas.WebhookLog{
		WebhookID:    hook.ID,
		EventType:    event,
		Payload:      body,
		ResponseBody: result.Response,
	}
	if result.StatusCode != 0 {
		status := result.StatusCode
		entry.ResponseStatus = &status
	}
	if result.Error != "" {
		entry.ResponseBody = result.Error
	}
	if err := d.store.InsertLog(ctx, entry); err != nil {
		logger.Error("failed to record webhook delivery", zap.Error(err))
	}

	if result.Succeeded() {
		logger.Info("webhook delivered", zap.Int("status", result.StatusCode))
	} else {
		logger.Warn("webhook delivery failed", zap.Int("status", result.StatusCode), zap.String("error", result.Error))
	}
	return result
}

func (d *Dispatcher) post(ctx context.Context, url, event string, body []byte, headers map[string]string) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set(HEADER_EVENT, event)
	req.Header.Set(HEADER_DELIVERY, uuid.NewString())
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	result := DeliveryResult{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, MAX_RESPONSE_BODY))
	if err != nil {
		result.Error = fmt.Sprintf("failed to read response body: %v", err)
	}
	result.Response = string(raw)
	return result
}
