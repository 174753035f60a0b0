package schemas

import (
	"encoding/json"
	"time"
)

const (
	EVENT_LEAD_CREATED  = "lead_created"
	EVENT_LEAD_UPDATED  = "lead_updated"
	EVENT_STAGE_CHANGED = "stage_changed"
	EVENT_LEAD_WON      = "lead_won"
	EVENT_LEAD_LOST     = "lead_lost"
	EVENT_TEST          = "test"
)

var WebhookEvents = []string{EVENT_LEAD_CREATED, EVENT_LEAD_UPDATED, EVENT_STAGE_CHANGED, EVENT_LEAD_WON, EVENT_LEAD_LOST}

type Webhook struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	ClientName string    `json:"client_name,omitempty"`
	FunnelID   *int64    `json:"funnel_id"`
	FunnelName *string   `json:"funnel_name"`
	URL        string    `json:"url"`
	Events     []string  `json:"events"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Subscribes reports whether the webhook fires for event on a lead of funnelID.
func (w Webhook) Subscribes(event string, funnelID int64) bool {
	if !w.Active {
		return false
	}
	if w.FunnelID != nil && *w.FunnelID != funnelID {
		return false
	}
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

type WebhookLog struct {
	ID             int64           `json:"id"`
	WebhookID      int64           `json:"webhook_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	ResponseStatus *int            `json:"response_status"`
	ResponseBody   string          `json:"response_body"`
	CreatedAt      time.Time       `json:"created_at"`
}

type WebhookLeadData struct {
	Name   string  `json:"nome"`
	Email  string  `json:"email"`
	Phone  string  `json:"telefone"`
	Source string  `json:"origem"`
	Value  float64 `json:"valor"`
	Notes  string  `json:"observacoes"`
}

// WebhookPayload is the body POSTed to subscribers. Extra keys are merged
// at the top level when marshalled.
type WebhookPayload struct {
	Event     string          `json:"evento"`
	ClientID  int64           `json:"cliente_id"`
	FunnelID  int64           `json:"funil_id"`
	LeadID    any             `json:"lead_id"`
	Status    string          `json:"status"`
	Data      WebhookLeadData `json:"dados"`
	Timestamp string          `json:"timestamp"`
	Extra     map[string]any  `json:"-"`
}

func (p WebhookPayload) MarshalJSON() ([]byte, error) {
	type plain WebhookPayload
	base, err := json.Marshal(plain(p))
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	merged := map[string]any{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
