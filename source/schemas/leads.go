package schemas

import "time"

const (
	LEAD_STATUS_ACTIVE = "active"
	LEAD_STATUS_WON    = "won"
	LEAD_STATUS_LOST   = "lost"
)

type Lead struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	FunnelID   int64     `json:"funnel_id"`
	StageID    int64     `json:"stage_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Source     string    `json:"source"`
	Value      float64   `json:"value"`
	Notes      string    `json:"notes"`
	Tags       []string  `json:"tags"`
	Status     string    `json:"status"`
	FunnelName string    `json:"funnel_name,omitempty"`
	StageName  string    `json:"stage_name,omitempty"`
	StageColor string    `json:"stage_color,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func IsValidLeadStatus(status string) bool {
	switch status {
	case LEAD_STATUS_ACTIVE, LEAD_STATUS_WON, LEAD_STATUS_LOST:
		return true
	}
	return false
}
