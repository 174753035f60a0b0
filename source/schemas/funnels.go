package schemas

import "time"

const DEFAULT_STAGE_COLOR = "#3b82f6"

type FunnelStage struct {
	ID        int64     `json:"id,omitempty"`
	FunnelID  int64     `json:"funnel_id,omitempty"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type Funnel struct {
	ID          int64         `json:"id"`
	ClientID    int64         `json:"client_id"`
	ClientName  string        `json:"client_name,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
	LeadsCount  int           `json:"leads_count"`
	StagesCount int           `json:"stages_count"`
	Stages      []FunnelStage `json:"stages"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// DefaultStages is the pipeline every new client starts with.
func DefaultStages() []FunnelStage {
	return []FunnelStage{
		{Name: "Novo Lead", Position: 1, Color: "#ef4444"},
		{Name: "Em Contato", Position: 2, Color: "#f97316"},
		{Name: "Proposta", Position: 3, Color: "#eab308"},
		{Name: "Negociação", Position: 4, Color: "#3b82f6"},
		{Name: "Fechamento", Position: 5, Color: "#22c55e"},
	}
}
