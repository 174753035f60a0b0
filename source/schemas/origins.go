package schemas

import "time"

type Origin struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func DefaultOrigins() []Origin {
	return []Origin{
		{Name: "Google Ads", Color: "#4285f4", IsDefault: true},
		{Name: "Meta Ads", Color: "#1877f2", IsDefault: true},
		{Name: "Indicação", Color: "#10b981", IsDefault: true},
		{Name: "Não Rastreado", Color: "#6b7280", IsDefault: true},
		{Name: "Outras Origens", Color: "#8b5cf6", IsDefault: true},
	}
}
