package schemas

import "time"

type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Active       bool      `json:"active"`
	FunnelsCount int       `json:"funnels_count"`
	LeadsCount   int       `json:"leads_count"`
	UsersCount   int       `json:"users_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
