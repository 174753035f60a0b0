package schemas

import "time"

const (
	ROLE_ADMIN  = "admin"
	ROLE_CLIENT = "client"
)

type User struct {
	ID           int64     `json:"id"`
	ClientID     *int64    `json:"client_id"`
	ClientName   *string   `json:"client_name"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
