// Package clients manages the tenants of the CRM. Every route is admin only.
package clients

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}
