// Package users lets administrators manage the accounts that sign in to the CRM.
package users

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}
