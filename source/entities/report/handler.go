// Package report aggregates lead and client figures for the dashboard.
package report

import "crm/source/schemas"

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ConversionRate is won leads over every lead, as a rounded percentage.
func ConversionRate(byStatus map[string]int64) int64 {
	var total int64
	for _, count := range byStatus {
		total += count
	}
	if total == 0 {
		return 0
	}
	won := byStatus[schemas.LEAD_STATUS_WON]
	return (won*100 + total/2) / total
}
