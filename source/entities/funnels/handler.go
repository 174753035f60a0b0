// Package funnels manages sales pipelines and their ordered stages.
package funnels

import (
	"crm/source/schemas"
	"strings"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type stageRequest struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func stagesFromRequest(input []stageRequest) ([]schemas.FunnelStage, string) {
	stages := make([]schemas.FunnelStage, 0, len(input))
	for i, s := range input {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, "Nome do estágio não pode estar vazio"
		}
		stages = append(stages, schemas.FunnelStage{
			ID:       s.ID,
			Name:     name,
			Position: i + 1,
			Color:    stageColor(s.Color),
		})
	}
	return stages, ""
}
