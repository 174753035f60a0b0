package leads

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type createLeadRequest struct {
	ClientID int64    `json:"client_id"`
	FunnelID int64    `json:"funnel_id" validate:"required,gt=0"`
	Name     string   `json:"name" validate:"required,notblank"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone"`
	Source   string   `json:"source"`
	Value    float64  `json:"value" validate:"gte=0"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())

	input := createLeadRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Nome e funil são obrigatórios", nil, 0)
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	clientID := input.ClientID
	if !user.IsAdmin() {
		clientID = *user.ScopedClientID(nil)
	}
	if clientID <= 0 {
		utils.SendResponse(w, http.StatusBadRequest, "Cliente é obrigatório", nil, 0)
		return
	}

	owned, err := h.repo.FunnelBelongsTo(r.Context(), input.FunnelID, clientID)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_LEAD_TO_MYSQL)
		return
	}
	if !owned {
		utils.SendResponse(w, http.StatusBadRequest, "Funil não encontrado ou não pertence ao cliente", nil, 0)
		return
	}

	stage, err := h.repo.FirstStage(r.Context(), input.FunnelID)
	if errors.Is(err, ErrNoStages) {
		utils.SendResponse(w, http.StatusBadRequest, "Funil não possui estágios configurados", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_LEAD_TO_MYSQL)
		return
	}

	lead := schemas.Lead{
		ClientID: clientID,
		FunnelID: input.FunnelID,
		StageID:  stage.ID,
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Phone:    strings.TrimSpace(input.Phone),
		Source:   strings.TrimSpace(input.Source),
		Value:    input.Value,
		Notes:    strings.TrimSpace(input.Notes),
		Tags:     cleanTags(input.Tags),
		Status:   schemas.LEAD_STATUS_ACTIVE,
	}

	lead.ID, err = h.repo.Create(r.Context(), lead)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_LEAD_TO_MYSQL)
		return
	}

	lead = h.reload(r.Context(), lead.ID, lead)
	h.track(r.Context(), lead, schemas.LeadHistory{Action: schemas.LEAD_HISTORY_CREATED, NewStage: stage.Name}, schemas.BOARD_ACTION_LEAD_CREATED)
	h.notifier.Dispatch(r.Context(), schemas.EVENT_LEAD_CREATED, lead, nil)

	utils.Log.Info("lead created", zap.Int64("lead_id", lead.ID), zap.Int64("client_id", clientID), zap.Int64("funnel_id", lead.FunnelID))
	utils.SendResponse(w, http.StatusCreated, "Lead criado com sucesso", map[string]int64{"id": lead.ID}, 0)
}

func cleanTags(tags []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
