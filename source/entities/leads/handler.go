// Package leads tracks prospects as they move through a client's funnels.
package leads

import (
	"context"
	"crm/source/entities/leads_history"
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"
)

// Notifier delivers lead events to subscribed webhooks.
type Notifier interface {
	Dispatch(ctx context.Context, event string, lead schemas.Lead, extra map[string]any)
}

// Broadcaster pushes board updates to connected browsers.
type Broadcaster interface {
	Broadcast(msg schemas.BoardMessage)
}

type Handler struct {
	repo     Repository
	notifier Notifier
	history  leadshistory.Store
	board    Broadcaster
}

func NewHandler(repo Repository, notifier Notifier, history leadshistory.Store, board Broadcaster) *Handler {
	return &Handler{repo: repo, notifier: notifier, history: history, board: board}
}

// loadScoped resolves {id} to a lead the caller may see, writing the error
// response itself otherwise.
func (h *Handler) loadScoped(w http.ResponseWriter, r *http.Request) (*schemas.Lead, bool) {
	user, _ := middlewares.UserFromContext(r.Context())

	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do lead inválido", nil, 0)
		return nil, false
	}

	lead, err := h.repo.FindByID(r.Context(), id, user.ScopedClientID(nil))
	if errors.Is(err, ErrLeadNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Lead não encontrado", nil, 0)
		return nil, false
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_LEAD_BY_ID_IN_MYSQL)
		return nil, false
	}
	return lead, true
}

// reload re-reads a lead after a write so events carry the stored state.
// The fallback keeps events flowing if the read fails.
func (h *Handler) reload(ctx context.Context, id int64, fallback schemas.Lead) schemas.Lead {
	lead, err := h.repo.FindByID(ctx, id, nil)
	if err != nil {
		return fallback
	}
	return *lead
}

// track records history and refreshes open boards after a mutation.
func (h *Handler) track(ctx context.Context, lead schemas.Lead, entry schemas.LeadHistory, boardAction string) {
	user, _ := middlewares.UserFromContext(ctx)

	entry.LeadID = lead.ID
	entry.ClientID = lead.ClientID
	entry.FunnelID = lead.FunnelID
	entry.RelatedUser = user.UserID
	h.history.Record(ctx, entry)

	h.board.Broadcast(schemas.BoardMessage{
		Action:   boardAction,
		LeadID:   lead.ID,
		ClientID: lead.ClientID,
		FunnelID: lead.FunnelID,
		StageID:  lead.StageID,
		Details:  entry.Action,
	})
}
