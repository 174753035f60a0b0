package leads

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"strings"
)

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())
	query := r.URL.Query()

	clientID, err := utils.QueryID(r, "client_id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do cliente inválido", nil, 0)
		return
	}
	funnelID, err := utils.QueryID(r, "funnel_id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID do funil inválido", nil, 0)
		return
	}

	filter := LeadFilter{
		ClientID: user.ScopedClientID(clientID),
		FunnelID: funnelID,
		Source:   strings.TrimSpace(query.Get("source")),
		Query:    strings.TrimSpace(query.Get("q")),
	}

	// An absent status means active leads only; an explicit empty one means all.
	status := schemas.LEAD_STATUS_ACTIVE
	if query.Has("status") {
		status = query.Get("status")
	}
	if status != "" {
		if !schemas.IsValidLeadStatus(status) {
			utils.SendResponse(w, http.StatusBadRequest, "Status inválido: "+status, nil, 0)
			return
		}
		filter.Status = &status
	}

	leads, err := h.repo.FindAll(r.Context(), filter)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_LEADS_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", leads, 0)
}
