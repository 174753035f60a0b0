package report

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"net/url"
	"time"
)

// wants reports whether metric was asked for. No metric flag means all of them.
func wants(params url.Values, metric string, metrics []string) bool {
	for _, m := range metrics {
		if params.Has(m) {
			return params.Has(metric)
		}
	}
	return true
}

var (
	leadMetrics   = []string{"leads_by_status", "leads_conversion_rate", "leads_won_value", "leads_by_source", "leads_by_stage"}
	clientMetrics = []string{"clients_total", "clients_new_per_month"}
)

func (h *Handler) GetByQuery(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())
	params := r.URL.Query()

	reportType := params.Get("type")
	if reportType != schemas.REPORT_TYPE_LEADS && reportType != schemas.REPORT_TYPE_CLIENTS {
		utils.SendResponse(w, http.StatusBadRequest, "Tipo de relatório inválido", nil, 0)
		return
	}
	if reportType == schemas.REPORT_TYPE_CLIENTS && !user.IsAdmin() {
		utils.SendResponse(w, http.StatusForbidden, "Acesso negado: privilégios de administrador necessários", nil, 0)
		return
	}

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

	filter := ReportFilter{ClientID: user.ScopedClientID(clientID), FunnelID: funnelID}
	if from, ok := utils.ParseDate(params.Get("from")); ok {
		filter.From = &from
	}
	if until, ok := utils.ParseDate(params.Get("until")); ok {
		if len(params.Get("until")) == len("2006-01-02") {
			until = until.Add(24*time.Hour - time.Second)
		}
		filter.Until = &until
	}

	ctx := r.Context()
	responseData := map[string]any{}

	handleErr := func(e error) bool {
		if e != nil {
			utils.SendDatabaseError(w, e, utils.CANNOT_BUILD_REPORT_IN_MYSQL)
			return true
		}
		return false
	}

	if reportType == schemas.REPORT_TYPE_LEADS {
		if wants(params, "leads_by_status", leadMetrics) || wants(params, "leads_conversion_rate", leadMetrics) {
			byStatus, err := h.repo.LeadsByStatus(ctx, filter)
			if handleErr(err) {
				return
			}
			if wants(params, "leads_by_status", leadMetrics) {
				responseData["leads_by_status"] = byStatus
			}
			if wants(params, "leads_conversion_rate", leadMetrics) {
				responseData["leads_conversion_rate"] = ConversionRate(byStatus)
			}
		}

		if wants(params, "leads_won_value", leadMetrics) {
			v, err := h.repo.LeadsWonValue(ctx, filter)
			if handleErr(err) {
				return
			}
			responseData["leads_won_value"] = v
		}

		if wants(params, "leads_by_source", leadMetrics) {
			v, err := h.repo.LeadsBySource(ctx, filter)
			if handleErr(err) {
				return
			}
			responseData["leads_by_source"] = v
		}

		if funnelID != nil && wants(params, "leads_by_stage", leadMetrics) {
			v, err := h.repo.LeadsByStage(ctx, *funnelID, filter)
			if handleErr(err) {
				return
			}
			responseData["leads_by_stage"] = v
		}
	}

	if reportType == schemas.REPORT_TYPE_CLIENTS {
		if wants(params, "clients_total", clientMetrics) {
			v, err := h.repo.ClientsTotal(ctx, filter)
			if handleErr(err) {
				return
			}
			responseData["clients_total"] = v
		}

		if wants(params, "clients_new_per_month", clientMetrics) {
			v, err := h.repo.ClientsNewPerMonth(ctx, filter)
			if handleErr(err) {
				return
			}
			responseData["clients_new_per_month"] = v
		}
	}

	utils.SendResponse(w, http.StatusOK, "", responseData, 0)
}
