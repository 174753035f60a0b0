// Package origins keeps the per-client catalogue of lead sources.
package origins

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"net/http"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// loadScoped fetches an origin and writes the error response itself when the
// caller may not see it.
func (h *Handler) loadScoped(w http.ResponseWriter, r *http.Request) (*schemas.Origin, bool) {
	user, _ := middlewares.UserFromContext(r.Context())

	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "ID da origem inválido", nil, 0)
		return nil, false
	}

	origin, err := h.repo.FindByID(r.Context(), id)
	if errors.Is(err, ErrOriginNotFound) || (err == nil && !user.CanAccessClient(origin.ClientID)) {
		utils.SendResponse(w, http.StatusNotFound, "Origem não encontrada", nil, 0)
		return nil, false
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_ORIGINS_IN_MYSQL)
		return nil, false
	}
	return origin, true
}
