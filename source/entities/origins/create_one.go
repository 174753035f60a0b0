package origins

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"net/http"
	"strings"
)

type createOriginRequest struct {
	ClientID int64  `json:"client_id"`
	Name     string `json:"name" validate:"required,notblank"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.UserFromContext(r.Context())

	input := createOriginRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
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

	color := input.Color
	if color == "" {
		color = schemas.DEFAULT_STAGE_COLOR
	}

	id, err := h.repo.Create(r.Context(), schemas.Origin{
		ClientID: clientID,
		Name:     strings.TrimSpace(input.Name),
		Color:    color,
	})
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_INSERT_ORIGIN_TO_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "Origem criada com sucesso", map[string]int64{"id": id}, 0)
}
