package origins

import (
	"crm/source/utils"
	"errors"
	"net/http"
	"strings"
)

type updateOriginRequest struct {
	Name  *string `json:"name" validate:"omitnil,notblank"`
	Color *string `json:"color" validate:"omitnil,hexcolor"`
}

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	input := updateOriginRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}
	if input.Name == nil && input.Color == nil {
		utils.SendResponse(w, http.StatusBadRequest, "Nenhum campo para atualizar", nil, 0)
		return
	}

	patch := OriginPatch{Color: input.Color}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}

	err := h.repo.Update(r.Context(), origin.ID, patch)
	if errors.Is(err, ErrOriginNotFound) {
		utils.SendResponse(w, http.StatusNotFound, "Origem não encontrada", nil, 0)
		return
	}
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_ORIGIN_IN_MYSQL)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Origem atualizada com sucesso", nil, 0)
}
