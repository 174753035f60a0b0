// Package settings exposes the branding shared by every CRM user.
package settings

import (
	"crm/source/utils"
	"net/http"
	"strings"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Get(r.Context())
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_FIND_SETTINGS_IN_REDIS)
		return
	}
	utils.SendResponse(w, http.StatusOK, "", settings, 0)
}

type updateSettingsRequest struct {
	CRMName *string `json:"crm_name" validate:"omitnil,notblank"`
	LogoURL *string `json:"logo_url" validate:"omitempty,http_url"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	input := updateSettingsRequest{}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Dados da requisição inválidos", nil, 0)
		return
	}
	if input.LogoURL != nil {
		logo := strings.TrimSpace(*input.LogoURL)
		input.LogoURL = &logo
	}
	if err := utils.Validate.Struct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, utils.ValidationMessage(err), nil, 0)
		return
	}

	patch := SettingsPatch{LogoURL: input.LogoURL}
	if input.CRMName != nil {
		name := strings.TrimSpace(*input.CRMName)
		patch.CRMName = &name
	}

	settings, err := h.store.Update(r.Context(), patch)
	if err != nil {
		utils.SendDatabaseError(w, err, utils.CANNOT_UPDATE_SETTINGS_IN_REDIS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Configurações atualizadas com sucesso", settings, 0)
}
