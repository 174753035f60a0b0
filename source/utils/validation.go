package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var Validate = newValidator()

var fieldLabels = map[string]string{
	"email":            "Email",
	"password":         "Senha",
	"current_password": "Senha atual",
	"new_password":     "Nova senha",
	"name":             "Nome",
	"client_id":        "Cliente",
	"funnel_id":        "Funil",
	"stage_id":         "ID do estágio",
	"url":              "URL",
	"events":           "Eventos",
	"status":           "Status",
	"stages":           "Estágios",
	"crm_name":         "Nome do CRM",
	"logo_url":         "URL do logo",
	"color":            "Cor",
	"phone":            "Telefone",
	"value":            "Valor",
	"role":             "Perfil",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMessage turns validator errors into a single human readable message.
func ValidationMessage(err error) string {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) || len(validationErr) == 0 {
		return "Dados da requisição inválidos"
	}

	e := validationErr[0]
	field, _, indexed := strings.Cut(e.Field(), "[")
	if indexed && field == "events" && e.Tag() == "oneof" {
		return fmt.Sprintf("Evento inválido: %v", e.Value())
	}
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s é obrigatório", label)
	case "notblank":
		return fmt.Sprintf("%s não pode estar vazio", label)
	case "email":
		return "Email inválido"
	case "url", "http_url":
		return "URL inválida"
	case "hexcolor":
		return "Cor inválida"
	case "min":
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("Pelo menos um item deve ser informado em %s", label)
		}
		return fmt.Sprintf("%s deve ter pelo menos %s caracteres", label, e.Param())
	case "oneof":
		return fmt.Sprintf("%s inválido: %v", label, e.Value())
	case "gt", "gte":
		return fmt.Sprintf("%s inválido", label)
	default:
		return fmt.Sprintf("%s é inválido", label)
	}
}
