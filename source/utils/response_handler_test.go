package utils

import (
	"crm/source/schemas"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) schemas.ApiResponse {
	t.Helper()
	var body schemas.ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		message     string
		data        any
		code        int
		wantSuccess bool
		wantMessage string
		wantError   string
	}{
		{
			name:        "success carries message and data",
			status:      http.StatusCreated,
			message:     "Cliente criado com sucesso",
			data:        map[string]int64{"id": 7},
			wantSuccess: true,
			wantMessage: "Cliente criado com sucesso",
		},
		{
			name:      "client error puts message in error",
			status:    http.StatusBadRequest,
			message:   "Nome é obrigatório",
			wantError: "Nome é obrigatório",
		},
		{
			name:      "internal code hides message",
			status:    http.StatusInternalServerError,
			message:   "dial tcp: connection refused",
			code:      CANNOT_FIND_LEADS_IN_MYSQL,
			wantError: SendInternalError(CANNOT_FIND_LEADS_IN_MYSQL),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SendResponse(rec, tt.status, tt.message, tt.data, tt.code)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json; charset=UTF-8", rec.Header().Get("Content-Type"))

			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantSuccess, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantError, body.Error)
			if tt.data == nil {
				assert.Nil(t, body.Data)
			} else {
				assert.NotNil(t, body.Data)
			}
		})
	}
}

func TestSendInternalErrorIncludesCode(t *testing.T) {
	assert.Contains(t, SendInternalError(42), "(Cod: 42)")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/v1/leads", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Método não permitido", decodeEnvelope(t, rec).Error)

	rec = httptest.NewRecorder()
	MethodNotAllowed(rec, httptest.NewRequest(http.MethodOptions, "/v1/leads", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
