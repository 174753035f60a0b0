package utils

import (
	"crm/source/schemas"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// SendResponse writes the JSON envelope. A non-zero internalErrorCode hides
// the real cause behind a generic message; any status >= 400 is a failure
// envelope carrying message as its error.
func SendResponse(w http.ResponseWriter, statusCode int, message string, data any, internalErrorCode int) {
	response := schemas.ApiResponse{}

	switch {
	case internalErrorCode != 0:
		response.Error = SendInternalError(internalErrorCode)
	case statusCode >= http.StatusBadRequest:
		response.Error = message
	default:
		response.Success = true
		response.Message = message
		response.Data = data
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		Log.Error("unable to write response stream", zap.Error(err))
	}
}

// SendDatabaseError logs err and answers with the generic internal error.
func SendDatabaseError(w http.ResponseWriter, err error, internalErrorCode int) {
	Log.Error("database operation failed", zap.Int("code", internalErrorCode), zap.Error(err))
	SendResponse(w, http.StatusInternalServerError, "", nil, internalErrorCode)
}

// MethodNotAllowed answers every verb a resource does not route.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		SendResponse(w, http.StatusOK, "", nil, 0)
		return
	}
	SendResponse(w, http.StatusMethodNotAllowed, "Método não permitido", nil, 0)
}
