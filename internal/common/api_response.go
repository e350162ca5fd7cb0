package common

import (
	"encoding/json"
	"net/http"

	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/models/dtos"
)

// RespondJSON writes body as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("JSON encode failed", "error", err.Error())
	}
}

// RespondError writes the {success:false,error} failure body.
func RespondError(w http.ResponseWriter, code int, message string) {
	RespondJSON(w, code, dtos.SyncErrorResponse{Success: false, Error: message})
}
