package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// detailResponse is the error body shape of the account service:
// a bare {"detail": "..."} object.
type detailResponse struct {
	Detail string `json:"detail"`
}

// writeDetail writes an error response in the service's detail format.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(detailResponse{Detail: detail}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// writeJSON writes a 200 JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
