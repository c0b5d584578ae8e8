package server

import (
	"encoding/json"
	"net/http"

	"github.com/at-ishikawa/studylog/internal/studylog"
)

type errorResponse struct {
	Error  string                `json:"error"`
	Fields []studylog.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
