package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/closingmachines/leads-api/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUsecaseError maps domain errors to 422 with their message and hides
// technical errors behind a generic 500.
func writeUsecaseError(w http.ResponseWriter, err error) {
	if usecase.IsDomainError(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	log.Printf("[HTTP] internal error: %s", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
