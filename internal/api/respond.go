/**
 * @description
 * JSON response helpers. Every endpoint answers with the same envelope:
 * {"success": bool, "data": ..., "error": string|null}.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HoanTQ/subcription-manager/internal/app"
	"github.com/HoanTQ/subcription-manager/internal/store"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error"`
}

// respondWithJSON writes a success envelope.
func respondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	response, err := json.Marshal(envelope{Success: true, Data: data})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes an error envelope.
func respondWithError(w http.ResponseWriter, code int, message string) {
	response, err := json.Marshal(envelope{Error: &message})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError maps service-layer errors onto HTTP statuses.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrSubscriptionNotFound),
		errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
