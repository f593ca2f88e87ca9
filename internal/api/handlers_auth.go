/**
 * @description
 * HTTP handlers for registration, login, and session introspection.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/HoanTQ/subcription-manager/internal/app"
)

// AuthHandler holds the auth service used by the auth endpoints.
type AuthHandler struct {
	service *app.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *app.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// handleLogout exists for API symmetry; tokens are stateless, so the client
// discards its copy.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
