/**
 * @description
 * HTTP handlers for the credential vault. Stored passwords never appear in
 * list or detail responses; a dedicated reveal endpoint decrypts on demand.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HoanTQ/subcription-manager/internal/app"
)

// AccountHandler holds the account service.
type AccountHandler struct {
	service *app.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *app.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type accountRequest struct {
	ServiceName string `json:"serviceName"`
	LoginID     string `json:"loginId"`
	Password    string `json:"password"`
	URL         string `json:"url"`
	CategoryID  string `json:"categoryId"`
	Tags        string `json:"tags"`
	Notes       string `json:"notes"`
}

func (req *accountRequest) toInput() app.AccountInput {
	return app.AccountInput{
		ServiceName: req.ServiceName,
		LoginID:     req.LoginID,
		Password:    req.Password,
		URL:         req.URL,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Notes:       req.Notes,
	}
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "pageSize", 50)

	list, err := h.service.List(r.Context(), userID, search, category, page, pageSize)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.service.Create(r.Context(), userID, req.toInput())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, acc)
}

func (h *AccountHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	acc, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "accountID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, acc)
}

func (h *AccountHandler) handleRevealPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	password, err := h.service.Reveal(r.Context(), userID, chi.URLParam(r, "accountID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"password": password})
}

func (h *AccountHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "accountID"), req.toInput())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, acc)
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "accountID")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
