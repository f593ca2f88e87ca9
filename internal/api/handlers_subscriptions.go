/**
 * @description
 * HTTP handlers for subscription CRUD, status transitions, and cycle advance.
 * Handlers parse and normalize request data (date strings, defaults), then
 * delegate every business decision to the service layer.
 */
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HoanTQ/subcription-manager/internal/app"
	"github.com/HoanTQ/subcription-manager/internal/domain"
)

const defaultReminderDays = 3

// SubscriptionHandler holds the subscription service.
type SubscriptionHandler struct {
	service *app.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service *app.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

type subscriptionRequest struct {
	AccountID        string  `json:"accountId"`
	ServiceName      string  `json:"serviceName"`
	PlanName         string  `json:"planName"`
	SubscriptionType string  `json:"subscriptionType"`
	Cycle            string  `json:"cycle"`
	CycleDays        int     `json:"cycleDays"`
	AmountPerCycle   float64 `json:"amountPerCycle"`
	Currency         string  `json:"currency"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	NextDueDate      string  `json:"nextDueDate"`
	ReminderDays     *int    `json:"reminderDays"`
	Notes            string  `json:"notes"`
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s, expected YYYY-MM-DD", field)
	}
	return t, nil
}

func (req *subscriptionRequest) toInput() (app.SubscriptionInput, error) {
	in := app.SubscriptionInput{
		AccountID:      req.AccountID,
		ServiceName:    req.ServiceName,
		PlanName:       req.PlanName,
		Type:           domain.SubscriptionType(req.SubscriptionType),
		Cycle:          domain.Cycle(req.Cycle),
		CycleDays:      req.CycleDays,
		AmountPerCycle: req.AmountPerCycle,
		Currency:       req.Currency,
		ReminderDays:   defaultReminderDays,
		Notes:          req.Notes,
	}
	if req.ReminderDays != nil {
		in.ReminderDays = *req.ReminderDays
	}

	if req.StartDate != "" {
		start, err := parseDate(req.StartDate, "startDate")
		if err != nil {
			return in, err
		}
		in.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate, "endDate")
		if err != nil {
			return in, err
		}
		in.EndDate = &end
	}
	if req.NextDueDate != "" {
		due, err := parseDate(req.NextDueDate, "nextDueDate")
		if err != nil {
			return in, err
		}
		in.NextDueDate = &due
	}
	return in, nil
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (h *SubscriptionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status := domain.Status(r.URL.Query().Get("status"))
	dueWithinDays := intQuery(r, "dueWithinDays", 0)
	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "pageSize", 50)

	list, err := h.service.List(r.Context(), userID, status, dueWithinDays, page, pageSize)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *SubscriptionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sub, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "subscriptionID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "subscriptionID"), in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.service.Advance(r.Context(), userID, chi.URLParam(r, "subscriptionID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *SubscriptionHandler) handleStatusChange(status domain.Status, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		subscriptionID := chi.URLParam(r, "subscriptionID")
		var err error
		switch status {
		case domain.StatusPaused:
			err = h.service.Pause(r.Context(), userID, subscriptionID)
		case domain.StatusActive:
			err = h.service.Resume(r.Context(), userID, subscriptionID)
		case domain.StatusCancelled:
			err = h.service.Cancel(r.Context(), userID, subscriptionID)
		}
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{
			"subscriptionId": subscriptionID,
			"status":         string(status),
			"message":        message,
		})
	}
}

func (h *SubscriptionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "subscriptionID")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Subscription deleted successfully"})
}
