/**
 * @description
 * HTTP handlers for the dashboard views: monthly summary, upcoming payments,
 * the fixed seven-day week view, and the spending forecast. Partial failures
 * from bad records come back inside the payload with HTTP 200, so one broken
 * subscription never blanks the whole dashboard.
 */
package api

import (
	"net/http"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/app"
	"github.com/HoanTQ/subcription-manager/internal/billing"
)

const defaultForecastMonths = 6

// DashboardHandler holds the dashboard service.
type DashboardHandler struct {
	service       *app.DashboardService
	lookaheadDays int
}

// NewDashboardHandler creates a new DashboardHandler. lookaheadDays is the
// default window for the upcoming view when the request does not set one.
func NewDashboardHandler(service *app.DashboardService, lookaheadDays int) *DashboardHandler {
	if lookaheadDays < 1 {
		lookaheadDays = billing.DefaultLookaheadDays
	}
	return &DashboardHandler{service: service, lookaheadDays: lookaheadDays}
}

func (h *DashboardHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	now := time.Now().UTC()
	month := time.Month(intQuery(r, "month", int(now.Month())))
	year := intQuery(r, "year", now.Year())
	if month < time.January || month > time.December {
		respondWithError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, month, year, now)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (h *DashboardHandler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	days := intQuery(r, "days", h.lookaheadDays)
	classified, err := h.service.Upcoming(r.Context(), userID, days, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, classified)
}

// handleWeek is the upcoming view pinned to a seven-day window.
func (h *DashboardHandler) handleWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	classified, err := h.service.Upcoming(r.Context(), userID, billing.WeekLookaheadDays, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, classified)
}

func (h *DashboardHandler) handleForecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	months := intQuery(r, "months", defaultForecastMonths)
	if months < 1 {
		months = defaultForecastMonths
	}

	result, err := h.service.Forecast(r.Context(), userID, months, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
