/**
 * @description
 * Dashboard business logic: monthly summaries, upcoming-payment views, and
 * multi-month forecasts. This layer fetches the user's ACTIVE subscriptions
 * and hands them to the pure billing package together with an injected "now",
 * so the computation itself never touches the clock or the database.
 */
package app

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/billing"
	"github.com/HoanTQ/subcription-manager/internal/domain"
)

// TopSubscription is one row of the top-by-amount list.
type TopSubscription struct {
	ServiceName string       `json:"serviceName"`
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Cycle       domain.Cycle `json:"cycle"`
}

// SummaryTotals carries the headline numbers of the dashboard summary.
type SummaryTotals struct {
	MonthlyTotal             float64 `json:"monthlyTotal"`
	Next30DaysTotal          float64 `json:"next30DaysTotal"`
	TotalActiveSubscriptions int     `json:"totalActiveSubscriptions"`
	TargetMonth              int     `json:"targetMonth"`
	TargetYear               int     `json:"targetYear"`
}

// DashboardSummary is the full summary payload.
type DashboardSummary struct {
	Summary               SummaryTotals         `json:"summary"`
	MonthlySubscriptions  []billing.MonthEntry  `json:"monthlySubscriptions"`
	UpcomingSubscriptions []billing.DueItem     `json:"upcomingSubscriptions"`
	TopSubscriptions      []TopSubscription     `json:"topSubscriptions"`
	Errors                []billing.RecordError `json:"errors"`
}

// ForecastSummary aggregates a multi-month forecast.
type ForecastSummary struct {
	TotalMonths    int     `json:"totalMonths"`
	AverageMonthly float64 `json:"averageMonthly"`
	TotalForecast  float64 `json:"totalForecast"`
}

// ForecastResult is the full forecast payload.
type ForecastResult struct {
	Forecast []billing.MonthForecast `json:"forecast"`
	Summary  ForecastSummary         `json:"summary"`
}

// DashboardService computes dashboard views over a user's subscriptions.
type DashboardService struct {
	repo   SubscriptionRepository
	logger *slog.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(repo SubscriptionRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

// Summary computes the dashboard headline view for a target month.
func (s *DashboardService) Summary(ctx context.Context, userID string, month time.Month, year int, now time.Time) (*DashboardSummary, error) {
	subs, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	monthly := billing.MonthlyTotal(subs, month, year)
	classified := billing.ClassifyUpcoming(subs, now, billing.DefaultLookaheadDays)

	// Upcoming = everything due from today through the window; overdue rows
	// are excluded here, they have their own view. dueSoon and later are each
	// sorted and dueSoon tops out below later, so appending keeps order.
	upcoming := make([]billing.DueItem, 0, len(classified.DueSoon)+len(classified.Later))
	upcoming = append(upcoming, classified.DueSoon...)
	upcoming = append(upcoming, classified.Later...)

	var next30 float64
	for _, item := range upcoming {
		next30 += item.Amount
	}

	top := make([]TopSubscription, 0, len(subs))
	for _, sub := range subs {
		top = append(top, TopSubscription{
			ServiceName: sub.ServiceName,
			Amount:      sub.AmountPerCycle,
			Currency:    sub.Currency,
			Cycle:       sub.Cycle,
		})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	if len(top) > 5 {
		top = top[:5]
	}

	return &DashboardSummary{
		Summary: SummaryTotals{
			MonthlyTotal:             monthly.Total,
			Next30DaysTotal:          next30,
			TotalActiveSubscriptions: len(subs),
			TargetMonth:              int(month),
			TargetYear:               year,
		},
		MonthlySubscriptions:  monthly.Subscriptions,
		UpcomingSubscriptions: upcoming,
		TopSubscriptions:      top,
		Errors:                classified.Errors,
	}, nil
}

// Upcoming classifies the user's active subscriptions into overdue, due-soon,
// and later buckets within the lookahead window.
func (s *DashboardService) Upcoming(ctx context.Context, userID string, lookaheadDays int, now time.Time) (*billing.Classification, error) {
	subs, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	classified := billing.ClassifyUpcoming(subs, now, lookaheadDays)
	return &classified, nil
}

// Forecast projects monthly totals for the coming months.
func (s *DashboardService) Forecast(ctx context.Context, userID string, monthsAhead int, now time.Time) (*ForecastResult, error) {
	subs, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	months := billing.Forecast(subs, monthsAhead, now)

	var total float64
	for _, m := range months {
		total += m.Total
	}
	summary := ForecastSummary{
		TotalMonths:   len(months),
		TotalForecast: total,
	}
	if len(months) > 0 {
		summary.AverageMonthly = total / float64(len(months))
	}

	return &ForecastResult{Forecast: months, Summary: summary}, nil
}
