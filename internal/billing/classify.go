/**
 * @description
 * Due-date classification and aggregation over a user's subscriptions.
 *
 * ClassifyUpcoming partitions subscriptions into overdue / due-soon / later
 * buckets relative to an injected "now"; MonthlyTotal and Forecast produce the
 * dashboard rollups. Callers are expected to pre-filter input to ACTIVE
 * subscriptions; the functions here treat every record as eligible.
 *
 * Totals are summed across currencies without conversion. That is a carried
 * over limitation of the API contract, not an oversight; see DESIGN.md.
 */
package billing

import (
	"math"
	"sort"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/domain"
)

const (
	// DefaultLookaheadDays is the lookahead window used when the caller does
	// not specify one.
	DefaultLookaheadDays = 30

	// WeekLookaheadDays is the fixed window of the "this week" view.
	WeekLookaheadDays = 7

	// dueSoonThresholdDays separates dueSoon from later. Fixed, independent of
	// the lookahead window.
	dueSoonThresholdDays = 7
)

// DueItem is an enriched subscription summary placed into a bucket.
type DueItem struct {
	SubscriptionID string    `json:"subscriptionId"`
	ServiceName    string    `json:"serviceName"`
	PlanName       string    `json:"planName,omitempty"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	DueDate        time.Time `json:"dueDate"`
	DaysUntilDue   int       `json:"daysUntilDue"`
	ReminderDays   int       `json:"reminderDays"`
}

// RecordError reports a subscription skipped during classification because of
// bad data. One corrupt record never aborts the whole pass.
type RecordError struct {
	SubscriptionID string `json:"subscriptionId"`
	ServiceName    string `json:"serviceName,omitempty"`
	Reason         string `json:"reason"`
}

// BucketSummary carries per-bucket counts and the combined amount across all
// three buckets. The total mixes currencies without conversion.
type BucketSummary struct {
	OverdueCount int     `json:"overdueCount"`
	DueSoonCount int     `json:"dueSoonCount"`
	LaterCount   int     `json:"laterCount"`
	TotalAmount  float64 `json:"totalAmount"`
}

// Classification is the full output of ClassifyUpcoming.
type Classification struct {
	Overdue []DueItem     `json:"overdue"`
	DueSoon []DueItem     `json:"dueSoon"`
	Later   []DueItem     `json:"later"`
	Errors  []RecordError `json:"errors"`
	Summary BucketSummary `json:"summary"`
}

// DaysUntil returns the whole number of days from now until due, rounding
// partial days up. due is truncated to its calendar date first, so a payment
// due later today yields 0 and one due three days ago yields -3.
func DaysUntil(now, due time.Time) int {
	diff := startOfDay(due).Sub(startOfDay(now))
	return int(math.Ceil(diff.Hours() / 24))
}

// ClassifyUpcoming partitions subs into overdue, due-soon, and later buckets.
//
//   - overdue: daysUntilDue < 0
//   - dueSoon: 0 <= daysUntilDue <= 7
//   - later:   daysUntilDue > 7 and due date within now+lookaheadDays
//
// Subscriptions due beyond the lookahead window are excluded from every
// bucket. Records with a missing due date are collected into Errors and
// skipped. Each bucket is sorted ascending by daysUntilDue; ties keep input
// order.
func ClassifyUpcoming(subs []domain.Subscription, now time.Time, lookaheadDays int) Classification {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}

	out := Classification{
		Overdue: []DueItem{},
		DueSoon: []DueItem{},
		Later:   []DueItem{},
		Errors:  []RecordError{},
	}
	windowEnd := startOfDay(now).AddDate(0, 0, lookaheadDays)

	for _, sub := range subs {
		if sub.NextDueDate == nil || sub.NextDueDate.IsZero() {
			out.Errors = append(out.Errors, RecordError{
				SubscriptionID: sub.ID,
				ServiceName:    sub.ServiceName,
				Reason:         "missing next due date",
			})
			continue
		}

		due := startOfDay(*sub.NextDueDate)
		item := DueItem{
			SubscriptionID: sub.ID,
			ServiceName:    sub.ServiceName,
			PlanName:       sub.PlanName,
			Amount:         sub.AmountPerCycle,
			Currency:       sub.Currency,
			DueDate:        due,
			DaysUntilDue:   DaysUntil(now, due),
			ReminderDays:   sub.ReminderDays,
		}

		switch {
		case item.DaysUntilDue < 0:
			out.Overdue = append(out.Overdue, item)
		case item.DaysUntilDue <= dueSoonThresholdDays:
			out.DueSoon = append(out.DueSoon, item)
		case !due.After(windowEnd):
			out.Later = append(out.Later, item)
		}
	}

	sortByDays(out.Overdue)
	sortByDays(out.DueSoon)
	sortByDays(out.Later)

	out.Summary = BucketSummary{
		OverdueCount: len(out.Overdue),
		DueSoonCount: len(out.DueSoon),
		LaterCount:   len(out.Later),
	}
	for _, bucket := range [][]DueItem{out.Overdue, out.DueSoon, out.Later} {
		for _, item := range bucket {
			out.Summary.TotalAmount += item.Amount
		}
	}

	return out
}

// MonthEntry is a subscription contributing to a monthly rollup.
type MonthEntry struct {
	SubscriptionID string    `json:"subscriptionId"`
	ServiceName    string    `json:"serviceName"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	DueDate        time.Time `json:"dueDate"`
}

// MonthTotal is the rollup for one calendar month.
type MonthTotal struct {
	Total         float64      `json:"total"`
	Subscriptions []MonthEntry `json:"subscriptions"`
}

// MonthlyTotal sums subscriptions whose next due date falls within the given
// calendar month. Records without a due date contribute nothing.
func MonthlyTotal(subs []domain.Subscription, month time.Month, year int) MonthTotal {
	out := MonthTotal{Subscriptions: []MonthEntry{}}

	for _, sub := range subs {
		if sub.NextDueDate == nil || sub.NextDueDate.IsZero() {
			continue
		}
		due := startOfDay(*sub.NextDueDate)
		if due.Month() != month || due.Year() != year {
			continue
		}
		out.Total += sub.AmountPerCycle
		out.Subscriptions = append(out.Subscriptions, MonthEntry{
			SubscriptionID: sub.ID,
			ServiceName:    sub.ServiceName,
			Amount:         sub.AmountPerCycle,
			Currency:       sub.Currency,
			DueDate:        due,
		})
	}

	return out
}

// MonthForecast is the projected rollup for one future month.
type MonthForecast struct {
	Month             int          `json:"month"`
	Year              int          `json:"year"`
	MonthName         string       `json:"monthName"`
	Total             float64      `json:"total"`
	SubscriptionCount int          `json:"subscriptionCount"`
	Subscriptions     []MonthEntry `json:"subscriptions"`
}

// Forecast produces rollups for monthsAhead consecutive calendar months
// starting at the month containing now.
//
// Only each subscription's current next due date is considered; cycles are not
// simulated forward, so a monthly subscription contributes to exactly one of
// the forecast months.
func Forecast(subs []domain.Subscription, monthsAhead int, now time.Time) []MonthForecast {
	if monthsAhead < 1 {
		monthsAhead = 1
	}

	out := make([]MonthForecast, 0, monthsAhead)
	for i := 0; i < monthsAhead; i++ {
		target := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		mt := MonthlyTotal(subs, target.Month(), target.Year())
		out = append(out, MonthForecast{
			Month:             int(target.Month()),
			Year:              target.Year(),
			MonthName:         target.Month().String(),
			Total:             mt.Total,
			SubscriptionCount: len(mt.Subscriptions),
			Subscriptions:     mt.Subscriptions,
		})
	}

	return out
}

func sortByDays(items []DueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysUntilDue < items[j].DaysUntilDue
	})
}
