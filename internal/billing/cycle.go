/**
 * @description
 * Billing cycle arithmetic. NextDueDate computes the due date one cycle after a
 * reference date. All computation is pure: no clock reads, no I/O. Dates are
 * treated as calendar dates (UTC midnight); callers normalize timezones first.
 */
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/domain"
)

var (
	// ErrInvalidCycle is returned for an unrecognized cycle kind. This is a
	// caller programming error, not a retryable condition.
	ErrInvalidCycle = errors.New("invalid billing cycle")

	// ErrMissingCycleDays is returned when a CUSTOM_DAYS cycle carries a day
	// count below 1.
	ErrMissingCycleDays = errors.New("cycle days must be at least 1 for custom cycles")
)

// NextDueDate returns the calendar date one billing cycle after ref.
//
// Month and year additions preserve the day-of-month when possible and clip to
// the last day of the target month otherwise: Jan 31 + one month is Feb 29 in a
// leap year and Feb 28 otherwise; Feb 29 + one year is Feb 28. The result is
// always strictly after ref. cycleDays is consulted only for CycleCustomDays.
func NextDueDate(ref time.Time, cycle domain.Cycle, cycleDays int) (time.Time, error) {
	ref = startOfDay(ref)

	switch cycle {
	case domain.CycleDaily:
		return ref.AddDate(0, 0, 1), nil
	case domain.CycleMonthly:
		return addMonthsClipped(ref, 1), nil
	case domain.CycleYearly:
		return addMonthsClipped(ref, 12), nil
	case domain.CycleCustomDays:
		if cycleDays < 1 {
			return time.Time{}, ErrMissingCycleDays
		}
		return ref.AddDate(0, 0, cycleDays), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCycle, cycle)
	}
}

// addMonthsClipped adds months to t, preserving the day-of-month when possible.
// If the day does not exist in the target month (e.g. Feb 31), the result is
// clipped to the last day of that month. Plain AddDate would overflow instead
// (Jan 31 + 1 month = Mar 2/3).
func addMonthsClipped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)

	// Day 0 of the following month is the last day of the target month.
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// startOfDay truncates t to UTC midnight.
func startOfDay(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
}
