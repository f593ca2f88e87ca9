package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate_Cycles(t *testing.T) {
	cases := []struct {
		name      string
		ref       time.Time
		cycle     domain.Cycle
		cycleDays int
		want      time.Time
	}{
		{"daily", date(2024, time.January, 15), domain.CycleDaily, 0, date(2024, time.January, 16)},
		{"monthly mid-month", date(2024, time.January, 15), domain.CycleMonthly, 0, date(2024, time.February, 15)},
		{"monthly across year end", date(2023, time.December, 5), domain.CycleMonthly, 0, date(2024, time.January, 5)},
		{"monthly clips jan 31 to feb 29", date(2024, time.January, 31), domain.CycleMonthly, 0, date(2024, time.February, 29)},
		{"monthly clips jan 31 to feb 28 off leap year", date(2023, time.January, 31), domain.CycleMonthly, 0, date(2023, time.February, 28)},
		{"monthly clips may 31 to jun 30", date(2024, time.May, 31), domain.CycleMonthly, 0, date(2024, time.June, 30)},
		{"yearly", date(2024, time.March, 10), domain.CycleYearly, 0, date(2025, time.March, 10)},
		{"yearly clips leap day to feb 28", date(2024, time.February, 29), domain.CycleYearly, 0, date(2025, time.February, 28)},
		{"custom 45 days", date(2024, time.January, 1), domain.CycleCustomDays, 45, date(2024, time.February, 15)},
		{"custom 1 day", date(2024, time.January, 1), domain.CycleCustomDays, 1, date(2024, time.January, 2)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextDueDate(tc.ref, tc.cycle, tc.cycleDays)
			if err != nil {
				t.Fatalf("NextDueDate returned error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want.Format(time.DateOnly), got.Format(time.DateOnly))
			}
		})
	}
}

func TestNextDueDate_StrictlyAfterReference(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.December, 31),
	}
	cycles := []struct {
		cycle     domain.Cycle
		cycleDays int
	}{
		{domain.CycleDaily, 0},
		{domain.CycleMonthly, 0},
		{domain.CycleYearly, 0},
		{domain.CycleCustomDays, 7},
	}

	for _, ref := range refs {
		for _, c := range cycles {
			got, err := NextDueDate(ref, c.cycle, c.cycleDays)
			if err != nil {
				t.Fatalf("NextDueDate(%s, %s) returned error: %v", ref.Format(time.DateOnly), c.cycle, err)
			}
			if !got.After(ref) {
				t.Fatalf("NextDueDate(%s, %s) = %s, expected strictly later", ref.Format(time.DateOnly), c.cycle, got.Format(time.DateOnly))
			}
		}
	}
}

func TestNextDueDate_Idempotent(t *testing.T) {
	ref := date(2024, time.January, 31)

	first, err := NextDueDate(ref, domain.CycleMonthly, 0)
	if err != nil {
		t.Fatalf("NextDueDate returned error: %v", err)
	}
	second, err := NextDueDate(ref, domain.CycleMonthly, 0)
	if err != nil {
		t.Fatalf("NextDueDate returned error: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("same input produced different dates: %s vs %s", first, second)
	}
}

func TestNextDueDate_TruncatesTimeOfDay(t *testing.T) {
	ref := time.Date(2024, time.January, 15, 23, 45, 12, 0, time.UTC)

	got, err := NextDueDate(ref, domain.CycleDaily, 0)
	if err != nil {
		t.Fatalf("NextDueDate returned error: %v", err)
	}
	if !got.Equal(date(2024, time.January, 16)) {
		t.Fatalf("expected 2024-01-16 at midnight, got %s", got)
	}
}

func TestNextDueDate_InvalidCycle(t *testing.T) {
	_, err := NextDueDate(date(2024, time.January, 1), domain.Cycle("WEEKLY"), 0)
	if !errors.Is(err, ErrInvalidCycle) {
		t.Fatalf("expected ErrInvalidCycle, got %v", err)
	}
}

func TestNextDueDate_MissingCycleDays(t *testing.T) {
	for _, days := range []int{0, -3} {
		_, err := NextDueDate(date(2024, time.January, 1), domain.CycleCustomDays, days)
		if !errors.Is(err, ErrMissingCycleDays) {
			t.Fatalf("cycleDays=%d: expected ErrMissingCycleDays, got %v", days, err)
		}
	}
}
