/**
 * @description
 * This file defines the core domain models for subscription tracking.
 * It includes the Subscription struct that maps to the database table and the
 * closed enumerations for billing cycles, subscription types, and statuses.
 */
package domain

import "time"

// Cycle is the recurrence pattern governing how often a subscription bills.
type Cycle string

const (
	CycleDaily      Cycle = "DAILY"
	CycleMonthly    Cycle = "MONTHLY"
	CycleYearly     Cycle = "YEARLY"
	CycleCustomDays Cycle = "CUSTOM_DAYS"
)

// SubscriptionType distinguishes auto-advancing subscriptions from bounded ones.
// Only RECURRING subscriptions participate in next-due-date computation;
// FIXED_TERM subscriptions are tracked by their end date and never advanced.
type SubscriptionType string

const (
	TypeRecurring SubscriptionType = "RECURRING"
	TypeFixedTerm SubscriptionType = "FIXED_TERM"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPaused    Status = "PAUSED"
	StatusCancelled Status = "CANCELLED"
)

// Subscription represents a tracked subscription for a user.
type Subscription struct {
	ID             string           `json:"subscriptionId"`
	UserID         string           `json:"-"`
	AccountID      string           `json:"accountId,omitempty"`
	ServiceName    string           `json:"serviceName"`
	PlanName       string           `json:"planName,omitempty"`
	Type           SubscriptionType `json:"subscriptionType"`
	Cycle          Cycle            `json:"cycle"`
	CycleDays      int              `json:"cycleDays,omitempty"`
	AmountPerCycle float64          `json:"amountPerCycle"`
	Currency       string           `json:"currency"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	NextDueDate    *time.Time       `json:"nextDueDate,omitempty"`
	ReminderDays   int              `json:"reminderDays"`
	Status         Status           `json:"status"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// IsActive returns true if the subscription is currently active.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsRecurring returns true if the subscription advances cycle-by-cycle.
func (s *Subscription) IsRecurring() bool {
	return s.Type == TypeRecurring
}

// ValidCycle reports whether c is one of the supported billing cycles.
func ValidCycle(c Cycle) bool {
	switch c {
	case CycleDaily, CycleMonthly, CycleYearly, CycleCustomDays:
		return true
	}
	return false
}
