/**
 * @description
 * This file contains the core business logic for subscription management.
 * The service validates input, delegates due-date arithmetic to the billing
 * package, persists through the repository, and publishes lifecycle events.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HoanTQ/subcription-manager/internal/billing"
	"github.com/HoanTQ/subcription-manager/internal/domain"
)

// SubscriptionRepository defines the database operations the service needs.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.Subscription, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	UpdateStatus(ctx context.Context, userID, subscriptionID string, status domain.Status) error
	UpdateNextDueDate(ctx context.Context, userID, subscriptionID string, nextDueDate time.Time) error
	SoftDelete(ctx context.Context, userID, subscriptionID string) error
}

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// SubscriptionInput carries the caller-supplied fields for create and update.
type SubscriptionInput struct {
	AccountID      string
	ServiceName    string
	PlanName       string
	Type           domain.SubscriptionType
	Cycle          domain.Cycle
	CycleDays      int
	AmountPerCycle float64
	Currency       string
	StartDate      time.Time
	EndDate        *time.Time
	NextDueDate    *time.Time
	ReminderDays   int
	Notes          string
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// SubscriptionList is the result of a filtered, paginated listing.
type SubscriptionList struct {
	Subscriptions []domain.Subscription `json:"subscriptions"`
	Pagination    Pagination            `json:"pagination"`
}

// AdvanceResult reports a completed move to the next billing cycle.
type AdvanceResult struct {
	SubscriptionID  string    `json:"subscriptionId"`
	PreviousDueDate time.Time `json:"previousDueDate"`
	NewDueDate      time.Time `json:"newDueDate"`
}

// SubscriptionService provides the business logic for subscription management.
type SubscriptionService struct {
	repo      SubscriptionRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(repo SubscriptionRepository, publisher Publisher, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, publisher: publisher, logger: logger}
}

func validateInput(in *SubscriptionInput) error {
	if in.Type == "" {
		in.Type = domain.TypeRecurring
	}
	if in.ServiceName == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if !domain.ValidCycle(in.Cycle) {
		return fmt.Errorf("%w: unknown billing cycle %q", ErrInvalidInput, in.Cycle)
	}
	if in.Cycle == domain.CycleCustomDays && in.CycleDays < 1 {
		return fmt.Errorf("%w: cycle days required for custom cycle", ErrInvalidInput)
	}
	if in.AmountPerCycle < 0 {
		return fmt.Errorf("%w: amount per cycle cannot be negative", ErrInvalidInput)
	}
	if in.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if in.Type == domain.TypeFixedTerm && in.EndDate == nil {
		return fmt.Errorf("%w: end date required for fixed term subscriptions", ErrInvalidInput)
	}
	if in.ReminderDays < 0 {
		return fmt.Errorf("%w: reminder days cannot be negative", ErrInvalidInput)
	}
	return nil
}

// resolveDueDate returns the caller-supplied due date, or computes the initial
// one from the start date for recurring subscriptions.
func resolveDueDate(in *SubscriptionInput) (*time.Time, error) {
	if in.NextDueDate != nil {
		return in.NextDueDate, nil
	}
	if in.Type != domain.TypeRecurring {
		return nil, nil
	}
	due, err := billing.NextDueDate(in.StartDate, in.Cycle, in.CycleDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &due, nil
}

// Create validates and persists a new subscription, computing the initial due
// date when the caller did not supply one.
func (s *SubscriptionService) Create(ctx context.Context, userID string, in SubscriptionInput) (*domain.Subscription, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	due, err := resolveDueDate(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:             uuid.NewString(),
		UserID:         userID,
		AccountID:      in.AccountID,
		ServiceName:    in.ServiceName,
		PlanName:       in.PlanName,
		Type:           in.Type,
		Cycle:          in.Cycle,
		CycleDays:      in.CycleDays,
		AmountPerCycle: in.AmountPerCycle,
		Currency:       in.Currency,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		NextDueDate:    due,
		ReminderDays:   in.ReminderDays,
		Status:         domain.StatusActive,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	event := domain.SubscriptionCreatedEvent{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		ServiceName:    sub.ServiceName,
	}
	if due != nil {
		event.NextDueDate = due.Format(time.DateOnly)
	}
	s.publish(ctx, domain.RoutingKeySubscriptionCreated, event)

	return sub, nil
}

// Get retrieves one subscription owned by the user.
func (s *SubscriptionService) Get(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error) {
	return s.repo.GetByID(ctx, userID, subscriptionID)
}

// List retrieves a filtered page of the user's subscriptions. An empty status
// matches everything; dueWithinDays > 0 keeps only subscriptions due between
// now and that many days out.
func (s *SubscriptionService) List(ctx context.Context, userID string, status domain.Status, dueWithinDays, page, pageSize int) (*SubscriptionList, error) {
	subs, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	if dueWithinDays > 0 {
		now := time.Now().UTC()
		filtered := subs[:0]
		for _, sub := range subs {
			if sub.NextDueDate == nil {
				continue
			}
			days := billing.DaysUntil(now, *sub.NextDueDate)
			if days >= 0 && days <= dueWithinDays {
				filtered = append(filtered, sub)
			}
		}
		subs = filtered
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	total := len(subs)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &SubscriptionList{
		Subscriptions: subs[start:end],
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}

// Update validates and overwrites the mutable fields of a subscription.
func (s *SubscriptionService) Update(ctx context.Context, userID, subscriptionID string, in SubscriptionInput) (*domain.Subscription, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	due, err := resolveDueDate(&in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	existing.AccountID = in.AccountID
	existing.ServiceName = in.ServiceName
	existing.PlanName = in.PlanName
	existing.Type = in.Type
	existing.Cycle = in.Cycle
	existing.CycleDays = in.CycleDays
	existing.AmountPerCycle = in.AmountPerCycle
	existing.Currency = in.Currency
	existing.StartDate = in.StartDate
	existing.EndDate = in.EndDate
	existing.NextDueDate = due
	existing.ReminderDays = in.ReminderDays
	existing.Notes = in.Notes

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Advance moves a recurring subscription to its next billing cycle. The new
// due date is computed from the current one, then committed in a single
// update; a computation error leaves the stored date untouched.
func (s *SubscriptionService) Advance(ctx context.Context, userID, subscriptionID string) (*AdvanceResult, error) {
	sub, err := s.repo.GetByID(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsRecurring() {
		return nil, fmt.Errorf("%w: fixed term subscriptions do not advance", ErrInvalidInput)
	}
	if sub.NextDueDate == nil {
		return nil, fmt.Errorf("%w: subscription has no due date to advance from", ErrInvalidInput)
	}

	newDue, err := billing.NextDueDate(*sub.NextDueDate, sub.Cycle, sub.CycleDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.UpdateNextDueDate(ctx, userID, subscriptionID, newDue); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.RoutingKeyCycleAdvanced, domain.CycleAdvancedEvent{
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		PreviousDueDate: sub.NextDueDate.Format(time.DateOnly),
		NewDueDate:      newDue.Format(time.DateOnly),
	})

	return &AdvanceResult{
		SubscriptionID:  sub.ID,
		PreviousDueDate: *sub.NextDueDate,
		NewDueDate:      newDue,
	}, nil
}

// Pause sets a subscription to PAUSED.
func (s *SubscriptionService) Pause(ctx context.Context, userID, subscriptionID string) error {
	return s.repo.UpdateStatus(ctx, userID, subscriptionID, domain.StatusPaused)
}

// Resume sets a subscription back to ACTIVE.
func (s *SubscriptionService) Resume(ctx context.Context, userID, subscriptionID string) error {
	return s.repo.UpdateStatus(ctx, userID, subscriptionID, domain.StatusActive)
}

// Cancel sets a subscription to CANCELLED and publishes the lifecycle event.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID string) error {
	if err := s.repo.UpdateStatus(ctx, userID, subscriptionID, domain.StatusCancelled); err != nil {
		return err
	}
	s.publish(ctx, domain.RoutingKeySubscriptionCancelled, domain.SubscriptionCancelledEvent{
		SubscriptionID: subscriptionID,
		UserID:         userID,
	})
	return nil
}

// Delete soft-deletes a subscription.
func (s *SubscriptionService) Delete(ctx context.Context, userID, subscriptionID string) error {
	return s.repo.SoftDelete(ctx, userID, subscriptionID)
}

// publish sends an event best-effort. A broker outage must not fail the
// user-facing operation that already committed.
func (s *SubscriptionService) publish(ctx context.Context, routingKey string, body interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, domain.EventsExchange, routingKey, body); err != nil {
		s.logger.Error("failed to publish event", "routing_key", routingKey, "error", err)
	}
}
