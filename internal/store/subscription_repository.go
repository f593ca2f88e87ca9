/**
 * @description
 * Data access layer for subscriptions. Contains all SQL for the subscriptions
 * table. Rows are soft-deleted via the is_deleted flag; every query scopes by
 * user_id so a user can only ever touch their own rows.
 */
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HoanTQ/subcription-manager/internal/domain"
)

// ErrSubscriptionNotFound is returned when no live subscription matches.
var ErrSubscriptionNotFound = errors.New("subscription not found")

const subscriptionColumns = `
        subscription_id, user_id, account_id, service_name, plan_name,
        subscription_type, cycle, cycle_days, amount_per_cycle, currency,
        start_date, end_date, next_due_date, reminder_days, status, notes,
        created_at, updated_at
`

// SubscriptionRepository handles database operations for subscriptions.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.AccountID,
		&sub.ServiceName,
		&sub.PlanName,
		&sub.Type,
		&sub.Cycle,
		&sub.CycleDays,
		&sub.AmountPerCycle,
		&sub.Currency,
		&sub.StartDate,
		&sub.EndDate,
		&sub.NextDueDate,
		&sub.ReminderDays,
		&sub.Status,
		&sub.Notes,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Create inserts a new subscription row.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
        INSERT INTO subscriptions (
            subscription_id, user_id, account_id, service_name, plan_name,
            subscription_type, cycle, cycle_days, amount_per_cycle, currency,
            start_date, end_date, next_due_date, reminder_days, status, notes,
            is_deleted, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, FALSE, $17, $18)
    `
	_, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.UserID,
		sub.AccountID,
		sub.ServiceName,
		sub.PlanName,
		sub.Type,
		sub.Cycle,
		sub.CycleDays,
		sub.AmountPerCycle,
		sub.Currency,
		sub.StartDate,
		sub.EndDate,
		sub.NextDueDate,
		sub.ReminderDays,
		sub.Status,
		sub.Notes,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	return err
}

// GetByID retrieves one live subscription owned by the user.
func (r *SubscriptionRepository) GetByID(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE subscription_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	return scanSubscription(r.db.QueryRow(ctx, query, subscriptionID, userID))
}

// ListByUser retrieves all live subscriptions for a user, optionally filtered
// by status. Rows come back in creation order so pagination is stable.
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE user_id = $1 AND is_deleted = FALSE
          AND ($2 = '' OR status = $2)
        ORDER BY created_at, subscription_id
    `
	rows, err := r.db.Query(ctx, query, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// ListActiveByUser retrieves the user's ACTIVE subscriptions for dashboard use.
func (r *SubscriptionRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return r.ListByUser(ctx, userID, domain.StatusActive)
}

// Update overwrites the mutable fields of a subscription.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	query := `
        UPDATE subscriptions SET
            account_id = $3, service_name = $4, plan_name = $5,
            subscription_type = $6, cycle = $7, cycle_days = $8,
            amount_per_cycle = $9, currency = $10, start_date = $11,
            end_date = $12, next_due_date = $13, reminder_days = $14,
            notes = $15, updated_at = NOW()
        WHERE subscription_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	tag, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.UserID,
		sub.AccountID,
		sub.ServiceName,
		sub.PlanName,
		sub.Type,
		sub.Cycle,
		sub.CycleDays,
		sub.AmountPerCycle,
		sub.Currency,
		sub.StartDate,
		sub.EndDate,
		sub.NextDueDate,
		sub.ReminderDays,
		sub.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// UpdateStatus sets the lifecycle status of a subscription.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, userID, subscriptionID string, status domain.Status) error {
	query := `
        UPDATE subscriptions SET status = $3, updated_at = NOW()
        WHERE subscription_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	tag, err := r.db.Exec(ctx, query, subscriptionID, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// UpdateNextDueDate commits a newly computed due date. The previous value is
// only overwritten once the new one has been computed successfully.
func (r *SubscriptionRepository) UpdateNextDueDate(ctx context.Context, userID, subscriptionID string, nextDueDate time.Time) error {
	query := `
        UPDATE subscriptions SET next_due_date = $3, updated_at = NOW()
        WHERE subscription_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	tag, err := r.db.Exec(ctx, query, subscriptionID, userID, nextDueDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// SoftDelete flags a subscription as deleted without removing the row.
func (r *SubscriptionRepository) SoftDelete(ctx context.Context, userID, subscriptionID string) error {
	query := `
        UPDATE subscriptions SET is_deleted = TRUE, updated_at = NOW()
        WHERE subscription_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	tag, err := r.db.Exec(ctx, query, subscriptionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// ListDueForReminder retrieves ACTIVE subscriptions across all users whose
// next due date falls within each row's own reminder window as of today.
func (r *SubscriptionRepository) ListDueForReminder(ctx context.Context, today time.Time) ([]domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE is_deleted = FALSE
          AND status = 'ACTIVE'
          AND next_due_date IS NOT NULL
          AND next_due_date <= $1::date + (reminder_days || ' days')::interval
        ORDER BY next_due_date
    `
	rows, err := r.db.Query(ctx, query, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// ExpireFixedTermsBefore cancels FIXED_TERM subscriptions whose end date has
// passed. Returns the number of rows transitioned.
func (r *SubscriptionRepository) ExpireFixedTermsBefore(ctx context.Context, today time.Time) (int64, error) {
	query := `
        UPDATE subscriptions SET status = 'CANCELLED', updated_at = NOW()
        WHERE is_deleted = FALSE
          AND status = 'ACTIVE'
          AND subscription_type = 'FIXED_TERM'
          AND end_date IS NOT NULL
          AND end_date < $1
    `
	tag, err := r.db.Exec(ctx, query, today)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
