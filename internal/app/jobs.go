/**
 * @description
 * Scheduled job implementations: the daily reminder scan and the fixed-term
 * expiry sweep.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/billing"
	"github.com/HoanTQ/subcription-manager/internal/domain"
)

// JobsRepository defines database operations needed by the jobs.
type JobsRepository interface {
	ListDueForReminder(ctx context.Context, today time.Time) ([]domain.Subscription, error)
	ExpireFixedTermsBefore(ctx context.Context, today time.Time) (int64, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	repo      JobsRepository
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewJobs creates a new Jobs runner.
func NewJobs(repo JobsRepository, publisher Publisher, logger *slog.Logger) *Jobs {
	return &Jobs{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// RunReminderScan publishes a reminder event for every active subscription
// whose due date has entered its reminder window.
func (j *Jobs) RunReminderScan() {
	j.logger.Info("starting due reminder scan")
	ctx := context.Background()
	now := j.now().UTC()

	subs, err := j.repo.ListDueForReminder(ctx, now)
	if err != nil {
		j.logger.Error("failed to list subscriptions due for reminder", "error", err)
		return
	}

	if len(subs) == 0 {
		j.logger.Info("no subscriptions inside their reminder window")
		return
	}

	published := 0
	for _, sub := range subs {
		if sub.NextDueDate == nil {
			continue
		}
		event := domain.ReminderDueEvent{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			ServiceName:    sub.ServiceName,
			Amount:         sub.AmountPerCycle,
			Currency:       sub.Currency,
			DueDate:        sub.NextDueDate.Format(time.DateOnly),
			DaysUntilDue:   billing.DaysUntil(now, *sub.NextDueDate),
		}
		if err := j.publisher.Publish(ctx, domain.EventsExchange, domain.RoutingKeyReminderDue, event); err != nil {
			j.logger.Error("failed to publish reminder event", "subscription_id", sub.ID, "error", err)
			continue
		}
		published++
	}

	j.logger.Info("due reminder scan finished", "scanned", len(subs), "published", published)
}

// RunFixedTermExpiry cancels fixed-term subscriptions whose end date passed.
func (j *Jobs) RunFixedTermExpiry() {
	j.logger.Info("starting fixed term expiry job")
	ctx := context.Background()

	count, err := j.repo.ExpireFixedTermsBefore(ctx, j.now().UTC())
	if err != nil {
		j.logger.Error("failed to expire fixed term subscriptions", "error", err)
		return
	}

	j.logger.Info("fixed term expiry job finished", "expired", count)
}
