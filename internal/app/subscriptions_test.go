package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/domain"
	"github.com/HoanTQ/subcription-manager/internal/store"
)

type subRepoStub struct {
	created       *domain.Subscription
	existing      *domain.Subscription
	listed        []domain.Subscription
	updatedDue    *time.Time
	updatedStatus domain.Status
	getErr        error
}

func (s *subRepoStub) Create(ctx context.Context, sub *domain.Subscription) error {
	s.created = sub
	return nil
}

func (s *subRepoStub) GetByID(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.existing == nil {
		return nil, store.ErrSubscriptionNotFound
	}
	return s.existing, nil
}

func (s *subRepoStub) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.Subscription, error) {
	return s.listed, nil
}

func (s *subRepoStub) ListActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return s.listed, nil
}

func (s *subRepoStub) Update(ctx context.Context, sub *domain.Subscription) error { return nil }

func (s *subRepoStub) UpdateStatus(ctx context.Context, userID, subscriptionID string, status domain.Status) error {
	s.updatedStatus = status
	return nil
}

func (s *subRepoStub) UpdateNextDueDate(ctx context.Context, userID, subscriptionID string, nextDueDate time.Time) error {
	s.updatedDue = &nextDueDate
	return nil
}

func (s *subRepoStub) SoftDelete(ctx context.Context, userID, subscriptionID string) error {
	return nil
}

type publisherStub struct {
	routingKeys []string
	bodies      []interface{}
	err         error
}

func (p *publisherStub) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.bodies = append(p.bodies, body)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validInput() SubscriptionInput {
	return SubscriptionInput{
		ServiceName:    "Netflix",
		Cycle:          domain.CycleMonthly,
		AmountPerCycle: 15.99,
		Currency:       "USD",
		StartDate:      testDate(2024, time.January, 15),
		ReminderDays:   3,
	}
}

func TestCreate_ComputesInitialDueDate(t *testing.T) {
	repo := &subRepoStub{}
	svc := NewSubscriptionService(repo, &publisherStub{}, testLogger())

	sub, err := svc.Create(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sub.NextDueDate == nil {
		t.Fatal("expected computed next due date")
	}
	if want := testDate(2024, time.February, 15); !sub.NextDueDate.Equal(want) {
		t.Fatalf("expected due date %s, got %s", want.Format(time.DateOnly), sub.NextDueDate.Format(time.DateOnly))
	}
	if sub.Status != domain.StatusActive {
		t.Fatalf("expected new subscription ACTIVE, got %s", sub.Status)
	}
	if repo.created == nil || repo.created.ID == "" {
		t.Fatal("expected persisted subscription with generated ID")
	}
}

func TestCreate_KeepsCallerSuppliedDueDate(t *testing.T) {
	repo := &subRepoStub{}
	svc := NewSubscriptionService(repo, &publisherStub{}, testLogger())

	in := validInput()
	due := testDate(2024, time.March, 1)
	in.NextDueDate = &due

	sub, err := svc.Create(context.Background(), "u1", in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !sub.NextDueDate.Equal(due) {
		t.Fatalf("expected caller-supplied due date preserved, got %s", sub.NextDueDate)
	}
}

func TestCreate_FixedTermHasNoDueDate(t *testing.T) {
	repo := &subRepoStub{}
	svc := NewSubscriptionService(repo, &publisherStub{}, testLogger())

	in := validInput()
	in.Type = domain.TypeFixedTerm
	end := testDate(2024, time.December, 31)
	in.EndDate = &end

	sub, err := svc.Create(context.Background(), "u1", in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sub.NextDueDate != nil {
		t.Fatalf("expected fixed term subscription without due date, got %s", sub.NextDueDate)
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := NewSubscriptionService(&subRepoStub{}, &publisherStub{}, testLogger())

	cases := []struct {
		name   string
		mutate func(*SubscriptionInput)
	}{
		{"missing service name", func(in *SubscriptionInput) { in.ServiceName = "" }},
		{"unknown cycle", func(in *SubscriptionInput) { in.Cycle = "WEEKLY" }},
		{"custom cycle without days", func(in *SubscriptionInput) { in.Cycle = domain.CycleCustomDays; in.CycleDays = 0 }},
		{"negative amount", func(in *SubscriptionInput) { in.AmountPerCycle = -1 }},
		{"missing currency", func(in *SubscriptionInput) { in.Currency = "" }},
		{"missing start date", func(in *SubscriptionInput) { in.StartDate = time.Time{} }},
		{"fixed term without end date", func(in *SubscriptionInput) { in.Type = domain.TypeFixedTerm }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), "u1", in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreate_PublishesCreatedEvent(t *testing.T) {
	pub := &publisherStub{}
	svc := NewSubscriptionService(&subRepoStub{}, pub, testLogger())

	if _, err := svc.Create(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(pub.routingKeys) != 1 || pub.routingKeys[0] != domain.RoutingKeySubscriptionCreated {
		t.Fatalf("expected created event, got %v", pub.routingKeys)
	}
}

func TestAdvance_RollsDueDateForwardFromCurrent(t *testing.T) {
	due := testDate(2024, time.January, 31)
	repo := &subRepoStub{existing: &domain.Subscription{
		ID:          "s1",
		UserID:      "u1",
		Type:        domain.TypeRecurring,
		Cycle:       domain.CycleMonthly,
		NextDueDate: &due,
	}}
	pub := &publisherStub{}
	svc := NewSubscriptionService(repo, pub, testLogger())

	result, err := svc.Advance(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if want := testDate(2024, time.February, 29); !result.NewDueDate.Equal(want) {
		t.Fatalf("expected new due date %s, got %s", want.Format(time.DateOnly), result.NewDueDate.Format(time.DateOnly))
	}
	if !result.PreviousDueDate.Equal(due) {
		t.Fatalf("expected previous due date preserved in result")
	}
	if repo.updatedDue == nil || !repo.updatedDue.Equal(result.NewDueDate) {
		t.Fatal("expected new due date committed to repository")
	}
	if len(pub.routingKeys) != 1 || pub.routingKeys[0] != domain.RoutingKeyCycleAdvanced {
		t.Fatalf("expected cycle advanced event, got %v", pub.routingKeys)
	}
}

func TestAdvance_RejectsFixedTerm(t *testing.T) {
	due := testDate(2024, time.January, 31)
	repo := &subRepoStub{existing: &domain.Subscription{
		ID:          "s1",
		Type:        domain.TypeFixedTerm,
		Cycle:       domain.CycleMonthly,
		NextDueDate: &due,
	}}
	svc := NewSubscriptionService(repo, &publisherStub{}, testLogger())

	_, err := svc.Advance(context.Background(), "u1", "s1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for fixed term, got %v", err)
	}
	if repo.updatedDue != nil {
		t.Fatal("expected stored due date untouched")
	}
}

func TestAdvance_RejectsMissingDueDate(t *testing.T) {
	repo := &subRepoStub{existing: &domain.Subscription{
		ID:    "s1",
		Type:  domain.TypeRecurring,
		Cycle: domain.CycleMonthly,
	}}
	svc := NewSubscriptionService(repo, &publisherStub{}, testLogger())

	_, err := svc.Advance(context.Background(), "u1", "s1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdvance_NotFoundPassesThrough(t *testing.T) {
	svc := NewSubscriptionService(&subRepoStub{}, &publisherStub{}, testLogger())

	_, err := svc.Advance(context.Background(), "u1", "missing")
	if !errors.Is(err, store.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestCancel_PublishesEventAfterStatusUpdate(t *testing.T) {
	repo := &subRepoStub{}
	pub := &publisherStub{}
	svc := NewSubscriptionService(repo, pub, testLogger())

	if err := svc.Cancel(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if repo.updatedStatus != domain.StatusCancelled {
		t.Fatalf("expected status CANCELLED, got %s", repo.updatedStatus)
	}
	if len(pub.routingKeys) != 1 || pub.routingKeys[0] != domain.RoutingKeySubscriptionCancelled {
		t.Fatalf("expected cancelled event, got %v", pub.routingKeys)
	}
}

func TestCreate_SurvivesBrokerOutage(t *testing.T) {
	pub := &publisherStub{err: errors.New("broker down")}
	svc := NewSubscriptionService(&subRepoStub{}, pub, testLogger())

	if _, err := svc.Create(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("expected create to succeed despite publish failure, got %v", err)
	}
}

func TestList_FiltersDueWithinDaysAndPaginates(t *testing.T) {
	now := time.Now().UTC()
	soon := now.AddDate(0, 0, 3)
	far := now.AddDate(0, 0, 45)
	past := now.AddDate(0, 0, -2)

	repo := &subRepoStub{listed: []domain.Subscription{
		{ID: "a", NextDueDate: &soon},
		{ID: "b", NextDueDate: &far},
		{ID: "c", NextDueDate: &past},
		{ID: "d"},
	}}
	svc := NewSubscriptionService(repo, &publisherStub{}, testLogger())

	list, err := svc.List(context.Background(), "u1", "", 7, 1, 50)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list.Subscriptions) != 1 || list.Subscriptions[0].ID != "a" {
		t.Fatalf("expected only the soon-due subscription, got %+v", list.Subscriptions)
	}
	if list.Pagination.Total != 1 || list.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", list.Pagination)
	}
}
