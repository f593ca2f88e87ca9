package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HoanTQ/subcription-manager/internal/domain"
	"github.com/HoanTQ/subcription-manager/internal/store"
	"github.com/HoanTQ/subcription-manager/internal/vault"
)

type accountRepoStub struct {
	created  *domain.Account
	existing *domain.Account
	listed   []domain.Account
}

func (s *accountRepoStub) Create(ctx context.Context, acc *domain.Account) error {
	s.created = acc
	return nil
}

func (s *accountRepoStub) GetByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	if s.existing == nil {
		return nil, store.ErrAccountNotFound
	}
	return s.existing, nil
}

func (s *accountRepoStub) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.listed, nil
}

func (s *accountRepoStub) Update(ctx context.Context, acc *domain.Account) error { return nil }

func (s *accountRepoStub) SoftDelete(ctx context.Context, userID, accountID string) error {
	return nil
}

func newTestAccounts(repo AccountRepository) *AccountService {
	cipher, err := vault.NewCipher("0123456789abcdef0123456789abcdef")
	if err != nil {
		panic(err)
	}
	return NewAccountService(repo, cipher, testLogger())
}

func TestAccountCreate_EncryptsPassword(t *testing.T) {
	repo := &accountRepoStub{}
	svc := newTestAccounts(repo)

	acc, err := svc.Create(context.Background(), "u1", AccountInput{
		ServiceName: "Netflix",
		LoginID:     "user@example.com",
		Password:    "hunter2",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if acc.PasswordCiphertext == "" || acc.PasswordCiphertext == "hunter2" {
		t.Fatal("expected password sealed before persistence")
	}
	if repo.created == nil {
		t.Fatal("expected account persisted")
	}
}

func TestAccountCreate_RequiresCredentialFields(t *testing.T) {
	svc := newTestAccounts(&accountRepoStub{})

	_, err := svc.Create(context.Background(), "u1", AccountInput{ServiceName: "Netflix"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountReveal_RoundTripsThroughVault(t *testing.T) {
	repo := &accountRepoStub{}
	svc := newTestAccounts(repo)

	created, err := svc.Create(context.Background(), "u1", AccountInput{
		ServiceName: "Netflix",
		LoginID:     "user@example.com",
		Password:    "hunter2",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	repo.existing = created

	got, err := svc.Reveal(context.Background(), "u1", created.ID)
	if err != nil {
		t.Fatalf("Reveal returned error: %v", err)
	}
	if got != "hunter2" {
		t.Fatalf("expected revealed password, got %q", got)
	}
}

func TestAccountList_SearchAndCategoryFilters(t *testing.T) {
	now := time.Now()
	repo := &accountRepoStub{listed: []domain.Account{
		{ID: "a", ServiceName: "Netflix", LoginID: "x", CategoryID: "media", CreatedAt: now},
		{ID: "b", ServiceName: "GitHub", LoginID: "dev@example.com", CategoryID: "work", CreatedAt: now},
		{ID: "c", ServiceName: "Spotify", LoginID: "y", CategoryID: "media", CreatedAt: now},
	}}
	svc := newTestAccounts(repo)

	list, err := svc.List(context.Background(), "u1", "git", "", 1, 50)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list.Accounts) != 1 || list.Accounts[0].ID != "b" {
		t.Fatalf("expected search to match GitHub only, got %+v", list.Accounts)
	}

	list, err = svc.List(context.Background(), "u1", "", "media", 1, 50)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list.Accounts) != 2 {
		t.Fatalf("expected 2 media accounts, got %d", len(list.Accounts))
	}
}
