/**
 * @description
 * Business logic for the credential vault. Service passwords are sealed with
 * the vault cipher before they reach the repository and only opened again by
 * an explicit reveal request.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HoanTQ/subcription-manager/internal/domain"
	"github.com/HoanTQ/subcription-manager/internal/vault"
)

// AccountRepository defines the database operations the account service needs.
type AccountRepository interface {
	Create(ctx context.Context, acc *domain.Account) error
	GetByID(ctx context.Context, userID, accountID string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)
	Update(ctx context.Context, acc *domain.Account) error
	SoftDelete(ctx context.Context, userID, accountID string) error
}

// AccountInput carries the caller-supplied fields for create and update.
// Password is the plain text secret; empty on update means keep the stored one.
type AccountInput struct {
	ServiceName string
	LoginID     string
	Password    string
	URL         string
	CategoryID  string
	Tags        string
	Notes       string
}

// AccountList is the result of a filtered, paginated listing.
type AccountList struct {
	Accounts   []domain.Account `json:"accounts"`
	Pagination Pagination       `json:"pagination"`
}

// AccountService provides business logic for stored credentials.
type AccountService struct {
	repo   AccountRepository
	cipher *vault.Cipher
	logger *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(repo AccountRepository, cipher *vault.Cipher, logger *slog.Logger) *AccountService {
	return &AccountService{repo: repo, cipher: cipher, logger: logger}
}

// Create encrypts the password and persists a new account.
func (s *AccountService) Create(ctx context.Context, userID string, in AccountInput) (*domain.Account, error) {
	if in.ServiceName == "" || in.LoginID == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: service name, login ID, and password are required", ErrInvalidInput)
	}

	ciphertext, nonce, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc := &domain.Account{
		ID:                 uuid.NewString(),
		UserID:             userID,
		ServiceName:        in.ServiceName,
		LoginID:            in.LoginID,
		PasswordCiphertext: ciphertext,
		PasswordNonce:      nonce,
		URL:                in.URL,
		CategoryID:         in.CategoryID,
		Tags:               in.Tags,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Get retrieves one account owned by the user. The password stays sealed.
func (s *AccountService) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return s.repo.GetByID(ctx, userID, accountID)
}

// List retrieves a filtered page of the user's accounts. search matches the
// service name, login ID, or notes case-insensitively; category filters by
// exact category ID.
func (s *AccountService) List(ctx context.Context, userID, search, category string, page, pageSize int) (*AccountList, error) {
	accounts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if search != "" {
		needle := strings.ToLower(search)
		filtered := accounts[:0]
		for _, acc := range accounts {
			if strings.Contains(strings.ToLower(acc.ServiceName), needle) ||
				strings.Contains(strings.ToLower(acc.LoginID), needle) ||
				strings.Contains(strings.ToLower(acc.Notes), needle) {
				filtered = append(filtered, acc)
			}
		}
		accounts = filtered
	}
	if category != "" {
		filtered := accounts[:0]
		for _, acc := range accounts {
			if acc.CategoryID == category {
				filtered = append(filtered, acc)
			}
		}
		accounts = filtered
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	total := len(accounts)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &AccountList{
		Accounts: accounts[start:end],
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}

// Reveal decrypts and returns the stored password for one account.
func (s *AccountService) Reveal(ctx context.Context, userID, accountID string) (string, error) {
	acc, err := s.repo.GetByID(ctx, userID, accountID)
	if err != nil {
		return "", err
	}
	return s.cipher.Decrypt(acc.PasswordCiphertext, acc.PasswordNonce)
}

// Update overwrites the mutable fields of an account. A non-empty password is
// re-encrypted; an empty one keeps the existing ciphertext.
func (s *AccountService) Update(ctx context.Context, userID, accountID string, in AccountInput) (*domain.Account, error) {
	acc, err := s.repo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if in.ServiceName != "" {
		acc.ServiceName = in.ServiceName
	}
	if in.LoginID != "" {
		acc.LoginID = in.LoginID
	}
	if in.Password != "" {
		ciphertext, nonce, err := s.cipher.Encrypt(in.Password)
		if err != nil {
			return nil, err
		}
		acc.PasswordCiphertext = ciphertext
		acc.PasswordNonce = nonce
	}
	acc.URL = in.URL
	acc.CategoryID = in.CategoryID
	acc.Tags = in.Tags
	acc.Notes = in.Notes

	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Delete soft-deletes an account.
func (s *AccountService) Delete(ctx context.Context, userID, accountID string) error {
	return s.repo.SoftDelete(ctx, userID, accountID)
}
