/**
 * @description
 * Data access layer for credential vault accounts. Contains all SQL for the
 * accounts table. Ciphertext and nonce are stored as-is; encryption happens in
 * the service layer before rows reach this file.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HoanTQ/subcription-manager/internal/domain"
)

// ErrAccountNotFound is returned when no live account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

const accountColumns = `
        account_id, user_id, service_name, login_id, password_ciphertext,
        password_nonce, url, category_id, tags, notes, created_at, updated_at
`

// AccountRepository handles database operations for vault accounts.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.ID,
		&acc.UserID,
		&acc.ServiceName,
		&acc.LoginID,
		&acc.PasswordCiphertext,
		&acc.PasswordNonce,
		&acc.URL,
		&acc.CategoryID,
		&acc.Tags,
		&acc.Notes,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, acc *domain.Account) error {
	query := `
        INSERT INTO accounts (
            account_id, user_id, service_name, login_id, password_ciphertext,
            password_nonce, url, category_id, tags, notes, is_deleted,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11, $12)
    `
	_, err := r.db.Exec(ctx, query,
		acc.ID,
		acc.UserID,
		acc.ServiceName,
		acc.LoginID,
		acc.PasswordCiphertext,
		acc.PasswordNonce,
		acc.URL,
		acc.CategoryID,
		acc.Tags,
		acc.Notes,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	return err
}

// GetByID retrieves one live account owned by the user.
func (r *AccountRepository) GetByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE account_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	return scanAccount(r.db.QueryRow(ctx, query, accountID, userID))
}

// ListByUser retrieves all live accounts for a user in creation order.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE user_id = $1 AND is_deleted = FALSE
        ORDER BY created_at, account_id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// Update overwrites the mutable fields of an account, including the sealed
// password columns.
func (r *AccountRepository) Update(ctx context.Context, acc *domain.Account) error {
	query := `
        UPDATE accounts SET
            service_name = $3, login_id = $4, password_ciphertext = $5,
            password_nonce = $6, url = $7, category_id = $8, tags = $9,
            notes = $10, updated_at = NOW()
        WHERE account_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	tag, err := r.db.Exec(ctx, query,
		acc.ID,
		acc.UserID,
		acc.ServiceName,
		acc.LoginID,
		acc.PasswordCiphertext,
		acc.PasswordNonce,
		acc.URL,
		acc.CategoryID,
		acc.Tags,
		acc.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SoftDelete flags an account as deleted without removing the row.
func (r *AccountRepository) SoftDelete(ctx context.Context, userID, accountID string) error {
	query := `
        UPDATE accounts SET is_deleted = TRUE, updated_at = NOW()
        WHERE account_id = $1 AND user_id = $2 AND is_deleted = FALSE
    `
	tag, err := r.db.Exec(ctx, query, accountID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
