// internal/repository/postgres/account_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"soko-service/internal/domain/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no account; providers
// translate it into the authentication taxonomy.
var ErrNotFound = errors.New("account not found")

// AccountRepository is the narrow credential-store contract the
// authentication core consumes. User CRUD lives elsewhere.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindCredentialByUsername retrieves an account and its password hash by
// username (the login email).
func (r *AccountRepository) FindCredentialByUsername(ctx context.Context, username string) (*auth.Credential, error) {
	query := `
		SELECT id, role, password_hash
		FROM accounts
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`

	var cred auth.Credential
	err := r.db.QueryRow(ctx, query, username).Scan(
		&cred.Account.ID, &cred.Account.Role, &cred.PasswordHash,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}

	return &cred, nil
}

// FindDestinationByUsername retrieves the notification destination (phone
// number) registered for a username.
func (r *AccountRepository) FindDestinationByUsername(ctx context.Context, username string) (string, error) {
	query := `
		SELECT phone
		FROM accounts
		WHERE LOWER(email) = LOWER($1) AND phone IS NOT NULL AND deleted_at IS NULL
	`

	var destination string
	err := r.db.QueryRow(ctx, query, username).Scan(&destination)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find destination: %w", err)
	}

	return destination, nil
}

// UpdatePasswordHash replaces the stored credential, used by the
// temporary-password flow.
func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, username, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
