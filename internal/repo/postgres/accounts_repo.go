package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warelane/stockscan/internal/domain"
)

// AccountsRepo reads (and, during registration, writes) sy_user rows.
type AccountsRepo interface {
	// FindByEmail matches case-insensitively on trimmed email; returns
	// (nil, nil) when no account exists.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// EmailExists is the application-level uniqueness pre-check; the table
	// carries no unique constraint on email.
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create inserts a new account with autokey = current max + 1.
	Create(ctx context.Context, req *domain.RegistrationRequest, passwordHash string) (*domain.Account, error)
}

type AccountsRepoImpl struct{ pool *pgxpool.Pool }

func NewAccountsRepo(pool *pgxpool.Pool) *AccountsRepoImpl { return &AccountsRepoImpl{pool: pool} }

func (r *AccountsRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `
SELECT autokey, code, name, passwd, email, isactive
FROM sy_user
WHERE lower(trim(email)) = lower(trim($1))
LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Account
	if err := r.pool.QueryRow(ctx, q, email).Scan(
		&a.AutoKey, &a.Code, &a.Name, &a.PasswordHash, &a.Email, &a.ActiveFlag,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountsRepoImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM sy_user WHERE lower(trim(email)) = lower(trim($1)))`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	if err := r.pool.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AccountsRepoImpl) Create(ctx context.Context, req *domain.RegistrationRequest, passwordHash string) (*domain.Account, error) {
	const q = `
INSERT INTO sy_user (autokey, code, name, passwd, email, mobile, isactive)
SELECT COALESCE(MAX(autokey), 0) + 1, $1, $2, $3, $4, $5, '1'
FROM sy_user
RETURNING autokey, code, name, passwd, email, isactive`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Account
	if err := r.pool.QueryRow(ctx, q, req.Code, req.Name, passwordHash, req.Email, req.Mobile).Scan(
		&a.AutoKey, &a.Code, &a.Name, &a.PasswordHash, &a.Email, &a.ActiveFlag,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
