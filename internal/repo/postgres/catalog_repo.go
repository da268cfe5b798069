package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warelane/stockscan/internal/domain"
)

// CatalogRepo covers the item master, lazy template provisioning, the location
// reference table and the append-only detail history.
type CatalogRepo interface {
	// ItemDescription looks up the master catalog by normalized code.
	ItemDescription(ctx context.Context, code string) (desc string, found bool, err error)
	// EnsureTemplate provisions the per-code template row once; repeated
	// calls are no-ops. Reports whether this call created the row.
	EnsureTemplate(ctx context.Context, code, description string) (created bool, err error)
	// LatestLocationCode returns the location of the most recent history row
	// for code, or "" when the code has never been assigned.
	LatestLocationCode(ctx context.Context, code string) (string, error)
	// LocationDescription translates a location code to its description, ""
	// when the reference row is missing.
	LocationDescription(ctx context.Context, locationCode string) (string, error)
	// LocationCodeByDescription translates a human-readable location name to
	// its reference code, exact case-insensitive match.
	LocationCodeByDescription(ctx context.Context, description string) (code string, found bool, err error)
	// ListLocationDescriptions returns all distinct non-empty location names.
	ListLocationDescriptions(ctx context.Context) ([]string, error)
	// AppendDetail inserts a history row with dtlkey = current max + 1 and
	// returns the assigned key.
	AppendDetail(ctx context.Context, row *domain.DetailRow) (int64, error)
}

type CatalogRepoImpl struct{ pool *pgxpool.Pool }

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepoImpl { return &CatalogRepoImpl{pool: pool} }

func (r *CatalogRepoImpl) ItemDescription(ctx context.Context, code string) (string, bool, error) {
	const q = `
SELECT trim(COALESCE(description, ''))
FROM st_item
WHERE upper(trim(code)) = $1
LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var desc string
	if err := r.pool.QueryRow(ctx, q, code).Scan(&desc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return desc, true, nil
}

func (r *CatalogRepoImpl) EnsureTemplate(ctx context.Context, code, description string) (bool, error) {
	// code is the primary key, so concurrent first resolutions of the same
	// code collapse to a single row.
	const q = `
INSERT INTO st_item_tpl (code, description)
VALUES ($1, $2)
ON CONFLICT (code) DO NOTHING`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, code, description)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CatalogRepoImpl) LatestLocationCode(ctx context.Context, code string) (string, error) {
	const q = `
SELECT trim(COALESCE(location, ''))
FROM st_item_tpldtl
WHERE upper(trim(code)) = $1
ORDER BY dtlkey DESC
LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var location string
	if err := r.pool.QueryRow(ctx, q, code).Scan(&location); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return location, nil
}

func (r *CatalogRepoImpl) LocationDescription(ctx context.Context, locationCode string) (string, error) {
	const q = `
SELECT trim(COALESCE(description, ''))
FROM st_location
WHERE upper(trim(code)) = upper(trim($1))
LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var desc string
	if err := r.pool.QueryRow(ctx, q, locationCode).Scan(&desc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return desc, nil
}

func (r *CatalogRepoImpl) LocationCodeByDescription(ctx context.Context, description string) (string, bool, error) {
	const q = `
SELECT trim(code)
FROM st_location
WHERE lower(trim(description)) = lower(trim($1))
LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var code string
	if err := r.pool.QueryRow(ctx, q, description).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return code, true, nil
}

func (r *CatalogRepoImpl) ListLocationDescriptions(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT trim(description) AS description
FROM st_location
WHERE description IS NOT NULL AND trim(description) <> ''
ORDER BY description`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var desc string
		if err := rows.Scan(&desc); err != nil {
			return nil, err
		}
		locations = append(locations, desc)
	}
	return locations, rows.Err()
}

func (r *CatalogRepoImpl) AppendDetail(ctx context.Context, row *domain.DetailRow) (int64, error) {
	// Sequence key is max + 1, computed inside the insert itself. Two racing
	// inserts can still pick the same key; the primary key rejects the loser
	// and we recompute once.
	const q = `
INSERT INTO st_item_tpldtl (dtlkey, code, itemcode, location, remark1, remark2, remark3, trandate, tranuser)
SELECT COALESCE(MAX(dtlkey), 0) + 1, $1, $2, $3, $4, $5, $6, $7, $8
FROM st_item_tpldtl
RETURNING dtlkey`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var dtlkey int64
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := r.pool.QueryRow(ctx, q,
			row.Code, row.ItemCode, row.Location,
			row.Remark1, row.Remark2, row.Remark3,
			row.TranDate, row.TranUser,
		).Scan(&dtlkey)
		if err == nil {
			return dtlkey, nil
		}
		lastErr = err
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
			return 0, err
		}
	}
	return 0, lastErr
}
