package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"account-service/internal/domains/account/model"
	"account-service/internal/shared/utils"
	"account-service/pkg/cache"
	"account-service/pkg/database"
	"account-service/pkg/logger"
)

const (
	accountColumns  = "account_id, name, description, active, created_at, updated_at"
	accountCacheTTL = 5 * time.Minute
)

// postgresRepository implements RepositoryInterface.
// Uses pgxpool for PostgreSQL connection management; point lookups go
// through the cache, mutations invalidate it.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new account repository instance.
// Dependency injection pattern - receives pool and cache from container.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func accountCacheKey(accountID string) string {
	return "account:" + accountID
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.Name,
		&acc.Description,
		&acc.Active,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Create inserts a new row, or returns the existing one on an id conflict.
// ON CONFLICT DO NOTHING plus the fallback read makes the existence check
// and insert atomic with respect to concurrent callers on the same id.
func (r *postgresRepository) Create(ctx context.Context, accountID, name, description string) (*model.Account, bool, error) {
	query := `
    INSERT INTO accounts (account_id, name, description, active, created_at, updated_at)
    VALUES ($1, $2, $3, TRUE, NOW(), NOW())
    ON CONFLICT (account_id) DO NOTHING
    RETURNING ` + accountColumns

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID, name, description))
	if err == nil {
		r.invalidate(ctx, accountID)
		return acc, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	// Conflict: another caller won the insert. Return the stored row as-is.
	existing, err := r.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read existing account after conflict: %w", err)
	}
	if existing == nil {
		// Row vanished between insert and read; this core never deletes,
		// so treat it as a store failure.
		return nil, false, fmt.Errorf("account %s disappeared after insert conflict", accountID)
	}
	return existing, false, nil
}

// GetByAccountID retrieves an account regardless of its active value.
func (r *postgresRepository) GetByAccountID(ctx context.Context, accountID string) (*model.Account, error) {
	var cached model.Account
	if found, err := r.cache.Get(ctx, accountCacheKey(accountID), &cached); err != nil {
		logger.Warn("account cache read failed", map[string]interface{}{
			"account_id": accountID, "error": err.Error(),
		})
	} else if found {
		return &cached, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	if err := r.cache.Set(ctx, accountCacheKey(accountID), acc, accountCacheTTL); err != nil {
		logger.Warn("account cache write failed", map[string]interface{}{
			"account_id": accountID, "error": err.Error(),
		})
	}

	return acc, nil
}

// Update overwrites name/description and refreshes updated_at.
func (r *postgresRepository) Update(ctx context.Context, accountID, name, description string) (*model.Account, error) {
	query := `
    UPDATE accounts
    SET name = $1, description = $2, updated_at = NOW()
    WHERE account_id = $3
    RETURNING ` + accountColumns

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, name, description, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	r.invalidate(ctx, accountID)
	return acc, nil
}

// Inactivate flips active to false inside one transaction. The conditional
// update and the fallback read share the transaction so the no-op path
// reports a consistent row.
func (r *postgresRepository) Inactivate(ctx context.Context, accountID string) (*model.Account, bool, error) {
	return r.setActive(ctx, accountID, false)
}

// Reactivate flips active back to true; symmetric to Inactivate.
func (r *postgresRepository) Reactivate(ctx context.Context, accountID string) (*model.Account, bool, error) {
	return r.setActive(ctx, accountID, true)
}

type activeResult struct {
	account *model.Account
	changed bool
}

func (r *postgresRepository) setActive(ctx context.Context, accountID string, active bool) (*model.Account, bool, error) {
	updateQuery := `
    UPDATE accounts
    SET active = $1, updated_at = NOW()
    WHERE account_id = $2 AND active = $3
    RETURNING ` + accountColumns

	selectQuery := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	res, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (activeResult, error) {
		acc, err := scanAccount(tx.QueryRow(ctx, updateQuery, active, accountID, !active))
		if err == nil {
			return activeResult{account: acc, changed: true}, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return activeResult{}, fmt.Errorf("failed to set account active=%t: %w", active, err)
		}

		// No row flipped: either absent or already in the target state.
		acc, err = scanAccount(tx.QueryRow(ctx, selectQuery, accountID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return activeResult{}, nil
			}
			return activeResult{}, fmt.Errorf("failed to read account state: %w", err)
		}
		return activeResult{account: acc, changed: false}, nil
	})
	if err != nil {
		return nil, false, err
	}

	if res.changed {
		r.invalidate(ctx, accountID)
	}
	return res.account, res.changed, nil
}

// List retrieves one page of accounts matching the filter, ordered by
// account_id so pagination is stable across calls.
func (r *postgresRepository) List(ctx context.Context, filter *model.AccountFilter) ([]*model.Account, error) {
	whereClause, args := buildAccountWhere(filter.Query, filter.IncludeInactive)

	query := fmt.Sprintf(`
    SELECT %s FROM accounts
    %s
    ORDER BY account_id
    LIMIT $%d OFFSET $%d
  `, accountColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

// Count returns the number of accounts matching the same filter as List.
func (r *postgresRepository) Count(ctx context.Context, filter *model.AccountFilter) (int, error) {
	whereClause, args := buildAccountWhere(filter.Query, filter.IncludeInactive)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM accounts %s`, whereClause)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// StreamAll walks the whole table lazily; intended for full exports.
func (r *postgresRepository) StreamAll(ctx context.Context, includeInactive bool, fn func(*model.Account) error) error {
	whereClause, args := buildAccountWhere("", includeInactive)
	query := fmt.Sprintf(`SELECT %s FROM accounts %s ORDER BY account_id`, accountColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to stream accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return fmt.Errorf("failed to scan account row: %w", err)
		}
		if err := fn(acc); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating account rows: %w", err)
	}
	return nil
}

// buildAccountWhere composes the filter used by List, Count and StreamAll
// so a page and its count always agree on the matching set.
func buildAccountWhere(query string, includeInactive bool) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if query != "" {
		args = append(args, "%"+query+"%")
		conds = append(conds, fmt.Sprintf("(account_id ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if !includeInactive {
		conds = append(conds, "active = TRUE")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + utils.JoinWithAnd(conds), args
}

func (r *postgresRepository) invalidate(ctx context.Context, accountID string) {
	if err := r.cache.Delete(ctx, accountCacheKey(accountID)); err != nil {
		logger.Warn("account cache invalidation failed", map[string]interface{}{
			"account_id": accountID, "error": err.Error(),
		})
	}
}
