package repository

import (
	"context"

	"account-service/internal/domains/account/model"
)

// RepositoryInterface is the Account Store contract. Every mutation runs as
// one atomic transaction; partial writes are never observable.
type RepositoryInterface interface {
	// Create inserts a new active account. If the id already exists the
	// stored row is returned unchanged with wasCreated=false; the existence
	// check and insert are atomic with respect to concurrent callers.
	Create(ctx context.Context, accountID, name, description string) (*model.Account, bool, error)

	// GetByAccountID returns the row regardless of its active value,
	// or (nil, nil) when absent.
	GetByAccountID(ctx context.Context, accountID string) (*model.Account, error)

	// Update overwrites name/description and refreshes updated_at.
	// Returns (nil, nil) when absent. Does not touch active.
	Update(ctx context.Context, accountID, name, description string) (*model.Account, error)

	// Inactivate flips active to false. Returns the row plus changed=true
	// on the actual flip, changed=false for the idempotent no-op, and
	// (nil, false) when the row does not exist.
	Inactivate(ctx context.Context, accountID string) (*model.Account, bool, error)

	// Reactivate is symmetric to Inactivate.
	Reactivate(ctx context.Context, accountID string) (*model.Account, bool, error)

	// List returns one page of matching accounts ordered by account_id.
	List(ctx context.Context, filter *model.AccountFilter) ([]*model.Account, error)

	// Count returns the total matching the same filter as List.
	Count(ctx context.Context, filter *model.AccountFilter) (int, error)

	// StreamAll walks the whole table in account_id order, invoking fn per
	// row until exhaustion or the first error returned by fn.
	StreamAll(ctx context.Context, includeInactive bool, fn func(*model.Account) error) error
}
