package service

import (
	"context"

	"account-service/internal/domains/account/model"
)

// EventEmitter is what the lifecycle manager needs from the event side.
// Calls are fire-and-forget: they never fail and never block on the broker.
type EventEmitter interface {
	EmitCreated(accountID, name, description string)
	EmitUpdated(accountID, name, description string)
	EmitInactivated(accountID, reason string)
	EmitReactivated(accountID, reason string)
}

// ServiceInterface is the account lifecycle manager surface consumed by the
// transport layer. A successful mutating call guarantees the store write is
// durable; the corresponding event is best-effort only.
type ServiceInterface interface {
	CreateAccount(ctx context.Context, req *model.CreateAccountRequest) (*model.CreateAccountResponse, error)
	GetAccount(ctx context.Context, accountID string) (*model.AccountResponse, error)
	UpdateAccount(ctx context.Context, accountID string, req *model.UpdateAccountRequest) (*model.AccountResponse, error)

	// InactivateAccount and ReactivateAccount report a missing account as
	// Success=false, deliberately not as an error.
	InactivateAccount(ctx context.Context, accountID, reason string) (*model.InactivateAccountResponse, error)
	ReactivateAccount(ctx context.Context, accountID, reason string) (*model.ReactivateAccountResponse, error)

	ListAccounts(ctx context.Context, req *model.ListAccountsRequest) (*model.AccountListResponse, error)

	// StreamAllAccounts walks the current table state once; no snapshot
	// isolation beyond what each underlying read provides.
	StreamAllAccounts(ctx context.Context, includeInactive bool, fn func(*model.Account) error) error
}
