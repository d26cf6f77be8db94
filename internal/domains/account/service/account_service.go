package service

import (
	"context"
	"fmt"
	"strings"

	"account-service/internal/domains/account/model"
	"account-service/internal/domains/account/repository"
	"account-service/pkg/logger"
)

// accountServiceImpl orchestrates the account lifecycle: validate input,
// run the store transaction, and only after a durable commit hand the
// transition to the emitter. The two steps are deliberately not atomic
// ("commit-then-best-effort-notify"): an event may be lost, but an event is
// never emitted for a transition that did not commit.
type accountServiceImpl struct {
	repository repository.RepositoryInterface
	emitter    EventEmitter
}

func NewAccountService(repo repository.RepositoryInterface, emitter EventEmitter) ServiceInterface {
	return &accountServiceImpl{
		repository: repo,
		emitter:    emitter,
	}
}

// CreateAccount creates an account, or returns the existing row unchanged
// with Created=false when the id is already taken. Only the first creation
// emits an event.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, req *model.CreateAccountRequest) (*model.CreateAccountResponse, error) {
	if req == nil {
		return nil, model.NewValidationError("request is required", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.NewValidationError("name must not be blank", nil)
	}

	acc, created, err := s.repository.Create(ctx, req.AccountID, req.Name, req.Description)
	if err != nil {
		logger.Error("create account failed", err)
		return nil, model.NewStoreUnavailable("create", err)
	}

	if created {
		s.emitter.EmitCreated(acc.AccountID, acc.Name, acc.Description)
		logger.Info("account created", map[string]interface{}{
			"account_id": acc.AccountID,
		})
	}

	return &model.CreateAccountResponse{
		Account: acc.ToResponse(),
		Created: created,
	}, nil
}

// GetAccount returns the row including its current active value.
func (s *accountServiceImpl) GetAccount(ctx context.Context, accountID string) (*model.AccountResponse, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, model.NewValidationError("account_id is required", nil)
	}

	acc, err := s.repository.GetByAccountID(ctx, accountID)
	if err != nil {
		logger.Error("get account failed", err)
		return nil, model.NewStoreUnavailable("get", err)
	}
	if acc == nil {
		return nil, model.NewAccountNotFound(accountID)
	}

	return acc.ToResponse(), nil
}

// UpdateAccount overwrites name/description. Emits an updated event on
// every successful call, even when the values did not change.
func (s *accountServiceImpl) UpdateAccount(ctx context.Context, accountID string, req *model.UpdateAccountRequest) (*model.AccountResponse, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, model.NewValidationError("account_id is required", nil)
	}
	if req == nil {
		return nil, model.NewValidationError("request is required", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.NewValidationError("name must not be blank", nil)
	}

	acc, err := s.repository.Update(ctx, accountID, req.Name, req.Description)
	if err != nil {
		logger.Error("update account failed", err)
		return nil, model.NewStoreUnavailable("update", err)
	}
	if acc == nil {
		return nil, model.NewAccountNotFound(accountID)
	}

	s.emitter.EmitUpdated(acc.AccountID, acc.Name, acc.Description)
	return acc.ToResponse(), nil
}

// InactivateAccount flips an active account to inactive. A missing account
// yields Success=false without an error; a repeat call is a no-op that
// reports AlreadyInactive and emits nothing.
func (s *accountServiceImpl) InactivateAccount(ctx context.Context, accountID, reason string) (*model.InactivateAccountResponse, error) {
	acc, changed, err := s.repository.Inactivate(ctx, accountID)
	if err != nil {
		logger.Error("inactivate account failed", err)
		return nil, model.NewStoreUnavailable("inactivate", err)
	}
	if acc == nil {
		return &model.InactivateAccountResponse{
			Success: false,
			Message: fmt.Sprintf("Account '%s' not found", accountID),
		}, nil
	}

	if changed {
		s.emitter.EmitInactivated(accountID, reason)
		logger.Info("account inactivated", map[string]interface{}{
			"account_id": accountID,
			"reason":     reason,
		})
		return &model.InactivateAccountResponse{
			Success: true,
			Message: "Account inactivated successfully",
		}, nil
	}

	return &model.InactivateAccountResponse{
		Success:         true,
		AlreadyInactive: true,
		Message:         "Account already inactive",
	}, nil
}

// ReactivateAccount is symmetric to InactivateAccount.
func (s *accountServiceImpl) ReactivateAccount(ctx context.Context, accountID, reason string) (*model.ReactivateAccountResponse, error) {
	acc, changed, err := s.repository.Reactivate(ctx, accountID)
	if err != nil {
		logger.Error("reactivate account failed", err)
		return nil, model.NewStoreUnavailable("reactivate", err)
	}
	if acc == nil {
		return &model.ReactivateAccountResponse{
			Success: false,
			Message: fmt.Sprintf("Account '%s' not found", accountID),
		}, nil
	}

	if changed {
		s.emitter.EmitReactivated(accountID, reason)
		logger.Info("account reactivated", map[string]interface{}{
			"account_id": accountID,
			"reason":     reason,
		})
		return &model.ReactivateAccountResponse{
			Success: true,
			Message: "Account reactivated successfully",
		}, nil
	}

	return &model.ReactivateAccountResponse{
		Success:       true,
		AlreadyActive: true,
		Message:       "Account already active",
	}, nil
}

// ListAccounts pages through accounts matching the query. The page and the
// total count are computed against the same filter within this call, and one
// extra row is fetched to decide whether a next-page token exists.
func (s *accountServiceImpl) ListAccounts(ctx context.Context, req *model.ListAccountsRequest) (*model.AccountListResponse, error) {
	if req == nil {
		req = &model.ListAccountsRequest{}
	}

	size := resolvePageSize(req.PageSize)
	offset := decodePageToken(req.PageToken)

	filter := &model.AccountFilter{
		Query:           strings.TrimSpace(req.Query),
		IncludeInactive: req.IncludeInactive,
		Limit:           size + 1,
		Offset:          offset,
	}

	accounts, err := s.repository.List(ctx, filter)
	if err != nil {
		logger.Error("list accounts failed", err)
		return nil, model.NewStoreUnavailable("list", err)
	}

	total, err := s.repository.Count(ctx, filter)
	if err != nil {
		logger.Error("count accounts failed", err)
		return nil, model.NewStoreUnavailable("count", err)
	}

	nextPageToken := ""
	if len(accounts) > size {
		accounts = accounts[:size]
		nextPageToken = encodePageToken(offset + size)
	}

	responses := make([]*model.AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, acc.ToResponse())
	}

	return &model.AccountListResponse{
		Accounts:      responses,
		TotalCount:    total,
		NextPageToken: nextPageToken,
	}, nil
}

// StreamAllAccounts hands the store's full-table walk to the caller; one
// pass, non-restartable.
func (s *accountServiceImpl) StreamAllAccounts(ctx context.Context, includeInactive bool, fn func(*model.Account) error) error {
	if err := s.repository.StreamAll(ctx, includeInactive, fn); err != nil {
		logger.Error("stream accounts failed", err)
		return model.NewStoreUnavailable("stream", err)
	}
	return nil
}
