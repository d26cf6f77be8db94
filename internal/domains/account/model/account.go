package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Account is the durable tenant record. AccountID is the natural primary
// key, immutable once created; rows are never physically deleted.
type Account struct {
	AccountID   string    `json:"account_id" db:"account_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AccountFilter holds the listing conditions shared by List and Count.
type AccountFilter struct {
	Query           string // case-insensitive substring on account_id OR name
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ========================================
// REQUEST DTOs
// ========================================

type CreateAccountRequest struct {
	AccountID   string `json:"account_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccountID,
			validation.Required.Error("account_id is required"),
			validation.Length(1, 128),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1024),
		),
	)
}

type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

func (r UpdateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1024),
		),
	)
}

type InactivateAccountRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ReactivateAccountRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ListAccountsRequest struct {
	Query           string `form:"query"`
	IncludeInactive bool   `form:"include_inactive"`
	PageSize        int    `form:"page_size"`
	PageToken       string `form:"page_token"`
}

// ========================================
// RESPONSE DTOs
// ========================================

type AccountResponse struct {
	AccountID   string    `json:"account_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		AccountID:   a.AccountID,
		Name:        a.Name,
		Description: a.Description,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// CreateAccountResponse reports the current truthful state: Created is
// false when the id already existed and the stored row is returned as-is.
type CreateAccountResponse struct {
	Account *AccountResponse `json:"account"`
	Created bool             `json:"created"`
}

// InactivateAccountResponse never carries an error for a missing account;
// Success=false stands in for it.
type InactivateAccountResponse struct {
	Success         bool   `json:"success"`
	AlreadyInactive bool   `json:"already_inactive"`
	Message         string `json:"message"`
}

type ReactivateAccountResponse struct {
	Success       bool   `json:"success"`
	AlreadyActive bool   `json:"already_active"`
	Message       string `json:"message"`
}

type AccountListResponse struct {
	Accounts      []*AccountResponse `json:"accounts"`
	TotalCount    int                `json:"total_count"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}
