package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAccountRequestValidate(t *testing.T) {
	valid := CreateAccountRequest{AccountID: "acme", Name: "Acme Corp"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  CreateAccountRequest
	}{
		{"missing account_id", CreateAccountRequest{Name: "Acme"}},
		{"missing name", CreateAccountRequest{AccountID: "acme"}},
		{"account_id too long", CreateAccountRequest{AccountID: strings.Repeat("a", 129), Name: "Acme"}},
		{"name too long", CreateAccountRequest{AccountID: "acme", Name: strings.Repeat("n", 256)}},
		{"description too long", CreateAccountRequest{AccountID: "acme", Name: "Acme", Description: strings.Repeat("d", 1025)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestUpdateAccountRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateAccountRequest{Name: "New Name"}.Validate())
	assert.Error(t, UpdateAccountRequest{}.Validate())
	assert.Error(t, UpdateAccountRequest{Name: strings.Repeat("n", 256)}.Validate())
}

func TestAccountToResponse(t *testing.T) {
	acc := &Account{
		AccountID:   "acme",
		Name:        "Acme",
		Description: "tenant",
		Active:      true,
	}
	resp := acc.ToResponse()
	assert.Equal(t, acc.AccountID, resp.AccountID)
	assert.Equal(t, acc.Name, resp.Name)
	assert.Equal(t, acc.Description, resp.Description)
	assert.True(t, resp.Active)
}
