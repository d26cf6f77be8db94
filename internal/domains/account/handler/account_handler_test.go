package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/domains/account/model"
	"account-service/internal/domains/account/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService is a canned-response ServiceInterface for handler tests.
type fakeService struct {
	createResp     *model.CreateAccountResponse
	createErr      error
	getResp        *model.AccountResponse
	getErr         error
	updateResp     *model.AccountResponse
	updateErr      error
	inactivateResp *model.InactivateAccountResponse
	inactivateErr  error
	reactivateResp *model.ReactivateAccountResponse
	reactivateErr  error
	listResp       *model.AccountListResponse
	listErr        error
	streamAccounts []*model.Account

	lastInactivateReason string
	lastListReq          *model.ListAccountsRequest
}

var _ service.ServiceInterface = (*fakeService)(nil)

func (f *fakeService) CreateAccount(ctx context.Context, req *model.CreateAccountRequest) (*model.CreateAccountResponse, error) {
	return f.createResp, f.createErr
}

func (f *fakeService) GetAccount(ctx context.Context, accountID string) (*model.AccountResponse, error) {
	return f.getResp, f.getErr
}

func (f *fakeService) UpdateAccount(ctx context.Context, accountID string, req *model.UpdateAccountRequest) (*model.AccountResponse, error) {
	return f.updateResp, f.updateErr
}

func (f *fakeService) InactivateAccount(ctx context.Context, accountID, reason string) (*model.InactivateAccountResponse, error) {
	f.lastInactivateReason = reason
	return f.inactivateResp, f.inactivateErr
}

func (f *fakeService) ReactivateAccount(ctx context.Context, accountID, reason string) (*model.ReactivateAccountResponse, error) {
	return f.reactivateResp, f.reactivateErr
}

func (f *fakeService) ListAccounts(ctx context.Context, req *model.ListAccountsRequest) (*model.AccountListResponse, error) {
	f.lastListReq = req
	return f.listResp, f.listErr
}

func (f *fakeService) StreamAllAccounts(ctx context.Context, includeInactive bool, fn func(*model.Account) error) error {
	for _, acc := range f.streamAccounts {
		if err := fn(acc); err != nil {
			return err
		}
	}
	return nil
}

func newTestRouter(svc *fakeService) *gin.Engine {
	h := NewAccountHandler(svc)
	r := gin.New()
	r.POST("/accounts", h.CreateAccount)
	r.GET("/accounts", h.ListAccounts)
	r.GET("/accounts/export", h.ExportAccounts)
	r.GET("/accounts/:account_id", h.GetAccount)
	r.PUT("/accounts/:account_id", h.UpdateAccount)
	r.POST("/accounts/:account_id/inactivate", h.InactivateAccount)
	r.POST("/accounts/:account_id/reactivate", h.ReactivateAccount)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAccountStatusReflectsCreatedFlag(t *testing.T) {
	acc := &model.AccountResponse{AccountID: "acme", Name: "Acme", Active: true}

	svc := &fakeService{createResp: &model.CreateAccountResponse{Account: acc, Created: true}}
	w := perform(newTestRouter(svc), http.MethodPost, "/accounts",
		`{"account_id":"acme","name":"Acme"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	svc = &fakeService{createResp: &model.CreateAccountResponse{Account: acc, Created: false}}
	w = perform(newTestRouter(svc), http.MethodPost, "/accounts",
		`{"account_id":"acme","name":"Acme"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAccountRejectsMalformedBody(t *testing.T) {
	w := perform(newTestRouter(&fakeService{}), http.MethodPost, "/accounts", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAccountMapsValidationError(t *testing.T) {
	svc := &fakeService{createErr: model.NewValidationError("name must not be blank", nil)}
	w := perform(newTestRouter(svc), http.MethodPost, "/accounts",
		`{"account_id":"acme","name":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeValidation)
}

func TestGetAccountNotFoundIs404(t *testing.T) {
	svc := &fakeService{getErr: model.NewAccountNotFound("missing")}
	w := perform(newTestRouter(svc), http.MethodGet, "/accounts/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeAccountNotFound)
}

func TestGetAccountReturnsRow(t *testing.T) {
	svc := &fakeService{getResp: &model.AccountResponse{AccountID: "acme", Name: "Acme", Active: false}}
	w := perform(newTestRouter(svc), http.MethodGet, "/accounts/acme", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)
}

func TestInactivateMissingAccountIs200WithSuccessFalse(t *testing.T) {
	svc := &fakeService{inactivateResp: &model.InactivateAccountResponse{
		Success: false,
		Message: "Account 'missing' not found",
	}}
	w := perform(newTestRouter(svc), http.MethodPost, "/accounts/missing/inactivate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestInactivateAcceptsOptionalReasonBody(t *testing.T) {
	svc := &fakeService{inactivateResp: &model.InactivateAccountResponse{Success: true}}
	r := newTestRouter(svc)

	// No body at all is fine.
	w := perform(r, http.MethodPost, "/accounts/acme/inactivate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.lastInactivateReason)

	w = perform(r, http.MethodPost, "/accounts/acme/inactivate", `{"reason":"billing lapsed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "billing lapsed", svc.lastInactivateReason)
}

func TestReactivateStoreFailureIs503(t *testing.T) {
	svc := &fakeService{reactivateErr: model.NewStoreUnavailable("reactivate", assert.AnError)}
	w := perform(newTestRouter(svc), http.MethodPost, "/accounts/acme/reactivate", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListAccountsBindsQueryParams(t *testing.T) {
	svc := &fakeService{listResp: &model.AccountListResponse{TotalCount: 0}}
	w := perform(newTestRouter(svc), http.MethodGet,
		"/accounts?query=mar&include_inactive=true&page_size=25&page_token=50", "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.lastListReq)
	assert.Equal(t, "mar", svc.lastListReq.Query)
	assert.True(t, svc.lastListReq.IncludeInactive)
	assert.Equal(t, 25, svc.lastListReq.PageSize)
	assert.Equal(t, "50", svc.lastListReq.PageToken)
}

func TestExportAccountsStreamsNDJSON(t *testing.T) {
	svc := &fakeService{streamAccounts: []*model.Account{
		{AccountID: "alpha", Name: "Alpha", Active: true},
		{AccountID: "beta", Name: "Beta", Active: true},
	}}
	w := perform(newTestRouter(svc), http.MethodGet, "/accounts/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	var ids []string
	sc := bufio.NewScanner(strings.NewReader(w.Body.String()))
	for sc.Scan() {
		var row model.AccountResponse
		require.NoError(t, json.Unmarshal(sc.Bytes(), &row))
		ids = append(ids, row.AccountID)
	}
	assert.Equal(t, []string{"alpha", "beta"}, ids)
}
