package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"account-service/internal/domains/account/model"
	"account-service/internal/domains/account/service"
	"account-service/internal/shared/response"
)

// AccountHandler handles HTTP requests for the account domain.
type AccountHandler struct {
	service service.ServiceInterface
}

// NewAccountHandler creates a new account handler instance.
// Dependency injection pattern - receives service from container.
func NewAccountHandler(service service.ServiceInterface) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req model.CreateAccountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, message, code)
		return
	}

	// A repeated create is not an error; report 200 with created=false.
	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	response.Success(c, status, "Account created successfully", result)
}

// GetAccount handles GET /accounts/:account_id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID := c.Param("account_id")

	result, err := h.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, message, code)
		return
	}

	response.Success(c, http.StatusOK, "Account retrieved successfully", result)
}

// UpdateAccount handles PUT /accounts/:account_id
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountID := c.Param("account_id")

	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.UpdateAccount(c.Request.Context(), accountID, &req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, message, code)
		return
	}

	response.Success(c, http.StatusOK, "Account updated successfully", result)
}

// InactivateAccount handles POST /accounts/:account_id/inactivate
func (h *AccountHandler) InactivateAccount(c *gin.Context) {
	accountID := c.Param("account_id")

	var req model.InactivateAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request payload")
			return
		}
	}

	result, err := h.service.InactivateAccount(c.Request.Context(), accountID, req.Reason)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, message, code)
		return
	}

	response.Success(c, http.StatusOK, result.Message, result)
}

// ReactivateAccount handles POST /accounts/:account_id/reactivate
func (h *AccountHandler) ReactivateAccount(c *gin.Context) {
	accountID := c.Param("account_id")

	var req model.ReactivateAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request payload")
			return
		}
	}

	result, err := h.service.ReactivateAccount(c.Request.Context(), accountID, req.Reason)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, message, code)
		return
	}

	response.Success(c, http.StatusOK, result.Message, result)
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	req := model.ListAccountsRequest{
		Query:     c.Query("query"),
		PageToken: c.Query("page_token"),
	}

	if v := c.Query("include_inactive"); v != "" {
		if includeInactive, err := strconv.ParseBool(v); err == nil {
			req.IncludeInactive = includeInactive
		}
	}
	if v := c.Query("page_size"); v != "" {
		if pageSize, err := strconv.Atoi(v); err == nil {
			req.PageSize = pageSize
		}
	}

	result, err := h.service.ListAccounts(c.Request.Context(), &req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, message, code)
		return
	}

	response.Success(c, http.StatusOK, "Accounts retrieved successfully", result)
}

// ExportAccounts handles GET /accounts/export
// Streams every account as newline-delimited JSON, one row per line.
func (h *AccountHandler) ExportAccounts(c *gin.Context) {
	includeInactive := false
	if v := c.Query("include_inactive"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			includeInactive = parsed
		}
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	flusher, _ := c.Writer.(http.Flusher)

	err := h.service.StreamAllAccounts(c.Request.Context(), includeInactive, func(acc *model.Account) error {
		if err := enc.Encode(acc.ToResponse()); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		// Headers are already out; the truncated stream is the only signal.
		_ = c.Error(err)
	}
}
