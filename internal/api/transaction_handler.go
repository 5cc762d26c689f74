package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koek1/budget-app/internal/core"
	"github.com/koek1/budget-app/internal/models"
)

// TransactionHandler handles the transaction CRUD endpoints.
type TransactionHandler struct {
	transactionService core.TransactionService
	logger             *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts core.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{transactionService: ts, logger: logger}
}

// respondTransactionError maps errors from core.TransactionService to HTTP status codes.
func (h *TransactionHandler) respondTransactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
	case errors.Is(err, core.ErrInvalidTransaction):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction", Details: err.Error()})
	default:
		h.logger.Error("Transaction request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
	}
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	transactions, err := h.transactionService.List(c.Request.Context(), userID)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Create handles POST /api/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	transaction, err := h.transactionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// Update handles PUT /api/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	transaction, err := h.transactionService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// Delete handles DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if _, err := h.transactionService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondTransactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Transaction deleted"})
}
