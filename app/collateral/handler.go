package collateral

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/app/api"
	"github.com/praxis-markets/praxis/models"
)

// Handler handles HTTP requests for collateral operations
type Handler struct {
	service Service
}

// NewHandler creates a new collateral handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAccount returns the caller's collateral account.
func (h *Handler) GetAccount(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), userID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to fetch account")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Account retrieved successfully", account)
}

// Deposit credits collateral to the caller's account.
func (h *Handler) Deposit(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	account, err := h.service.Deposit(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Deposit completed successfully", account)
}

// Withdraw debits collateral from the caller's account.
func (h *Handler) Withdraw(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	account, err := h.service.Withdraw(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Withdrawal completed successfully", account)
}

func (h *Handler) callerID(c *gin.Context) (uuid.UUID, bool) {
	if value, exists := c.Get("user_id"); exists {
		if userID, ok := value.(uuid.UUID); ok {
			return userID, true
		}
	}
	api.UnauthorizedResponse(c)
	return uuid.Nil, false
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Account")
	case errors.Is(err, models.ErrZeroAmount), errors.Is(err, models.ErrInsufficientCollateral):
		api.ErrorResponse(c, http.StatusBadRequest, "OPERATION_REJECTED", err.Error(), nil)
	default:
		api.InternalErrorResponse(c, "Failed to execute account operation")
	}
}
