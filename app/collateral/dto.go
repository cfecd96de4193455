package collateral

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/models"
)

// DepositRequest credits collateral to the caller's account.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest debits collateral from the caller's account.
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AccountResponse is the public view of a collateral account.
type AccountResponse struct {
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToAccountResponse maps an account model to its public view.
func ToAccountResponse(a *models.CollateralAccount) *AccountResponse {
	return &AccountResponse{
		UserID:    a.UserID,
		Balance:   a.Balance,
		UpdatedAt: a.UpdatedAt,
	}
}
