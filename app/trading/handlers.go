package trading

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/app/api"
	"github.com/praxis-markets/praxis/models"
)

// Handler handles HTTP requests for trading operations
type Handler struct {
	service Service
}

// NewHandler creates a new trading handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Buy executes a budget-bounded buy on one outcome.
func (h *Handler) Buy(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	trade, err := h.service.Buy(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.CreatedResponse(c, "Trade executed successfully", trade)
}

// Sell sells an exact share quantity of one outcome.
func (h *Handler) Sell(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	trade, err := h.service.Sell(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.CreatedResponse(c, "Trade executed successfully", trade)
}

// MintCompleteSet mints complete sets 1:1 against collateral.
func (h *Handler) MintCompleteSet(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req CompleteSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	trade, err := h.service.MintCompleteSet(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.CreatedResponse(c, "Complete sets minted successfully", trade)
}

// BurnCompleteSet burns complete sets for collateral.
func (h *Handler) BurnCompleteSet(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req CompleteSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	trade, err := h.service.BurnCompleteSet(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.CreatedResponse(c, "Complete sets burned successfully", trade)
}

// AddLiquidity deposits collateral into the market's liquidity pool.
func (h *Handler) AddLiquidity(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req LiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	result, err := h.service.AddLiquidity(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.CreatedResponse(c, "Liquidity added successfully", result)
}

// RemoveLiquidity burns LP shares for a proportional pool payout.
func (h *Handler) RemoveLiquidity(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	result, err := h.service.RemoveLiquidity(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Liquidity removed successfully", result)
}

// Quote simulates a buy or sell without executing it. The side comes from the
// "side" query parameter and defaults to buy.
func (h *Handler) Quote(c *gin.Context) {
	marketID, ok := h.parseMarketID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	var (
		quote *QuoteResponse
		err   error
	)
	switch c.DefaultQuery("side", "buy") {
	case "buy":
		quote, err = h.service.SimulateBuy(c.Request.Context(), marketID, &req)
	case "sell":
		quote, err = h.service.SimulateSell(c.Request.Context(), marketID, &req)
	default:
		api.ValidationErrorResponse(c, "side must be buy or sell")
		return
	}
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Quote calculated successfully", quote)
}

// GetPrices returns the market's current price vector.
func (h *Handler) GetPrices(c *gin.Context) {
	marketID, ok := h.parseMarketID(c)
	if !ok {
		return
	}

	prices, err := h.service.GetPrices(c.Request.Context(), marketID)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Prices retrieved successfully", prices)
}

// CheckArbitrage reports any deviation of the price sum from one unit.
func (h *Handler) CheckArbitrage(c *gin.Context) {
	marketID, ok := h.parseMarketID(c)
	if !ok {
		return
	}

	result, err := h.service.CheckArbitrage(c.Request.Context(), marketID)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Arbitrage check completed", result)
}

// GetUserPosition returns a user's balances in one market.
func (h *Handler) GetUserPosition(c *gin.Context) {
	marketID, ok := h.parseMarketID(c)
	if !ok {
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.ValidationErrorResponse(c, "Invalid user ID format")
		return
	}

	position, err := h.service.GetUserPosition(c.Request.Context(), marketID, userID)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Position retrieved successfully", position)
}

func (h *Handler) parseIdentity(c *gin.Context) (userID, marketID uuid.UUID, ok bool) {
	userID = userIDFromContext(c)
	if userID == uuid.Nil {
		api.UnauthorizedResponse(c)
		return uuid.Nil, uuid.Nil, false
	}
	marketID, ok = h.parseMarketID(c)
	return userID, marketID, ok
}

func (h *Handler) parseMarketID(c *gin.Context) (uuid.UUID, bool) {
	marketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.ValidationErrorResponse(c, "Invalid market ID format")
		return uuid.Nil, false
	}
	return marketID, true
}

func (h *Handler) respondTradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Market")
	case isTradeRejection(err):
		api.ErrorResponse(c, 400, "TRADE_REJECTED", err.Error(), nil)
	default:
		api.InternalErrorResponse(c, "Failed to execute market operation")
	}
}

// isTradeRejection covers the fail-fast validation errors a caller can fix by
// retrying with different parameters.
func isTradeRejection(err error) bool {
	for _, target := range []error{
		models.ErrInvalidOutcome,
		models.ErrInvalidOutcomeCount,
		models.ErrZeroAmount,
		models.ErrTradeTooLarge,
		models.ErrInsufficientShares,
		models.ErrInsufficientCollateral,
		models.ErrInsufficientLiquidity,
		models.ErrSlippageExceeded,
		models.ErrMarketNotActive,
		models.ErrDomain,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func userIDFromContext(c *gin.Context) uuid.UUID {
	if value, exists := c.Get("user_id"); exists {
		if userID, ok := value.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}
