package markets

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/app/api"
	"github.com/praxis-markets/praxis/internal/sanitizer"
	"github.com/praxis-markets/praxis/models"
)

// Handler handles HTTP requests for market lifecycle operations
type Handler struct {
	service Service
	strip   sanitizer.HTMLStripperer
}

// NewHandler creates a new markets handler
func NewHandler(service Service, strip sanitizer.HTMLStripperer) *Handler {
	return &Handler{service: service, strip: strip}
}

// CreateMarket creates a new market funded by the caller.
func (h *Handler) CreateMarket(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == uuid.Nil {
		api.UnauthorizedResponse(c)
		return
	}

	var req CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	req.Title = h.strip.StripHTML(req.Title)
	req.Description = h.strip.StripHTML(req.Description)
	for i := range req.OutcomeLabels {
		req.OutcomeLabels[i] = h.strip.StripHTML(req.OutcomeLabels[i])
	}

	market, err := h.service.CreateMarket(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.CreatedResponse(c, "Market created successfully", market)
}

// GetMarkets lists markets with optional status filtering and pagination.
func (h *Handler) GetMarkets(c *gin.Context) {
	var filters MarketFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	result, err := h.service.GetMarkets(c.Request.Context(), &filters)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Markets retrieved successfully", result)
}

// GetMarketState returns the full state of one market.
func (h *Handler) GetMarketState(c *gin.Context) {
	marketID, ok := h.parseMarketID(c)
	if !ok {
		return
	}

	state, err := h.service.GetMarketState(c.Request.Context(), marketID)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Market retrieved successfully", state)
}

// ResolveMarket resolves a market to its winning outcome.
func (h *Handler) ResolveMarket(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	var req ResolveMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	market, err := h.service.ResolveMarket(c.Request.Context(), userID, marketID, &req)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Market resolved successfully", market)
}

// CancelMarket cancels a market before resolution.
func (h *Handler) CancelMarket(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	market, err := h.service.CancelMarket(c.Request.Context(), userID, marketID)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Market cancelled successfully", market)
}

// Claim settles the caller's position on a terminal market.
func (h *Handler) Claim(c *gin.Context) {
	userID, marketID, ok := h.parseIdentity(c)
	if !ok {
		return
	}

	claim, err := h.service.Claim(c.Request.Context(), userID, marketID)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.CreatedResponse(c, "Claim settled successfully", claim)
}

// GetFeeQuote returns the current fee rate and accrual totals for a market.
func (h *Handler) GetFeeQuote(c *gin.Context) {
	marketID, ok := h.parseMarketID(c)
	if !ok {
		return
	}

	quote, err := h.service.GetFeeQuote(c.Request.Context(), marketID)
	if err != nil {
		h.respondMarketError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Fee quote retrieved successfully", quote)
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

func (h *Handler) respondMarketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Market")
	case errors.Is(err, models.ErrUnauthorized):
		api.ForbiddenResponse(c, "Only the market resolver may perform this action")
	case errors.Is(err, models.ErrAlreadyClaimed):
		api.ConflictResponse(c, err.Error())
	case isLifecycleRejection(err):
		api.ErrorResponse(c, 400, "MARKET_REJECTED", err.Error(), nil)
	default:
		api.InternalErrorResponse(c, "Failed to execute market operation")
	}
}

// isLifecycleRejection covers validation and state errors the caller can act
// on.
func isLifecycleRejection(err error) bool {
	for _, target := range []error{
		models.ErrInvalidMarketTitle,
		models.ErrInvalidOutcome,
		models.ErrInvalidOutcomeCount,
		models.ErrInvalidResolutionTime,
		models.ErrInvalidResolver,
		models.ErrZeroAmount,
		models.ErrInsufficientLiquidity,
		models.ErrInsufficientCollateral,
		models.ErrMarketNotActive,
		models.ErrMarketNotResolved,
		models.ErrResolutionTimeNotReached,
		models.ErrNothingToClaim,
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
