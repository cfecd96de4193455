package markets

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/keyedmutex"
	"github.com/praxis-markets/praxis/internal/logger"
	"github.com/praxis-markets/praxis/internal/sanitizer"
)

// Dependencies represent the dependencies needed for the markets module.
// Locks must be shared with the trading module so lifecycle transitions
// serialize against trades on the same market.
type Dependencies struct {
	DB        *gorm.DB
	Config    *Config
	Fees      FeeEngine
	Deriver   LiquidityDeriver
	Sanitizer sanitizer.HTMLStripperer
	Locks     *keyedmutex.KeyedMutex
	Logger    logger.Logger
}

func Init(r *gin.RouterGroup, deps Dependencies) {
	if deps.Config == nil {
		deps.Config = GetDefaultConfig()
	}
	if deps.Fees == nil {
		deps.Fees = NewFeeEngine(deps.Config)
	}
	if deps.Sanitizer == nil {
		deps.Sanitizer = sanitizer.NewHTMLStripper()
	}
	if deps.Locks == nil {
		deps.Locks = keyedmutex.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNullLogger()
	}

	repo := NewRepository(deps.DB)
	srvs := NewService(deps.DB, repo, deps.Config, deps.Fees, deps.Deriver, deps.Locks, deps.Logger)
	handler := NewHandler(srvs, deps.Sanitizer)

	markets := r.Group("/markets")
	markets.POST("", handler.CreateMarket)
	markets.GET("", handler.GetMarkets)
	markets.GET("/:id", handler.GetMarketState)
	markets.POST("/:id/resolve", handler.ResolveMarket)
	markets.POST("/:id/cancel", handler.CancelMarket)
	markets.POST("/:id/claim", handler.Claim)
	markets.GET("/:id/fees", handler.GetFeeQuote)
}
