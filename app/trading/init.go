package trading

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/cache"
	"github.com/praxis-markets/praxis/internal/keyedmutex"
	"github.com/praxis-markets/praxis/internal/logger"
)

// Dependencies represent the dependencies needed for the trading module.
// Locks must be shared with the markets module so trades serialize against
// lifecycle transitions on the same market.
type Dependencies struct {
	DB         *gorm.DB
	Config     *Config
	Fees       FeeQuoter
	Locks      *keyedmutex.KeyedMutex
	PriceCache cache.Cache[*PricesResponse]
	Logger     logger.Logger
}

func Init(r *gin.RouterGroup, deps Dependencies) {
	if deps.Config == nil {
		deps.Config = GetDefaultConfig()
	}
	if deps.Locks == nil {
		deps.Locks = keyedmutex.New()
	}
	if deps.PriceCache == nil {
		deps.PriceCache = cache.NewMemoryCache[*PricesResponse]()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNullLogger()
	}

	repo := NewRepository(deps.DB)
	pricing := NewLMSREngine()
	sets := NewCompleteSetEngine()

	srvs := NewService(deps.DB, repo, deps.Config, pricing, sets, deps.Fees, deps.Locks, deps.PriceCache, deps.Logger)
	handler := NewHandler(srvs)

	markets := r.Group("/markets")
	markets.POST("/:id/buy", handler.Buy)
	markets.POST("/:id/sell", handler.Sell)
	markets.POST("/:id/mint", handler.MintCompleteSet)
	markets.POST("/:id/burn", handler.BurnCompleteSet)
	markets.POST("/:id/liquidity", handler.AddLiquidity)
	markets.DELETE("/:id/liquidity", handler.RemoveLiquidity)
	markets.POST("/:id/quote", handler.Quote)
	markets.GET("/:id/prices", handler.GetPrices)
	markets.GET("/:id/arbitrage", handler.CheckArbitrage)
	markets.GET("/:id/positions/:user_id", handler.GetUserPosition)
}
