package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/praxis-markets/praxis/app"
	"github.com/praxis-markets/praxis/app/api"
	"github.com/praxis-markets/praxis/app/collateral"
	"github.com/praxis-markets/praxis/app/database"
	"github.com/praxis-markets/praxis/app/markets"
	"github.com/praxis-markets/praxis/app/trading"
	"github.com/praxis-markets/praxis/app/user"
	"github.com/praxis-markets/praxis/internal/keyedmutex"
	"github.com/praxis-markets/praxis/internal/logger"
	"github.com/praxis-markets/praxis/internal/sanitizer"
	"github.com/praxis-markets/praxis/internal/security"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	tokenMaker, err := security.NewPasetoMaker(cfg.User.SymmetricKey)
	if err != nil {
		log.Fatal("Failed to create token maker:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{
		"service": "praxis-api",
		"env":     cfg.Env,
	})
	htmlSanitizer := sanitizer.NewHTMLStripper()

	// One lock registry keyed by market id. Trading and lifecycle operations
	// on the same market serialize through it.
	marketLocks := keyedmutex.New()

	marketsConfig := markets.GetDefaultConfig()
	feeEngine := markets.NewFeeEngine(marketsConfig)
	pricingEngine := trading.NewLMSREngine()

	r := gin.Default()
	r.Use(api.CorsMiddleware())
	r.GET("/healthz", api.HealthCheck)

	apiV1 := r.Group("/api/v1")
	authGroup := apiV1.Group("/")
	authGroup.Use(user.AuthMiddleware(tokenMaker))

	user.Init(apiV1, authGroup, user.Dependencies{
		DB:         db,
		Config:     &cfg.User,
		TokenMaker: tokenMaker,
	})
	collateral.Init(authGroup, collateral.Dependencies{
		DB:     db,
		Logger: appLogger,
	})
	markets.Init(authGroup, markets.Dependencies{
		DB:        db,
		Config:    marketsConfig,
		Fees:      feeEngine,
		Deriver:   pricingEngine,
		Sanitizer: htmlSanitizer,
		Locks:     marketLocks,
		Logger:    appLogger,
	})
	trading.Init(authGroup, trading.Dependencies{
		DB:     db,
		Fees:   feeEngine,
		Locks:  marketLocks,
		Logger: appLogger,
	})

	log.Printf("Starting Praxis API server on %s:%s", cfg.AppHost, cfg.AppPort)
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
