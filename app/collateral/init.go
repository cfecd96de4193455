package collateral

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/logger"
)

// Dependencies represent the dependencies needed for the collateral module
type Dependencies struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func Init(r *gin.RouterGroup, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = logger.NewNullLogger()
	}

	repo := NewRepository(deps.DB)
	srvs := NewService(deps.DB, repo, deps.Logger)
	handler := NewHandler(srvs)

	accounts := r.Group("/collateral")
	accounts.GET("", handler.GetAccount)
	accounts.POST("/deposit", handler.Deposit)
	accounts.POST("/withdraw", handler.Withdraw)
}
