package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/security"
)

// Dependencies represent the dependencies needed for the user module
type Dependencies struct {
	DB         *gorm.DB
	Config     *Config
	TokenMaker security.Maker
}

// Init mounts the public auth routes. Authenticated routes get
// AuthMiddleware applied by the caller.
func Init(public, authed *gin.RouterGroup, deps Dependencies) {
	if deps.Config == nil {
		deps.Config = GetDefaultConfig()
	}

	repo := NewRepository(deps.DB)
	srvs := NewService(repo, deps.Config, deps.TokenMaker)
	handler := NewHandler(srvs)

	users := public.Group("/users")
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	authed.GET("/users/me", handler.Me)
}
