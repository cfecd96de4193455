package user

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/praxis-markets/praxis/app/api"
	"github.com/praxis-markets/praxis/internal/security"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
)

// AuthMiddleware verifies the bearer token and puts the authenticated user id
// into the request context under "user_id".
func AuthMiddleware(tokenMaker security.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != AuthorizationTypeBearer {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil || payload.Scope != security.TokenScopeAccess {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set("user_id", payload.UserID)
		c.Next()
	}
}
