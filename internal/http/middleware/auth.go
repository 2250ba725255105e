package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
	"github.com/yungbote/landcontract-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortErr(c, aggregates.NewError(aggregates.CodeUnauthorized, "auth", "missing or invalid token", nil))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("token rejected", "path", c.Request.URL.Path, "error", err)
			response.AbortErr(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole rejects signed-in callers whose role is not allowed.
func (am *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.AbortErr(c, aggregates.NewError(aggregates.CodeUnauthorized, "auth", "sign in required", nil))
			return
		}
		for _, r := range roles {
			if user.Role(rd.Role) == r {
				c.Next()
				return
			}
		}
		response.AbortErr(c, aggregates.NewError(aggregates.CodeForbidden, "auth", "insufficient role", nil))
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
