package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/interfaces/http/response"
	"p2p-lending.backend/pkg/jwt"
	"p2p-lending.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// IsAdminKey is the context key for the admin flag of the token
	IsAdminKey = "isAdmin"
)

// AccessTokenValidator verifies access tokens
type AccessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware requires a valid bearer access token. Expired tokens get TOKEN_EXPIRED so clients know to refresh.
func AuthMiddleware(tokens AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Abort(c, domainerrors.Unauthorized(domainerrors.KeyUnauthorized, "missing bearer token"))
			return
		}

		claims, err := tokens.ValidateAccessToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Debug(c.Request.Context(), "Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Abort(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.KeyTokenExpired, "token expired", domainerrors.ErrTokenExpired))
				return
			}
			response.Abort(c, domainerrors.Unauthorized(domainerrors.KeyUnauthorized, "invalid token"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(IsAdminKey, claims.IsAdmin)

		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

// RequireRole admits only callers holding one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			response.Abort(c, domainerrors.Unauthorized(domainerrors.KeyUnauthorized, "user role not found"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.Abort(c, domainerrors.Forbidden(domainerrors.KeyForbidden, "insufficient permissions"))
	}
}

// RequireAdmin admits admin and super_admin callers
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(entities.UserRoleAdmin), string(entities.UserRoleSuperAdmin))
}
