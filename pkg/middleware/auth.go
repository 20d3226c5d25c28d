package middleware

import (
	"errors"
	"net/http"
	"strings"

	"homechef/pkg/models"
	"homechef/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserKey is the gin context key holding the authenticated *models.User.
const UserKey = "user"

// UserLoader resolves a user id taken from a session or token.
type UserLoader interface {
	GetByID(id uint) (*models.User, error)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// AuthenticateToken validates the bearer token of a JSON API request
func AuthenticateToken(secret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = strings.TrimSpace(parts[1])
			}
		}

		if token == "" {
			utils.UnauthorizedResponse(c, "Access denied. No token provided.")
			return
		}

		claims, err := utils.VerifyToken(secret, token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utils.UnauthorizedResponse(c, "Token expired.")
			} else {
				utils.UnauthorizedResponse(c, "Invalid token.")
			}
			return
		}

		user, err := users.GetByID(claims.ID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token. User not found.")
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// AuthorizeRoles middleware - check if user has required role
func AuthorizeRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.UnauthorizedResponse(c, "Authentication required.")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Access denied. Insufficient permissions.")
	}
}
