package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"homechef/pkg/logger"
	"homechef/pkg/models"
	"homechef/pkg/services"
	"homechef/pkg/session"

	"github.com/gin-gonic/gin"
)

// LoadUser resolves the session's user id. A stale id (deleted account) is
// dropped from the session. Any other lookup failure leaves the session alone
// and serves the request anonymously.
func LoadUser(users UserLoader, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := session.UserID(c); id != 0 {
			user, err := users.GetByID(id)
			switch {
			case err == nil:
				c.Set(UserKey, user)
			case errors.Is(err, services.ErrNotFound):
				_ = session.Logout(c)
			default:
				log.Warn("Failed to load session user", "user_id", id, "error", err)
			}
		}
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page and remembers where
// they were going.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		next := c.Request.URL.RequestURI()
		_ = session.SetNext(c, next)
		session.AddFlash(c, session.LevelInfo, "Please log in to continue.")
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(next))
		c.Abort()
	}
}

// RequireRole lets through only users of the given role. Others are sent home
// with a warning.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			RequireLogin()(c)
			return
		}
		if user.Role == role {
			c.Next()
			return
		}

		var msg string
		switch role {
		case models.RoleChef:
			msg = "Only chefs can open the chef dashboard."
		case models.RoleCustomer:
			msg = "That page is only available to customers."
		default:
			panic(fmt.Sprintf("middleware: unhandled role %q", string(role)))
		}
		session.AddFlash(c, session.LevelWarning, msg)
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}
