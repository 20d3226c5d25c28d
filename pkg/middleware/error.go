package middleware

import (
	"net/http"
	"strings"

	"homechef/pkg/logger"
	"homechef/pkg/utils"

	"github.com/gin-gonic/gin"
)

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// RecoveryMiddleware handles panics and prevents server crashes
func RecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := c.Get(logger.RequestIDKey)
				log.Error("Panic recovered", "error", err, "path", c.Request.URL.Path, "request_id", requestID)

				if isAPIRequest(c) {
					utils.InternalServerErrorResponse(c, "Internal server error")
					return
				}
				c.HTML(http.StatusInternalServerError, "500", gin.H{"Title": "Something went wrong"})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAPIRequest(c) {
			utils.NotFoundResponse(c, "Route not found")
			return
		}
		c.HTML(http.StatusNotFound, "404", gin.H{"Title": "Page not found", "User": CurrentUser(c)})
	}
}
