package routes

import (
	"homechef/pkg/controllers/api"
	"homechef/pkg/middleware"
	"homechef/pkg/models"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers the JSON API on an /api/v1 group.
func RegisterAPIRoutes(group *gin.RouterGroup, h *api.Handler, users middleware.UserLoader) {
	group.POST("/auth/token", h.IssueToken)
	group.GET("/foods", h.ListFoods)
	group.GET("/foods/:id", h.GetFood)

	authed := group.Group("")
	authed.Use(middleware.AuthenticateToken(h.JWTSecret, users))
	{
		authed.GET("/orders", h.ListOrders)
		authed.PUT("/orders/:id/status", middleware.AuthorizeRoles(models.RoleChef), h.UpdateOrderStatus)
		authed.GET("/earnings", middleware.AuthorizeRoles(models.RoleChef), h.Earnings)
	}
}
