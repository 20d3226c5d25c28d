package routes

import (
	"homechef/pkg/controllers/web"
	"homechef/pkg/middleware"
	"homechef/pkg/models"

	"github.com/gin-gonic/gin"
)

// RegisterWebRoutes registers the HTML pages. The router must already carry
// the session and LoadUser middleware.
func RegisterWebRoutes(router gin.IRouter, h *web.Handler) {
	router.GET("/", h.Index)
	router.GET("/chefs", h.Chefs)
	router.GET("/healthz", h.Healthz)

	// Account
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/register", h.RegisterPage)
	router.POST("/register", h.Register)
	router.POST("/logout", h.Logout)

	router.GET("/contact", h.ContactPage)
	router.POST("/contact", h.SubmitContact)

	// Catalog & reviews
	router.GET("/food/:id", h.FoodDetail)
	router.POST("/food/:id", middleware.RequireLogin(), h.SubmitReview)

	// Orders
	orderGroup := router.Group("/order", middleware.RequireLogin())
	{
		orderGroup.GET("", h.OrderPage)
		orderGroup.POST("", h.PlaceOrder)
	}
	router.GET("/order/confirmation/:id", h.Confirmation)
	router.GET("/my-orders", middleware.RequireRole(models.RoleCustomer), h.MyOrders)

	// Chef dashboard
	dashboard := router.Group("/chef-dashboard", middleware.RequireRole(models.RoleChef))
	{
		dashboard.GET("", h.Dashboard)
		dashboard.POST("", h.DashboardAction)
	}
}
