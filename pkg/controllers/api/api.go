// Package api is the bearer-token JSON API under /api/v1.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"homechef/pkg/logger"
	"homechef/pkg/middleware"
	"homechef/pkg/models"
	"homechef/pkg/services"
	"homechef/pkg/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Users     *services.UserService
	Catalog   *services.CatalogService
	Orders    *services.OrderService
	JWTSecret string
	TokenTTL  time.Duration
	Log       *logger.Logger
}

type tokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// respondError maps service errors onto the response envelope.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ValidationErrorResponse(c, verr.Messages)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Not found")
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrSelfOrder):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		h.Log.Error("API request failed", "error", err, "path", c.Request.URL.Path)
		utils.InternalServerErrorResponse(c, "Internal server error")
	}
}

func paramID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || n == 0 {
		utils.NotFoundResponse(c, "Not found")
		return 0, false
	}
	return uint(n), true
}

// IssueToken exchanges credentials for a bearer token.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email and password are required")
		return
	}

	user, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(h.JWTSecret, h.TokenTTL, user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.StandardResponse{
		Success: true,
		Message: "Login successful",
		Data: gin.H{
			"token":     token,
			"expiresIn": int64(h.TokenTTL.Seconds()),
			"user":      user,
		},
	})
}

func (h *Handler) ListFoods(c *gin.Context) {
	items, err := h.Catalog.ListAvailable()
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, items, "")
}

func (h *Handler) GetFood(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	detail, err := h.Catalog.GetDetail(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, detail, "")
}

// ListOrders returns the caller's own orders: placed ones for customers and
// received ones for chefs.
func (h *Handler) ListOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var err error
	var data interface{}
	switch user.Role {
	case models.RoleChef:
		data, err = h.Orders.ListForChef(user, 0)
	case models.RoleCustomer:
		data, err = h.Orders.ListForCustomer(user)
	default:
		utils.ForbiddenResponse(c, "Access denied. Insufficient permissions.")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, data, "")
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "status is required")
		return
	}

	order, err := h.Orders.SetStatus(middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, order, "Order status updated")
}

func (h *Handler) Earnings(c *gin.Context) {
	earnings, err := h.Orders.Earnings(middleware.CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"allTime":   earnings.AllTime.StringFixed(2),
		"thisMonth": earnings.ThisMonth.StringFixed(2),
	}, "")
}
