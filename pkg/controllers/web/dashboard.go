package web

import (
	"errors"
	"fmt"
	"net/http"

	"homechef/pkg/middleware"
	"homechef/pkg/models"
	"homechef/pkg/services"
	"homechef/pkg/session"

	"github.com/gin-gonic/gin"
)

const dashboardReviewLimit = 20

// Dashboard is the chef's overview: orders, dishes, reviews and earnings.
func (h *Handler) Dashboard(c *gin.Context) {
	chef := middleware.CurrentUser(c)

	orders, err := h.Orders.ListForChef(chef, 0)
	if err != nil {
		h.serverError(c, err)
		return
	}
	items, err := h.Catalog.ListByChef(chef.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	reviews, err := h.Reviews.ListForChef(chef, dashboardReviewLimit)
	if err != nil {
		h.serverError(c, err)
		return
	}
	stats, err := h.Orders.DashboardStats(chef)
	if err != nil {
		h.serverError(c, err)
		return
	}
	earnings, err := h.Orders.Earnings(chef)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "chef_dashboard", gin.H{
		"Title":    "Chef dashboard",
		"Orders":   orders,
		"Items":    items,
		"Reviews":  reviews,
		"Stats":    stats,
		"Earnings": earnings,
		"Form":     map[string]string{},
	})
}

// DashboardAction dispatches the dashboard forms on their "action" field.
func (h *Handler) DashboardAction(c *gin.Context) {
	chef := middleware.CurrentUser(c)

	var err error
	switch c.PostForm("action") {
	case "post_food":
		err = h.postFood(c, chef)
	case "order_status":
		err = h.orderStatus(c, chef)
	case "review_reply":
		err = h.reviewReply(c, chef)
	case "delete_food":
		err = h.deleteFood(c, chef)
	default:
		session.AddFlash(c, session.LevelWarning, "Unknown dashboard action.")
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	redirect(c, "/chef-dashboard")
}

// checkbox reads an on/off field. The dashboard form marks itself with
// "flags" so that unticked boxes can be told apart from absent ones.
func checkbox(c *gin.Context, name string) *bool {
	if _, ok := c.GetPostForm("flags"); !ok {
		if _, ok := c.GetPostForm(name); !ok {
			return nil
		}
	}
	v := c.PostForm(name) != ""
	return &v
}

func (h *Handler) postFood(c *gin.Context, chef *models.User) error {
	in := services.FoodItemInput{
		Name:              c.PostForm("name"),
		Category:          c.PostForm("category"),
		Price:             c.PostForm("price"),
		Description:       c.PostForm("description"),
		ServingsAvailable: c.PostForm("servings_available"),
		Availability:      c.PostForm("availability"),
		IsVegetarian:      checkbox(c, "is_vegetarian"),
		IsSpicy:           checkbox(c, "is_spicy"),
		ImageURL:          c.PostForm("image_url"),
	}

	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open uploaded image: %w", err)
		}
		defer f.Close()
		in.Image = f
		in.ImageName = fh.Filename
		in.ImageContentType = fh.Header.Get("Content-Type")
	}

	item, err := h.Catalog.PostItem(c.Request.Context(), chef, in)
	if flashErrors(c, err) {
		return nil
	}
	if err != nil {
		return err
	}
	session.AddFlash(c, session.LevelSuccess, fmt.Sprintf("%q is now on the menu.", item.Name))
	return nil
}

func (h *Handler) orderStatus(c *gin.Context, chef *models.User) error {
	id, _ := parseID(c.PostForm("order_id"))
	order, err := h.Orders.SetStatus(chef, id, c.PostForm("status"))
	switch {
	case err == nil:
		session.AddFlash(c, session.LevelSuccess, fmt.Sprintf("Order #%d marked as %s.", order.ID, order.Status))
	case isNotFound(err):
		session.AddFlash(c, session.LevelError, "Order not found.")
	case flashErrors(c, err):
	default:
		return err
	}
	return nil
}

func (h *Handler) reviewReply(c *gin.Context, chef *models.User) error {
	id, _ := parseID(c.PostForm("review_id"))
	review, err := h.Reviews.Reply(chef, id, c.PostForm("reply"))
	switch {
	case err == nil && review.ChefReply == nil:
		session.AddFlash(c, session.LevelInfo, "Reply removed.")
	case err == nil:
		session.AddFlash(c, session.LevelSuccess, "Reply saved.")
	case isNotFound(err):
		session.AddFlash(c, session.LevelError, "Review not found.")
	default:
		return err
	}
	return nil
}

func (h *Handler) deleteFood(c *gin.Context, chef *models.User) error {
	id, _ := parseID(c.PostForm("food_id"))
	err := h.Catalog.DeleteItem(c.Request.Context(), chef, id)
	switch {
	case err == nil:
		session.AddFlash(c, session.LevelSuccess, "Dish removed from the menu.")
	case errors.Is(err, services.ErrNotFound):
		session.AddFlash(c, session.LevelError, "Dish not found.")
	default:
		return err
	}
	return nil
}
