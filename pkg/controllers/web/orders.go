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

var orderFields = []string{"dish", "name", "phone", "address", "quantity", "total", "delivery_time", "notes"}

const selfOrderMessage = "You cannot order your own food item."

// rejectOrderItem handles the errors OrderableItem and CheckSelfOrder return
// for an item chosen on the order page. It reports whether it redirected.
func (h *Handler) rejectOrderItem(c *gin.Context, item *models.FoodItem, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrSelfOrder):
		session.AddFlash(c, session.LevelWarning, selfOrderMessage)
		redirect(c, "/chef-dashboard")
	case isNotFound(err):
		session.AddFlash(c, session.LevelError, "That dish could not be found.")
		redirect(c, "/")
	case services.ValidationMessages(err) != nil:
		flashErrors(c, err)
		if item != nil {
			redirect(c, fmt.Sprintf("/food/%d", item.ID))
		} else {
			redirect(c, "/")
		}
	default:
		h.serverError(c, err)
	}
	return true
}

// OrderPage shows the order form, for a listed dish when ?item= is given and
// for a house special otherwise.
func (h *Handler) OrderPage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var item *models.FoodItem
	if raw := c.Query("item"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			h.rejectOrderItem(c, nil, services.ErrNotFound)
			return
		}
		found, err := h.Orders.OrderableItem(id)
		if err == nil {
			err = services.CheckSelfOrder(user, found)
		}
		if h.rejectOrderItem(c, found, err) {
			return
		}
		item = found
	}

	prefill := map[string]string{
		"dish":     string(models.ParseLegacyDish(c.Query("dish"))),
		"name":     user.Name,
		"phone":    user.Phone,
		"address":  user.Address,
		"quantity": "1",
	}
	h.render(c, http.StatusOK, "order", gin.H{"Title": "Order", "Item": item, "Form": prefill})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	in := services.OrderInput{
		ItemID:       optionalID(c.PostForm("item")),
		Dish:         c.PostForm("dish"),
		Name:         c.PostForm("name"),
		Phone:        c.PostForm("phone"),
		Address:      c.PostForm("address"),
		Quantity:     c.PostForm("quantity"),
		Total:        c.PostForm("total"),
		DeliveryTime: c.PostForm("delivery_time"),
		Notes:        c.PostForm("notes"),
	}

	order, err := h.Orders.PlaceOrder(user, in)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) && in.ItemID != nil {
			// Field errors re-render the form; a sold-out item goes back to
			// its page.
			item, itemErr := h.Orders.OrderableItem(*in.ItemID)
			if itemErr == nil {
				h.renderOrderErrors(c, item, verr.Messages)
				return
			}
			h.rejectOrderItem(c, item, itemErr)
			return
		}
		if verr != nil {
			h.renderOrderErrors(c, nil, verr.Messages)
			return
		}
		h.rejectOrderItem(c, nil, err)
		return
	}

	if err := session.SetLastOrderID(c, order.ID); err != nil {
		h.serverError(c, err)
		return
	}
	session.AddFlash(c, session.LevelSuccess, "Your order has been placed!")
	redirect(c, fmt.Sprintf("/order/confirmation/%d", order.ID))
}

func (h *Handler) renderOrderErrors(c *gin.Context, item *models.FoodItem, msgs []string) {
	h.render(c, http.StatusOK, "order", gin.H{
		"Title":  "Order",
		"Item":   item,
		"Errors": msgs,
		"Form":   form(c, orderFields...),
	})
}

func (h *Handler) Confirmation(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.notFound(c)
		return
	}
	order, err := h.Orders.GetConfirmation(middleware.CurrentUser(c), session.LastOrderID(c), id)
	if isNotFound(err) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "confirmation", gin.H{"Title": "Order confirmed", "Order": order})
}

func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.Orders.ListForCustomer(middleware.CurrentUser(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "my_orders", gin.H{"Title": "My orders", "Orders": orders})
}
