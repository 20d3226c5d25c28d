package web

import (
	"errors"
	"fmt"
	"net/http"

	"homechef/pkg/middleware"
	"homechef/pkg/services"
	"homechef/pkg/session"

	"github.com/gin-gonic/gin"
)

// FoodDetail shows an item and its reviews. Sold-out items are still shown.
func (h *Handler) FoodDetail(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.notFound(c)
		return
	}
	detail, err := h.Catalog.GetDetail(id)
	if isNotFound(err) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "food_detail", gin.H{
		"Title":   detail.Item.Name,
		"Detail":  detail,
		"OrderID": optionalID(c.Query("order")),
	})
}

func (h *Handler) SubmitReview(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.notFound(c)
		return
	}
	back := fmt.Sprintf("/food/%d", id)

	_, created, err := h.Reviews.Submit(
		middleware.CurrentUser(c), id,
		c.PostForm("rating"), c.PostForm("text"),
		optionalID(c.PostForm("order")),
	)
	switch {
	case err == nil && created:
		session.AddFlash(c, session.LevelSuccess, "Thanks for your review!")
	case err == nil:
		session.AddFlash(c, session.LevelInfo, "You have already reviewed this dish.")
	case errors.Is(err, services.ErrForbidden):
		session.AddFlash(c, session.LevelWarning, "Only customers can review dishes.")
	case isNotFound(err):
		h.notFound(c)
		return
	case flashErrors(c, err):
	default:
		h.serverError(c, err)
		return
	}
	redirect(c, back)
}
