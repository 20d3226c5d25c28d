// Package web serves the HTML pages. Every mutating action ends in a redirect
// and reports its outcome through a flash message.
package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"homechef/pkg/logger"
	"homechef/pkg/middleware"
	"homechef/pkg/services"
	"homechef/pkg/session"

	"github.com/gin-gonic/gin"
)

// Handler carries the services the pages need.
type Handler struct {
	Users   *services.UserService
	Catalog *services.CatalogService
	Reviews *services.ReviewService
	Orders  *services.OrderService
	Contact *services.ContactService
	Log     *logger.Logger
}

// render adds the current user and pending flashes to data and renders page.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["Flashes"] = session.Flashes(c)
	c.HTML(status, page, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404", gin.H{"Title": "Page not found"})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	requestID, _ := c.Get(logger.RequestIDKey)
	h.Log.Error("Request failed", "error", err, "path", c.Request.URL.Path, "request_id", requestID)
	_ = c.Error(err)
	h.render(c, http.StatusInternalServerError, "500", gin.H{"Title": "Something went wrong"})
}

// redirect sends a 303 so a POST is followed by a GET.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// flashErrors queues one error flash per validation message and reports
// whether err was a validation error.
func flashErrors(c *gin.Context, err error) bool {
	msgs := services.ValidationMessages(err)
	for _, msg := range msgs {
		session.AddFlash(c, session.LevelError, msg)
	}
	return msgs != nil
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func optionalID(s string) *uint {
	if id, ok := parseID(s); ok {
		return &id
	}
	return nil
}

// form echoes submitted values back into a re-rendered page.
func form(c *gin.Context, keys ...string) map[string]string {
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		values[k] = c.PostForm(k)
	}
	return values
}

func isNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
