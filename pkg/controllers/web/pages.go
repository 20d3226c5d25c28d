package web

import (
	"net/http"

	"homechef/pkg/services"
	"homechef/pkg/session"

	"github.com/gin-gonic/gin"
)

var contactFields = []string{"name", "email", "subject", "message"}

// Index lists the dishes currently in stock.
func (h *Handler) Index(c *gin.Context) {
	items, err := h.Catalog.ListAvailable()
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index", gin.H{"Items": items})
}

// Chefs is the directory of chefs with something to sell.
func (h *Handler) Chefs(c *gin.Context) {
	chefs, err := h.Users.ListChefs()
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "chefs", gin.H{"Title": "Our chefs", "Chefs": chefs})
}

func (h *Handler) ContactPage(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", gin.H{"Title": "Contact", "Form": map[string]string{}})
}

func (h *Handler) SubmitContact(c *gin.Context) {
	_, err := h.Contact.Submit(services.ContactInput{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
	})
	if msgs := services.ValidationMessages(err); msgs != nil {
		h.render(c, http.StatusOK, "contact", gin.H{
			"Title":  "Contact",
			"Errors": msgs,
			"Form":   form(c, contactFields...),
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	session.AddFlash(c, session.LevelSuccess, "Thank you! Your message has been sent. We will get back to you soon.")
	redirect(c, "/contact")
}

// Healthz pings the database.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Users.Ping(c.Request.Context()); err != nil {
		h.Log.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
