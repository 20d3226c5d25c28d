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

var registerFields = []string{"name", "email", "phone", "address", "role", "speciality", "accept_terms"}

// homeFor is where a user lands after logging in without a stored target.
func homeFor(u *models.User) string {
	switch u.Role {
	case models.RoleChef:
		return "/chef-dashboard"
	case models.RoleCustomer:
		return "/"
	}
	panic(fmt.Sprintf("web: unhandled role %q", string(u.Role)))
}

func (h *Handler) LoginPage(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		redirect(c, homeFor(user))
		return
	}
	next := c.Query("next")
	if session.IsLocalPath(next) {
		_ = session.SetNext(c, next)
	} else {
		next = ""
	}
	h.render(c, http.StatusOK, "login", gin.H{"Title": "Log in", "Next": next, "Form": map[string]string{}})
}

func (h *Handler) Login(c *gin.Context) {
	user, err := h.Users.Authenticate(c.PostForm("email"), c.PostForm("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.render(c, http.StatusOK, "login", gin.H{
			"Title":  "Log in",
			"Errors": []string{"Invalid email or password."},
			"Next":   c.PostForm("next"),
			"Form":   form(c, "email"),
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	// Read the target before Login clears it.
	target := session.PopNext(c, "")
	if target == "" && session.IsLocalPath(c.PostForm("next")) {
		target = c.PostForm("next")
	}
	if target == "" {
		target = homeFor(user)
	}

	if err := session.Login(c, user.ID); err != nil {
		h.serverError(c, err)
		return
	}
	session.AddFlash(c, session.LevelSuccess, fmt.Sprintf("Welcome back, %s! You are now logged in.", user.Name))
	redirect(c, target)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		redirect(c, homeFor(user))
		return
	}
	h.render(c, http.StatusOK, "register", gin.H{"Title": "Sign up", "Form": map[string]string{"role": "customer"}})
}

func (h *Handler) Register(c *gin.Context) {
	_, err := h.Users.Register(services.RegisterInput{
		Name:            c.PostForm("name"),
		Email:           c.PostForm("email"),
		Phone:           c.PostForm("phone"),
		Address:         c.PostForm("address"),
		Role:            c.PostForm("role"),
		Speciality:      c.PostForm("speciality"),
		Password:        c.PostForm("password1"),
		ConfirmPassword: c.PostForm("password2"),
		AcceptTerms:     c.PostForm("accept_terms") != "",
	})
	if msgs := services.ValidationMessages(err); msgs != nil {
		h.render(c, http.StatusOK, "register", gin.H{
			"Title":  "Sign up",
			"Errors": msgs,
			"Form":   form(c, registerFields...),
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	session.AddFlash(c, session.LevelSuccess, "Account created successfully! You can now log in.")
	redirect(c, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := session.Logout(c); err != nil {
		h.serverError(c, err)
		return
	}
	session.AddFlash(c, session.LevelInfo, "You have been logged out.")
	redirect(c, "/")
}
