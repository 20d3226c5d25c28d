// Package session keeps the per-browser state the web handlers need: the
// logged-in user id, the last placed order, a post-login redirect target and
// one-shot flash messages.
package session

import (
	"encoding/gob"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	keyUserID      = "user_id"
	keyLastOrderID = "last_order_id"
	keyNext        = "next"
)

// Level is the flash severity, used as a CSS class by the templates.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   Level
	Message string
}

func init() {
	gob.Register(Flash{})
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, level Level, message string) {
	s := sessions.Default(c)
	s.AddFlash(Flash{Level: level, Message: message})
	_ = s.Save()
}

// Flashes drains the queued messages.
func Flashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

// Login binds the user to the session and drops any stale redirect target.
func Login(c *gin.Context, userID uint) error {
	s := sessions.Default(c)
	s.Set(keyUserID, userID)
	s.Delete(keyNext)
	return s.Save()
}

// Logout clears everything in the session.
func Logout(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	return s.Save()
}

// UserID returns the logged-in user id, or 0.
func UserID(c *gin.Context) uint {
	id, _ := sessions.Default(c).Get(keyUserID).(uint)
	return id
}

// SetLastOrderID remembers the order just placed from this browser.
func SetLastOrderID(c *gin.Context, orderID uint) error {
	s := sessions.Default(c)
	s.Set(keyLastOrderID, orderID)
	return s.Save()
}

// LastOrderID returns the order last placed from this browser, or 0.
func LastOrderID(c *gin.Context) uint {
	id, _ := sessions.Default(c).Get(keyLastOrderID).(uint)
	return id
}

// SetNext stores where to send the user after logging in. Only local paths
// are kept.
func SetNext(c *gin.Context, next string) error {
	if !IsLocalPath(next) {
		return nil
	}
	s := sessions.Default(c)
	s.Set(keyNext, next)
	return s.Save()
}

// PopNext returns and clears the stored redirect target, or fallback.
func PopNext(c *gin.Context, fallback string) string {
	s := sessions.Default(c)
	next, _ := s.Get(keyNext).(string)
	if next == "" {
		return fallback
	}
	s.Delete(keyNext)
	_ = s.Save()
	return next
}

// IsLocalPath rejects absolute and protocol-relative URLs so a "next"
// parameter can never redirect off-site.
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
