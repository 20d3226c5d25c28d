package routes

import (
	"net/http"
	"strings"
	"time"

	"homechef/pkg/config"
	"homechef/pkg/controllers/api"
	"homechef/pkg/controllers/web"
	"homechef/pkg/logger"
	"homechef/pkg/middleware"
	"homechef/pkg/services"
	"homechef/pkg/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionMaxAge = 14 * 24 * 60 * 60

// Options is everything NewRouter needs.
type Options struct {
	DB     *gorm.DB
	Images services.ImageStore
	// MediaDir is served at /media when images are stored on local disk.
	MediaDir string

	SessionSecret  string
	CookieSecure   bool
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	Production     bool

	Site config.SiteInfo
	Log  *logger.Logger
}

// NewRouter wires services, middleware and every route onto a gin engine.
func NewRouter(opts Options) (*gin.Engine, error) {
	renderer, err := views.New(opts.Site)
	if err != nil {
		return nil, err
	}

	users := services.NewUserService(opts.DB, services.DefaultPasswordPolicy(), opts.Log)
	catalog := services.NewCatalogService(opts.DB, opts.Images, opts.Log)
	reviews := services.NewReviewService(opts.DB, opts.Log)
	orders := services.NewOrderService(opts.DB, opts.Log)
	contact := services.NewContactService(opts.DB, opts.Log)

	router := gin.New()
	router.HTMLRender = renderer
	router.MaxMultipartMemory = 10 << 20 // 10 MB
	router.Use(opts.Log.GinMiddleware())
	router.Use(middleware.RecoveryMiddleware(opts.Log))

	router.StaticFS("/static", views.Static())
	if opts.MediaDir != "" {
		router.Static("/media", opts.MediaDir)
	}

	// JSON API: bearer tokens, no cookies
	apiGroup := router.Group("/api/v1")
	apiGroup.Use(newCORS(opts))
	RegisterAPIRoutes(apiGroup, &api.Handler{
		Users:     users,
		Catalog:   catalog,
		Orders:    orders,
		JWTSecret: opts.JWTSecret,
		TokenTTL:  opts.TokenTTL,
		Log:       opts.Log.WithComponent("api"),
	}, users)

	// HTML pages: cookie session
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	webGroup := router.Group("/")
	sessionLog := opts.Log.WithComponent("session")
	webGroup.Use(sessions.Sessions("homechef_session", store), middleware.LoadUser(users, sessionLog))
	RegisterWebRoutes(webGroup, &web.Handler{
		Users:   users,
		Catalog: catalog,
		Reviews: reviews,
		Orders:  orders,
		Contact: contact,
		Log:     opts.Log.WithComponent("web"),
	})

	router.NoRoute(sessions.Sessions("homechef_session", store), middleware.LoadUser(users, sessionLog), middleware.NotFoundHandler())
	return router, nil
}

// newCORS allows the configured origins in production and any origin
// otherwise.
func newCORS(opts Options) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if opts.Production && len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	return cors.New(corsConfig)
}

// ParseOrigins splits a comma-separated origin list
func ParseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
