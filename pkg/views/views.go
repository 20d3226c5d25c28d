// Package views holds the server-rendered HTML pages. Each page template is
// parsed together with the shared layout and served through gin's HTMLRender.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"homechef/pkg/config"
	"homechef/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer maps page names ("index", "order", ...) to parsed templates.
type Renderer struct {
	pages map[string]*template.Template
	site  config.SiteInfo
}

var _ render.HTMLRender = (*Renderer)(nil)

// New parses every page under templates/ against the layout.
func New(site config.SiteInfo) (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(FuncMap()).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template), site: site}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return r, nil
}

// Static serves the stylesheet and other bundled assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Instance implements render.HTMLRender. gin.H data gets the site branding
// added under "Site".
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages["500"]
	}
	if h, ok := data.(gin.H); ok {
		if _, set := h["Site"]; !set {
			h["Site"] = r.site
		}
	}
	return render.HTML{Template: tmpl, Name: "base", Data: data}
}

// FuncMap is available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "₹" + d.StringFixed(2)
		},
		"rating": func(avg float64) string {
			return decimal.NewFromFloat(avg).StringFixed(1)
		},
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006, 3:04 PM")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"categories":     func() []models.Category { return models.Categories },
		"availabilities": func() []models.Availability { return models.Availabilities },
		"statuses":       func() []models.OrderStatus { return models.OrderStatuses },
		"legacyDishes":   func() []models.LegacyDish { return models.LegacyDishes },
		"isChef":         func(u *models.User) bool { return u.IsChef() },
		"isCustomer":     func(u *models.User) bool { return u.IsCustomer() },
		"has": func(msgs []string) bool {
			return len(msgs) > 0
		},
	}
}
