package views

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"homechef/pkg/config"
	"homechef/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New(config.SiteInfo{Name: "HomeChef"})
	require.NoError(t, err)

	for _, page := range []string{
		"index", "order", "confirmation", "my_orders", "login", "register",
		"contact", "chefs", "food_detail", "chef_dashboard", "404", "500",
	} {
		assert.True(t, r.Has(page), page)
	}
	assert.False(t, r.Has("layout"))
}

func TestInstanceInjectsSite(t *testing.T) {
	r, err := New(config.SiteInfo{Name: "HomeChef", Tagline: "Food made at home"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance("404", gin.H{"Title": "Page not found"}).Render(w))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Page not found · HomeChef</title>")
	assert.Contains(t, body, "Food made at home")
}

func TestFuncMap(t *testing.T) {
	funcs := FuncMap()

	assert.Equal(t, "₹250.00", funcs["money"].(func(decimal.Decimal) string)(decimal.NewFromInt(250)))
	assert.Equal(t, "4.3", funcs["rating"].(func(float64) string)(4.333))
	assert.Equal(t, "Dinner", funcs["title"].(func(string) string)("dinner"))
	assert.Equal(t, "", funcs["deref"].(func(*string) string)(nil))
	assert.False(t, funcs["isChef"].(func(*models.User) bool)(nil))
}

func TestStaticServesStylesheet(t *testing.T) {
	f, err := Static().Open("site.css")
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(f)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
