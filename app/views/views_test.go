package views

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/config"
)

func TestEveryPageParses(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"menu", "login", "admin"}, r.Pages())
}

func TestRenderUnknownPage(t *testing.T) {
	_, err := MustNew().Render("missing", nil)
	assert.Error(t, err)
}

func TestMenuPageEscapesNamesAndRendersMarkdown(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Reset()

	out, err := MustNew().Render("menu", MenuPage{
		Layout: Layout{Flashes: []Flash{{Kind: "success", Message: "Menu item added"}}},
		Categories: []Category{{Name: "Drinks", Items: []models.MenuItem{{
			ID:          1,
			Name:        "<b>Tea</b>",
			Description: "**strong** <script>alert(1)</script>",
			Price:       decimal.NewFromInt(20),
		}}}},
		CartTotal:      decimal.Zero,
		HistoryMessage: "Guest users cannot see order history.",
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "&lt;b&gt;Tea&lt;/b&gt; - KES 20.00")
	assert.Contains(t, html, "<strong>strong</strong>")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, `class="flash success"`)
	assert.Contains(t, html, "Total: KES 0.00")
}

func TestLoginPageShowsInlineMessage(t *testing.T) {
	out, err := MustNew().Render("login", LoginPage{Username: "manager", Message: "Invalid credentials"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `<p id="loginMessage">Invalid credentials</p>`)
	assert.Contains(t, string(out), `value="manager"`)
}
