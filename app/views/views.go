// Package views renders cafefront's HTML pages from embedded templates.
//
// Every page is parsed together with layout.html. Page data structs embed
// Layout so the shared chrome (flashes, nav, CSRF field) reads the same
// fields on every page.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/config"
)

//go:embed templates/*.html
var files embed.FS

// Flash is one message carried over from the previous request.
type Flash struct {
	Kind    string // "success" | "error"
	Message string
}

// Layout is the data every page shares.
type Layout struct {
	Title    string
	Flashes  []Flash
	CSRF     template.HTML
	SignedIn bool
	IsAdmin  bool
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

var markdown = goldmark.New()

func funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(amount decimal.Decimal) string {
			return models.FormatMoney(config.Currency(), amount)
		},
		"markdown": func(src string) template.HTML {
			var buf bytes.Buffer
			// goldmark drops raw HTML unless built with html.WithUnsafe.
			if err := markdown.Convert([]byte(src), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(src))
			}
			return template.HTML(buf.String())
		},
		"localtime": func(ts models.Timestamp) string {
			if ts.IsZero() {
				return ""
			}
			return ts.Local().Format("2006-01-02 15:04:05")
		},
	}
}

// New parses every page under templates/ with the layout.
func New() (*Renderer, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		page := strings.TrimSuffix(path.Base(name), ".html")
		if page == "layout" {
			continue
		}
		t, err := template.New(page).Funcs(funcs()).ParseFS(files, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// MustNew is New for package-level wiring.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page into a byte slice so a failing template never sends a
// partial page.
func (r *Renderer) Render(page string, data any) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("views: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("views: render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// Pages lists the parsed page names.
func (r *Renderer) Pages() []string {
	out := make([]string, 0, len(r.pages))
	for name := range r.pages {
		out = append(out, name)
	}
	return out
}

// ─── Page data ────────────────────────────────────────────────────────────────

// HistoryLine is one line of a past order, labelled for display.
type HistoryLine struct {
	Quantity  int
	Label     string
	UnitPrice decimal.Decimal
}

// HistoryOrder is a past order as shown on the menu page.
type HistoryOrder struct {
	ID        int
	CreatedAt models.Timestamp
	Status    string
	Lines     []HistoryLine
	Total     decimal.Decimal
}

// Category is one heading of the customer menu.
type Category struct {
	Name  string
	Items []models.MenuItem
}

type MenuPage struct {
	Layout
	Categories []Category
	MenuError  string
	CartLines  []models.CartLine
	CartTotal  decimal.Decimal
	// History is rendered only when HistoryMessage is empty.
	History        []HistoryOrder
	HistoryMessage string
}

type LoginPage struct {
	Layout
	Username string
	Message  string
}

// AdminForm echoes submitted create-form values back after a failed
// validation.
type AdminForm struct {
	Name        string
	Description string
	Price       string
	Category    string
	IsAvailable bool
}

type AdminPage struct {
	Layout
	Subject   string
	Items     []models.MenuItem
	LoadError string
	Form      AdminForm
	Errors    map[string]string
}
