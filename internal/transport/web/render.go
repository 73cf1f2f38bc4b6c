package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
)

//go:embed templates/*.html
var templateFiles embed.FS

// shared templates are parsed into every page.
var shared = []string{"templates/layout.html", "templates/card.html", "templates/result.html"}

// Page names accepted by c.HTML.
const (
	pageHome          = "home"
	pageCatalog       = "catalog"
	pageDetail        = "detail"
	pageAgentNotFound = "agent_not_found"
	pageNotFound      = "not_found"
)

var pages = []string{pageHome, pageCatalog, pageDetail, pageAgentNotFound, pageNotFound}

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"thousands":  func(n int) string { return printer.Sprintf("%d", n) },
	"score":      func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"lower":      strings.ToLower,
	"inc":        func(i int) int { return i + 1 },
	"take":       take,
	"catalogURL": CatalogURL,
	"glyph":      func(name string) domainagent.Glyph { return domainagent.ParseIcon(name).Glyph() },
}

func take(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// CatalogURL renders a filter state as a /catalog link.
func CatalogURL(f domainagent.FilterState) string {
	v := url.Values{}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Category != nil {
		v.Set("category", *f.Category)
	}
	for _, t := range f.Tags {
		v.Add("tag", t)
	}
	if len(v) == 0 {
		return "/catalog"
	}
	return "/catalog?" + v.Encode()
}

// htmlRender implements gin's render.HTMLRender over one template set per
// page, each combined with the shared layout and partials.
type htmlRender struct {
	templates map[string]*template.Template
}

func newHTMLRender() (*htmlRender, error) {
	return loadTemplates(templateFiles)
}

func loadTemplates(fsys fs.FS) (*htmlRender, error) {
	h := &htmlRender{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		files := append([]string{"templates/" + page + ".html"}, shared...)
		t, err := template.New(page).Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		h.templates[page] = t
	}
	return h, nil
}

func (h *htmlRender) Instance(name string, data any) render.Render {
	return render.HTML{
		Template: h.templates[name],
		Name:     "layout",
		Data:     data,
	}
}
