package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	"github.com/alanyang/agent-marketplace/internal/domain/result"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
	runsvc "github.com/alanyang/agent-marketplace/internal/service/run"
	transportagent "github.com/alanyang/agent-marketplace/internal/transport/agent"
)

const featuredCount = 4

type categoryLink struct {
	Name string
	Icon domainagent.Icon
}

// homeCategories is the fixed category grid on the home page.
var homeCategories = []categoryLink{
	{Name: "Shopping", Icon: domainagent.IconShoppingBag},
	{Name: "Writing", Icon: domainagent.IconFileText},
	{Name: "Travel", Icon: domainagent.IconMap},
	{Name: "Development", Icon: domainagent.IconCode},
	{Name: "Health", Icon: domainagent.IconHeartPulse},
	{Name: "Finance", Icon: domainagent.IconBarChart},
	{Name: "Food", Icon: domainagent.IconUtensils},
	{Name: "Education", Icon: domainagent.IconBookOpen},
}

// Register installs the HTML renderer, the page routes and the 404 page on r.
func Register(r *gin.Engine, catalog *catalogsvc.Service, runs *runsvc.Service) error {
	h, err := newHTMLRender()
	if err != nil {
		return err
	}
	r.HTMLRender = h

	r.GET("/", home(catalog))
	r.GET("/catalog", catalogPage(catalog))
	r.GET("/agent/:id", detail(catalog))
	r.POST("/agent/:id/run", runAgent(catalog, runs))
	r.NoRoute(notFound)
	return nil
}

// ── Home ──────────────────────────────────────────────────────────────────────

type homeData struct {
	Title      string
	Featured   []domainagent.Agent
	Categories []categoryLink
}

func home(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, pageHome, homeData{
			Title:      "AI Agent Marketplace",
			Featured:   catalog.Featured(featuredCount),
			Categories: homeCategories,
		})
	}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

type chip struct {
	Label    string
	URL      string
	Selected bool
}

type catalogData struct {
	Title      string
	Filter     domainagent.FilterState
	Categories []chip
	Tags       []chip
	Active     []chip // each links to the state without that filter
	ClearURL   string
	Agents     []domainagent.Agent
}

func catalogPage(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := transportagent.FilterFromQuery(c)
		facets := catalog.Facets()

		data := catalogData{
			Title:    "Agent Catalog",
			Filter:   f,
			Agents:   catalog.List(f),
			ClearURL: CatalogURL(f.Clear()),
		}
		for _, cat := range facets.Categories {
			data.Categories = append(data.Categories, chip{
				Label:    cat,
				URL:      CatalogURL(f.ToggleCategory(cat)),
				Selected: f.Category != nil && *f.Category == cat,
			})
		}
		for _, tag := range facets.Tags {
			data.Tags = append(data.Tags, chip{
				Label:    "#" + tag,
				URL:      CatalogURL(f.ToggleTag(tag)),
				Selected: f.HasTag(tag),
			})
		}
		data.Active = activeChips(f)

		c.HTML(http.StatusOK, pageCatalog, data)
	}
}

func activeChips(f domainagent.FilterState) []chip {
	if !f.Active() {
		return nil
	}
	var out []chip
	if f.Category != nil {
		out = append(out, chip{Label: *f.Category, URL: CatalogURL(f.WithoutCategory())})
	}
	for _, tag := range f.Tags {
		out = append(out, chip{Label: "#" + tag, URL: CatalogURL(f.ToggleTag(tag))})
	}
	if f.Query != "" {
		out = append(out, chip{Label: `"` + f.Query + `"`, URL: CatalogURL(f.WithoutQuery())})
	}
	return out
}

// ── Detail & run ──────────────────────────────────────────────────────────────

type detailData struct {
	Title  string
	Agent  domainagent.Agent
	Prompt string
	Result *resultView
}

// resultView holds exactly one populated variant.
type resultView struct {
	Error     string
	Shopping  *result.Shopping
	Summary   *result.Summary
	Itinerary *result.Itinerary
	Generic   bool
}

func newResultView(a *domainagent.Agent, payload json.RawMessage) *resultView {
	res, err := result.Decode(a.Kind(), payload)
	if err != nil {
		slog.Warn("mock response does not match result kind", "agent_id", a.ID, "error", err)
	}
	switch v := res.(type) {
	case result.Failure:
		return &resultView{Error: v.Error}
	case result.Shopping:
		return &resultView{Shopping: &v}
	case result.Summary:
		return &resultView{Summary: &v}
	case result.Travel:
		return &resultView{Itinerary: &v.Itinerary}
	default:
		return &resultView{Generic: true}
	}
}

func detail(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := catalog.Get(c.Param("id"))
		if err != nil {
			agentNotFound(c)
			return
		}
		c.HTML(http.StatusOK, pageDetail, detailData{Title: a.Name, Agent: a})
	}
}

func runAgent(catalog *catalogsvc.Service, runs *runsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := catalog.Get(c.Param("id"))
		if err != nil {
			agentNotFound(c)
			return
		}

		data := detailData{Title: a.Name, Agent: a, Prompt: c.PostForm("prompt")}

		ctx := runsvc.WithCaller(c.Request.Context(), transportagent.CallerKey(c))
		r, err := runs.Run(ctx, a.ID, data.Prompt)
		switch {
		case errors.Is(err, runsvc.ErrEmptyPrompt):
			c.HTML(http.StatusOK, pageDetail, data)
			return
		case errors.Is(err, runsvc.ErrRunInFlight):
			data.Result = &resultView{Error: "This agent is already working on your previous request"}
			c.HTML(http.StatusConflict, pageDetail, data)
			return
		case err != nil:
			slog.ErrorContext(c.Request.Context(), "run failed", "agent_id", a.ID, "error", err)
			data.Result = &resultView{Error: result.MsgLoadFailed}
			c.HTML(http.StatusOK, pageDetail, data)
			return
		}

		data.Result = newResultView(&a, r.Payload)
		c.HTML(http.StatusOK, pageDetail, data)
	}
}

// ── Not found ─────────────────────────────────────────────────────────────────

type titleData struct {
	Title string
}

func agentNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, pageAgentNotFound, titleData{Title: "Agent not found"})
}

func notFound(c *gin.Context) {
	slog.Debug("404: unknown route", "path", c.Request.URL.Path)
	c.HTML(http.StatusNotFound, pageNotFound, titleData{Title: "Page not found"})
}
