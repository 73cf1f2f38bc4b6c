package agent

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
	runsvc "github.com/alanyang/agent-marketplace/internal/service/run"
)

const defaultFeatured = 4

func Register(rg *gin.RouterGroup, catalog *catalogsvc.Service, runs *runsvc.Service) {
	rg.GET("", listAgents(catalog))
	rg.GET("/facets", facets(catalog))
	rg.GET("/featured", featured(catalog))
	rg.GET("/:id", getAgent(catalog))
	rg.POST("/:id/run", runAgent(runs))
}

// FilterFromQuery reads q, category and repeated tag parameters.
// A lower-case category is normalised the way the home page links expect.
func FilterFromQuery(c *gin.Context) domainagent.FilterState {
	f := domainagent.FilterState{
		Query:    c.Query("q"),
		Category: domainagent.NormalizeCategoryParam(c.Query("category")),
	}
	for _, t := range c.QueryArray("tag") {
		if t != "" && !f.HasTag(t) {
			f.Tags = append(f.Tags, t)
		}
	}
	return f
}

// CallerKey identifies an HTTP caller for the run re-entry guard.
func CallerKey(c *gin.Context) string {
	return "http:" + c.ClientIP()
}

func listAgents(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents := catalog.List(FilterFromQuery(c))
		if agents == nil {
			agents = []domainagent.Agent{}
		}
		c.JSON(http.StatusOK, agents)
	}
}

func facets(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.Facets())
	}
}

func featured(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := defaultFeatured
		if v := c.Query("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			n = limit
		}
		c.JSON(http.StatusOK, catalog.Featured(n))
	}
}

func getAgent(catalog *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := catalog.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

type runReq struct {
	Prompt string `json:"prompt"`
	Async  bool   `json:"async"`
}

// runAgent accepts any agent id; an unknown id still runs and yields the
// standard error payload.
func runAgent(runs *runsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := runsvc.WithCaller(c.Request.Context(), CallerKey(c))
		start := runs.Run
		status := http.StatusOK
		if req.Async {
			start = runs.Start
			status = http.StatusAccepted
		}

		r, err := start(ctx, c.Param("id"), req.Prompt)
		if err != nil {
			c.JSON(StatusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(status, r)
	}
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, runsvc.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, domainagent.ErrNotFound), errors.Is(err, runsvc.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, runsvc.ErrRunInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
