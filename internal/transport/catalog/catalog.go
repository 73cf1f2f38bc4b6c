package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
)

func Register(rg *gin.RouterGroup, svc *catalogsvc.Service) {
	rg.POST("/reload", reload(svc))
	rg.GET("", status(svc))
}

type statusResp struct {
	Source        string `json:"source"`
	Agents        int    `json:"agents"`
	MockResponses int    `json:"mock_responses"`
	LoadedAt      string `json:"loaded_at"`
}

func reload(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc.Reload(c.Request.Context())
		c.JSON(http.StatusOK, describe(svc))
	}
}

func status(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, describe(svc))
	}
}

func describe(svc *catalogsvc.Service) statusResp {
	snap := svc.Snapshot()
	return statusResp{
		Source:        snap.Source,
		Agents:        len(snap.Agents),
		MockResponses: len(snap.MockResponses),
		LoadedAt:      snap.LoadedAt.Format(time.RFC3339),
	}
}
