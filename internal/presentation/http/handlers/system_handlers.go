package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/application/services"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/caching"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/cms"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
)

const healthWindow = 5 * time.Minute

// CMSGateway is the part of the CMS client the system endpoints use.
type CMSGateway interface {
	Endpoint() string
	Ping(ctx context.Context) (time.Duration, error)
	Forward(ctx context.Context, body []byte) (*cms.ForwardResult, error)
}

// SystemHandlers serves health, diagnostics, the GraphQL proxy and the
// crawler files.
type SystemHandlers struct {
	cms         CMSGateway
	cache       *caching.Store
	sitemap     *services.SitemapService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewSystemHandlers(gateway CMSGateway, cache *caching.Store, sitemap *services.SitemapService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{
		cms:         gateway,
		cache:       cache,
		sitemap:     sitemap,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Health reports process health from recent tracked operations.
func (h *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"performance": h.perfTracker.Health(healthWindow),
		"cache":       h.cache.Stats(),
		"stats":       h.perfTracker.GetOverallStats(),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// PingCMS runs a trivial query against the CMS.
func (h *SystemHandlers) PingCMS(c *gin.Context) {
	latency, err := h.cms.Ping(c.Request.Context())
	resp := gin.H{
		"ok":        err == nil,
		"endpoint":  h.cms.Endpoint(),
		"latencyMs": latency.Milliseconds(),
	}
	if err != nil {
		resp["error"] = err.Error()
		h.logger.CMS().Warn("CMS ping failed", "error", err.Error(), "latency", latency)
	}
	c.JSON(http.StatusOK, resp)
}

// GraphQLProxy forwards a GraphQL request to the CMS and relays the answer
// unchanged. GET requests carry the query in the query string.
func (h *SystemHandlers) GraphQLProxy(c *gin.Context) {
	var body []byte
	if c.Request.Method == http.MethodGet {
		payload := map[string]any{"query": c.Query("query")}
		if vars := c.Query("variables"); vars != "" {
			payload["variables"] = json.RawMessage(vars)
		}
		if op := c.Query("operationName"); op != "" {
			payload["operationName"] = op
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variables", "details": err.Error()})
			return
		}
		body = encoded
	} else {
		read, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body", "details": err.Error()})
			return
		}
		body = read
	}

	result, err := h.cms.Forward(c.Request.Context(), body)
	if err != nil {
		h.logger.Proxy().Error("GraphQL proxy failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(result.StatusCode, result.ContentType, result.Body)
}

func (h *SystemHandlers) Sitemap(c *gin.Context) {
	data, err := h.sitemap.Sitemap(c.Request.Context())
	if err != nil {
		h.logger.Content().Error("Failed to build sitemap", "error", err.Error())
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (h *SystemHandlers) Robots(c *gin.Context) {
	c.String(http.StatusOK, h.sitemap.Robots())
}
