// Package handlers provides HTTP handlers for pages and the JSON API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/application/services"
	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/magnetomarketing/magneto-web/internal/presentation/templates"
	g "maragu.dev/gomponents"
)

// PageHandlers renders the server-side pages. Content failures never reach
// here; the content service substitutes fallback copy.
type PageHandlers struct {
	content     *services.ContentService
	site        *templates.Site
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewPageHandlers creates page handlers with injected dependencies
func NewPageHandlers(contentService *services.ContentService, site *templates.Site, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PageHandlers {
	return &PageHandlers{
		content:     contentService,
		site:        site,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func (h *PageHandlers) render(c *gin.Context, status int, page string, node g.Node) {
	marker := h.perfTracker.StartOperation("page:" + page)
	defer h.perfTracker.CompleteOperation(marker)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := node.Render(c.Writer); err != nil {
		marker.SetError(err)
		h.logger.Content().Error("Failed to render page", "page", page, "error", err.Error())
	}
}

func (h *PageHandlers) Home(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, "home", h.site.HomePage(h.content.Chrome(ctx), *h.content.HomePage(ctx)))
}

func (h *PageHandlers) About(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, "about", h.site.AboutPage(h.content.Chrome(ctx), *h.content.AboutPage(ctx), h.content.Prefooter(ctx)))
}

func (h *PageHandlers) Services(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, "services", h.site.ServicesPage(h.content.Chrome(ctx), *h.content.ServicesPage(ctx), h.content.Prefooter(ctx)))
}

func (h *PageHandlers) Packages(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, "packages", h.site.PackagesPage(h.content.Chrome(ctx), *h.content.PackagesPage(ctx), h.content.Prefooter(ctx)))
}

func (h *PageHandlers) Projects(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, "projects", h.site.ProjectsPage(h.content.Chrome(ctx), *h.content.ProjectsPage(ctx)))
}

// ProjectDetail renders /projects/:slug, or the 404 page for unknown slugs.
func (h *PageHandlers) ProjectDetail(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	project, err := h.content.ProjectBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			h.logger.Content().Error("Failed to load project", "slug", slug, "error", err.Error())
		}
		h.NotFound(c)
		return
	}
	h.render(c, http.StatusOK, "project", h.site.ProjectDetailPage(h.content.Chrome(ctx), *project))
}

func (h *PageHandlers) Contact(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, "contact", h.site.ContactPage(h.content.Chrome(ctx), *h.content.ContactPage(ctx)))
}

// NotFound renders the HTML 404 page.
func (h *PageHandlers) NotFound(c *gin.Context) {
	h.logger.Content().Debug("Page not found", "path", c.Request.URL.Path)
	h.render(c, http.StatusNotFound, "not_found", h.site.NotFoundPage(h.content.Chrome(c.Request.Context())))
}
