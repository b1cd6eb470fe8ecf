// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/application/container"
	"github.com/magnetomarketing/magneto-web/internal/presentation/http/handlers"
	"github.com/magnetomarketing/magneto-web/internal/presentation/http/middleware"
	"github.com/magnetomarketing/magneto-web/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(config.AllowedOrigins))
	r.Use(middleware.AttributionMiddleware(container.AttributionSecret, config.AttributionCookieTTL, container.Logger))

	r.Static("/static", config.StaticDir)
	r.Static("/assets", config.StaticDir+"/assets")
	r.StaticFile("/favicon.ico", config.StaticDir+"/favicon.ico")
	r.StaticFile("/logo.png", config.StaticDir+"/logo.png")

	// Initialize handlers
	pageHandlers := handlers.NewPageHandlers(container.ContentService, container.Site, container.Logger, container.PerfTracker)
	leadHandlers := handlers.NewLeadHandlers(container.ContactService, container.SubscribeService, container.Logger, container.PerfTracker)
	bookingHandlers := handlers.NewBookingHandlers(container.BookingService)
	fileHandlers := handlers.NewFileHandlers(container.FileProxy, container.Logger, container.PerfTracker)
	imageHandlers := handlers.NewImageHandlers(container.ImageProcessor, container.FileProxy.AllowList(), container.Logger, container.PerfTracker)
	systemHandlers := handlers.NewSystemHandlers(container.CMS, container.ContentCache, container.SitemapService, container.Logger, container.PerfTracker)

	// Pages
	r.GET("/", pageHandlers.Home)
	r.GET("/about", pageHandlers.About)
	r.GET("/about-magneto", pageHandlers.About)
	r.GET("/services", pageHandlers.Services)
	r.GET("/packages", pageHandlers.Packages)
	r.GET("/projects", pageHandlers.Projects)
	r.GET("/projects/:slug", pageHandlers.ProjectDetail)
	r.GET("/portfolio", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/projects")
	})
	r.GET("/contact", pageHandlers.Contact)
	r.NoRoute(pageHandlers.NotFound)

	// Booking and images
	r.GET("/book", bookingHandlers.Book)
	r.GET("/_img", imageHandlers.Optimize)

	// Crawlers and operations
	r.GET("/sitemap.xml", systemHandlers.Sitemap)
	r.GET("/robots.txt", systemHandlers.Robots)
	r.GET("/health", systemHandlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		limited := api.Group("", container.RateLimiter.Middleware())
		{
			limited.Any("/contact", leadHandlers.Contact)
			limited.Any("/subscribe", leadHandlers.Subscribe)
		}

		api.Any("/download", fileHandlers.Download)
		api.Any("/download-check", fileHandlers.DownloadCheck)

		api.GET("/ping-cms", systemHandlers.PingCMS)
		api.GET("/wp-graphql", systemHandlers.GraphQLProxy)
		api.POST("/wp-graphql", systemHandlers.GraphQLProxy)
	}

	return r
}
