// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/magnetomarketing/magneto-web/internal/application/services"
	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/caching"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/cms"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/email"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/fallback"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/fileproxy"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/mailinglist"
	imgproxy "github.com/magnetomarketing/magneto-web/internal/infrastructure/media"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/database"
	leadrepo "github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/lead"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/security"
	"github.com/magnetomarketing/magneto-web/internal/presentation/http/middleware"
	"github.com/magnetomarketing/magneto-web/internal/presentation/templates"
	"github.com/magnetomarketing/magneto-web/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Content Services
	ContentService     *services.ContentService
	SitemapService     *services.SitemapService
	CacheWarmerService *services.CacheWarmerService

	// Lead Services
	BookingService   *services.BookingService
	ContactService   *services.ContactService
	SubscribeService *services.SubscribeService

	// Infrastructure Dependencies
	CMS            *cms.Client
	ContentCache   *caching.Store
	WarmingLock    *caching.WarmingLock
	Ledger         *database.DB
	Leads          lead.Repository
	FileProxy      *fileproxy.Proxy
	ImageProcessor *imgproxy.ImageProcessor
	RateLimiter    *middleware.RateLimiter

	// Presentation
	Site              *templates.Site
	AttributionSecret string

	// Observability
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// BookingOptions builds the widget configuration from pkg/config.
func BookingOptions() widget.Options {
	opts := widget.DefaultOptions()
	opts.BaseURL = config.BookingURL
	opts.ScriptURL = config.BookingScriptURL
	opts.StylesheetURL = config.BookingStylesheetURL
	opts.BookingHost = config.BookingHost
	opts.WarmOrigins = config.BookingWarmOrigins
	opts.GracePeriod = config.BookingGracePeriod
	opts.Attribution = widget.Attribution{
		Source:   config.UTMSource,
		Medium:   config.UTMMedium,
		Campaign: config.UTMCampaign,
	}
	return opts
}

// NewContainer creates and wires all singleton services. ledger may be nil,
// in which case submissions are not recorded.
func NewContainer(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, ledger *database.DB) (*Container, error) {
	siteCopy, err := fallback.Load(config.FallbackCopyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback copy: %w", err)
	}

	secret := config.JWTSecret
	if secret == "" {
		secret, err = security.GenerateSecureKey(64)
		if err != nil {
			return nil, err
		}
		logger.Startup().Warn("JWT_SECRET not set, attribution cookies will not survive a restart")
	}

	var leads lead.Repository
	if ledger != nil {
		leads = leadrepo.NewSQLLeadRepository(ledger, logger)
	}

	mailer, err := email.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to configure email delivery: %w", err)
	}

	cmsClient := cms.NewClient(config.WordPressAPIURL, config.CMSTimeout, logger)
	contentCache := caching.NewStore(config.ContentCacheTTL, logger)
	warmingLock := caching.NewWarmingLock()
	contentService := services.NewContentService(cmsClient, contentCache, siteCopy, logger, perfTracker)

	bookingOpts := BookingOptions()
	bookingService := services.NewBookingService(bookingOpts, logger)
	mailchimp := mailinglist.NewMailchimp(config.MailchimpAPIKey, config.MailchimpListID, config.CMSTimeout)
	brevo := mailinglist.NewBrevo(config.BrevoAPIKey, config.BrevoBaseURL, config.BrevoListIDs, config.CMSTimeout)

	allow := fileproxy.AllowListFromCMS(config.WordPressAPIURL)

	return &Container{
		ContentService:     contentService,
		SitemapService:     services.NewSitemapService(contentService, config.SiteURL, logger),
		CacheWarmerService: services.NewCacheWarmerService(contentService, warmingLock, config.CacheWarmCron, logger),

		BookingService:   bookingService,
		ContactService:   services.NewContactService(mailchimp, mailer, leads, secret, logger, perfTracker),
		SubscribeService: services.NewSubscribeService(bookingService, leads, secret, logger, perfTracker, brevo, mailchimp),

		CMS:            cmsClient,
		ContentCache:   contentCache,
		WarmingLock:    warmingLock,
		Ledger:         ledger,
		Leads:          leads,
		FileProxy:      fileproxy.NewProxy(allow, config.ProxyTimeout, logger),
		ImageProcessor: imgproxy.NewImageProcessor(config.MediaCacheDir, config.ImageMaxWidth, config.ImageQuality, config.ProxyTimeout, logger),
		RateLimiter:    middleware.NewRateLimiter(config.RateLimitPerMinute, config.RateLimitBurst, logger),

		Site: &templates.Site{
			Name:           config.SiteName,
			URL:            config.SiteURL,
			Description:    siteCopy.Home.Hero.Subtitle,
			Booking:        bookingOpts,
			ImageOptimizer: config.ImageOptimizer,
			Resolver:       media.NewResolver(config.ImageThumbnailCeiling, config.ImageTinyCeiling, config.ImageAssumedCanonicalWidth),
		},
		AttributionSecret: secret,

		Logger:      logger,
		PerfTracker: perfTracker,
	}, nil
}
