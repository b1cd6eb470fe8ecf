package services

import (
	"net/url"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
)

// BookingService builds scheduling URLs on the server, for the no-script
// redirect and for flows that hand a URL back to the browser.
type BookingService struct {
	opts   widget.Options
	logger *logging.ChanneledLogger
}

// NewBookingService creates a booking service for opts.
func NewBookingService(opts widget.Options, logger *logging.ChanneledLogger) *BookingService {
	return &BookingService{opts: opts, logger: logger}
}

// Options returns the widget options pages embed for the browser manager.
func (s *BookingService) Options() widget.Options { return s.opts }

// TargetURL applies attribution to the base booking URL. An explicit URL is
// only honoured when it points at the booking host, so the redirect cannot
// be used to send visitors elsewhere.
func (s *BookingService) TargetURL(intent widget.Intent, session widget.Params) string {
	if explicit := strings.TrimSpace(intent.ExplicitTargetURL); explicit != "" && !s.onBookingHost(explicit) {
		s.logger.Widget().Warn("Ignoring non-booking target URL", "url", explicit)
		intent.ExplicitTargetURL = ""
	}
	return widget.BuildTargetURL(s.opts.BaseURL, s.opts.Attribution, intent, session)
}

// Redirect is TargetURL for the no-script tier. It counts the redirect.
func (s *BookingService) Redirect(intent widget.Intent, session widget.Params) string {
	target := s.TargetURL(intent, session)
	metrics.BookingRedirects.WithLabelValues(campaignLabel(intent.CampaignTag)).Inc()
	s.logger.Widget().Info("Booking redirect", "campaign", intent.CampaignTag, "method", "redirect")
	return target
}

func (s *BookingService) onBookingHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	return widget.MatchesHost(u.Hostname(), s.opts.BookingHost)
}

// campaignLabel bounds metric label values to short slugs.
func campaignLabel(tag string) string {
	tag = slugify(tag)
	if tag == "" {
		return "none"
	}
	if len(tag) > 40 {
		tag = tag[:40]
	}
	return tag
}
