package templates

import (
	"net/url"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// BookingCTA renders a call-to-action. Booking CTAs carry data attributes
// for the widget manager and an href to /book so they still work without
// scripts; other CTAs are plain links.
func (s *Site) BookingCTA(cta content.CTA, class string) g.Node {
	text := cta.Text
	if text == "" {
		text = "Book a call"
	}
	if !cta.Opens(s.Booking.BookingHost) {
		return A(Href(cta.Link), g.If(class != "", Class(class)), g.Text(text))
	}

	explicit := strings.TrimSpace(cta.Link)
	if explicit == "#book" {
		explicit = ""
	}
	return A(
		Href(BookHref(cta.Campaign, explicit)),
		g.If(class != "", Class(class)),
		g.Attr("data-booking-campaign", cta.Campaign),
		g.If(explicit != "", g.Attr("data-booking-url", explicit)),
		Rel("nofollow"),
		g.Text(text),
	)
}

// BookHref is the no-script booking link for campaign and an optional
// explicit scheduling URL.
func BookHref(campaign, explicit string) string {
	q := url.Values{}
	if campaign != "" {
		q.Set("campaign", campaign)
	}
	if explicit != "" {
		q.Set("url", explicit)
	}
	if len(q) == 0 {
		return "/book"
	}
	return "/book?" + q.Encode()
}
