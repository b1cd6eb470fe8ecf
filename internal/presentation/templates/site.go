// Package templates renders the site's pages with gomponents.
package templates

import (
	"encoding/json"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
)

// Site carries the settings every page needs.
type Site struct {
	Name           string
	URL            string
	Description    string
	Booking        widget.Options
	ImageOptimizer bool
	Resolver       *media.Resolver
}

// bookingConfig is the JSON handed to the browser widget manager.
type bookingConfig struct {
	BaseURL       string   `json:"baseUrl"`
	ScriptURL     string   `json:"scriptUrl"`
	StylesheetURL string   `json:"stylesheetUrl"`
	WarmOrigins   []string `json:"warmOrigins"`
	BookingHost   string   `json:"bookingHost"`
	Source        string   `json:"utmSource"`
	Medium        string   `json:"utmMedium"`
	Campaign      string   `json:"utmCampaign"`
	GraceMillis   int64    `json:"graceMs"`
}

func (s *Site) bookingJSON() string {
	b := s.Booking
	data, err := json.Marshal(bookingConfig{
		BaseURL:       b.BaseURL,
		ScriptURL:     b.ScriptURL,
		StylesheetURL: b.StylesheetURL,
		WarmOrigins:   b.WarmOrigins,
		BookingHost:   b.BookingHost,
		Source:        b.Attribution.Source,
		Medium:        b.Attribution.Medium,
		Campaign:      b.Attribution.Campaign,
		GraceMillis:   b.GracePeriod.Milliseconds(),
	})
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (s *Site) resolver() *media.Resolver {
	if s.Resolver == nil {
		return media.DefaultResolver()
	}
	return s.Resolver
}
