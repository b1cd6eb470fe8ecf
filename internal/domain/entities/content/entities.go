// Package content defines the page sections the site renders from CMS data.
package content

import (
	"errors"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("content not found")

// CTA is a call-to-action. An empty Link or one pointing at the booking
// host opens the scheduling widget; anything else is a plain link.
type CTA struct {
	Text     string `yaml:"text"`
	Link     string `yaml:"link,omitempty"`
	Campaign string `yaml:"campaign,omitempty"`
}

// Opens reports whether the CTA should open the booking widget.
func (c CTA) Opens(bookingHost string) bool {
	link := strings.TrimSpace(c.Link)
	if link == "" || link == "#book" {
		return true
	}
	return bookingHost != "" && strings.Contains(link, bookingHost)
}

type Hero struct {
	Title      string        `yaml:"title"`
	Subtitle   string        `yaml:"subtitle"`
	CTA        CTA           `yaml:"cta"`
	Image      *media.Object `yaml:"image,omitempty"`
	Background *media.Object `yaml:"background,omitempty"`
}

type Service struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Anchor      string        `yaml:"anchor,omitempty"`
	Icon        *media.Object `yaml:"icon,omitempty"`
	Image       *media.Object `yaml:"image,omitempty"`
}

type ServicesSection struct {
	Title    string    `yaml:"title"`
	Services []Service `yaml:"services"`
}

// Package is a priced offering. Price is kept as display text since the
// CMS sends numbers and strings interchangeably.
type Package struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Price       string        `yaml:"price,omitempty"`
	Popular     bool          `yaml:"popular,omitempty"`
	Features    []string      `yaml:"features,omitempty"`
	Icon        *media.Object `yaml:"icon,omitempty"`
}

type Testimonial struct {
	Author string        `yaml:"author"`
	Role   string        `yaml:"role,omitempty"`
	Quote  string        `yaml:"quote"`
	Thumb  *media.Object `yaml:"thumb,omitempty"`
}

type About struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	LinkText    string        `yaml:"linkText,omitempty"`
	LinkURL     string        `yaml:"linkUrl,omitempty"`
	GeneralText string        `yaml:"generalText,omitempty"`
	BookingText string        `yaml:"bookingText,omitempty"`
	BookingURL  string        `yaml:"bookingUrl,omitempty"`
	Image       *media.Object `yaml:"image,omitempty"`
}

// LeadMagnet offers a downloadable guide in exchange for an email.
type LeadMagnet struct {
	OverTitle   string `yaml:"overTitle"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	CTAText     string `yaml:"ctaText"`
	DownloadURL string `yaml:"downloadUrl"`
}

type FinalCTA struct {
	Title      string        `yaml:"title"`
	Subtitle   string        `yaml:"subtitle"`
	CTA        CTA           `yaml:"cta"`
	Background *media.Object `yaml:"background,omitempty"`
}

type Prefooter struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTA      CTA    `yaml:"cta"`
}

type SocialLink struct {
	URL  string        `yaml:"url"`
	Icon *media.Object `yaml:"icon,omitempty"`
}

// Chrome is the header and footer shared by every page.
type Chrome struct {
	Logo             *media.Object `yaml:"logo,omitempty"`
	FooterBackground *media.Object `yaml:"footerBackground,omitempty"`
	FooterLines      []string      `yaml:"footerLines,omitempty"`
	Social           []SocialLink  `yaml:"social,omitempty"`
}

type Project struct {
	Slug         string        `yaml:"slug"`
	Title        string        `yaml:"title"`
	TagText      string        `yaml:"tagText,omitempty"`
	Description  string        `yaml:"description"`
	Image        *media.Object `yaml:"image,omitempty"`
	Client       string        `yaml:"client,omitempty"`
	Category     string        `yaml:"category,omitempty"`
	Year         string        `yaml:"year,omitempty"`
	Duration     string        `yaml:"duration,omitempty"`
	Technologies []string      `yaml:"technologies,omitempty"`
	Challenges   []string      `yaml:"challenges,omitempty"`
	Solutions    []string      `yaml:"solutions,omitempty"`
	Results      []string      `yaml:"results,omitempty"`
	Testimonial  *Testimonial  `yaml:"testimonial,omitempty"`
	Modified     string        `yaml:"modified,omitempty"`
}

type ContactPage struct {
	MainCopy string        `yaml:"mainCopy"`
	TagText  string        `yaml:"tagText"`
	BodyText string        `yaml:"bodyText"`
	Image    *media.Object `yaml:"image,omitempty"`
}

// HomePage aggregates every home section. Each section degrades on its own.
type HomePage struct {
	Hero         Hero            `yaml:"hero"`
	Services     ServicesSection `yaml:"services"`
	About        About           `yaml:"about"`
	Packages     []Package       `yaml:"packages"`
	Testimonials []Testimonial   `yaml:"testimonials"`
	LeadMagnet   LeadMagnet      `yaml:"leadMagnet"`
	FinalCTA     FinalCTA        `yaml:"finalCta"`
	Prefooter    Prefooter       `yaml:"prefooter"`
}

type ServicesPage struct {
	Title    string    `yaml:"title"`
	Services []Service `yaml:"services"`
}

type PackagesPage struct {
	Intro    string    `yaml:"intro"`
	Packages []Package `yaml:"packages"`
}

type ProjectsPage struct {
	Intro    string    `yaml:"intro"`
	Projects []Project `yaml:"projects"`
}

type AboutPage struct {
	Title string `yaml:"title"`
	About About  `yaml:"about"`
}

// SiteCopy is the full set of fallback copy rendered when the CMS fails.
type SiteCopy struct {
	Home     HomePage     `yaml:"home"`
	About    AboutPage    `yaml:"about"`
	Services ServicesPage `yaml:"services"`
	Packages PackagesPage `yaml:"packages"`
	Projects ProjectsPage `yaml:"projects"`
	Contact  ContactPage  `yaml:"contact"`
	Chrome   Chrome       `yaml:"chrome"`
}

// FindProject returns the project with slug.
func (p ProjectsPage) FindProject(slug string) (Project, bool) {
	for _, project := range p.Projects {
		if project.Slug == slug {
			return project, true
		}
	}
	return Project{}, false
}
