package templates

import (
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// PageConfig is the per-page head metadata.
type PageConfig struct {
	Title       string
	Description string
	Path        string
	OGImage     string
}

var navLinks = []struct {
	Href  string
	Label string
}{
	{"/", "Home"},
	{"/about-magneto", "About"},
	{"/services", "Services"},
	{"/packages", "Packages"},
	{"/projects", "Projects"},
	{"/contact", "Contact"},
}

// Layout wraps page content in the document shell, header and footer.
func (s *Site) Layout(config PageConfig, chrome content.Chrome, body ...g.Node) g.Node {
	title := s.Name
	if config.Title != "" {
		title = config.Title + " | " + s.Name
	}
	description := config.Description
	if description == "" {
		description = s.Description
	}
	ogImage := config.OGImage
	if ogImage == "" {
		ogImage = "/assets/images/hero-main-visual.png"
	}
	canonical := strings.TrimRight(s.URL, "/") + config.Path

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Meta(Name("description"), Content(description)),
				Link(Rel("canonical"), Href(canonical)),

				Meta(g.Attr("property", "og:title"), Content(title)),
				Meta(g.Attr("property", "og:description"), Content(description)),
				Meta(g.Attr("property", "og:type"), Content("website")),
				Meta(g.Attr("property", "og:url"), Content(canonical)),
				Meta(g.Attr("property", "og:image"), Content(ogImage)),
				Meta(g.Attr("property", "og:site_name"), Content(s.Name)),

				Link(Rel("icon"), Href("/favicon.ico")),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(
				s.header(chrome),
				Main(ID("main"), g.Group(body)),
				s.footer(chrome),

				Script(Type("application/json"), ID("booking-config"), g.Raw(s.bookingJSON())),
				Script(Src("/static/js/wasm_exec.js"), Defer()),
				Script(Src("/static/js/booking.js"), Defer()),
			),
		),
	})
}

func (s *Site) header(chrome content.Chrome) g.Node {
	return Header(
		Class("site-header"),
		Nav(
			Class("site-header__nav"),
			A(Href("/"), Class("site-header__logo"), s.logo(chrome)),
			Ul(
				Class("site-header__links"),
				g.Group(g.Map(navLinks, func(link struct {
					Href  string
					Label string
				}) g.Node {
					return Li(A(Href(link.Href), g.Text(link.Label)))
				})),
			),
			s.BookingCTA(content.CTA{Text: "Book a call", Campaign: "header"}, "btn btn-primary"),
		),
	)
}

func (s *Site) logo(chrome content.Chrome) g.Node {
	if chrome.Logo == nil {
		return Img(Src("/logo.png"), Alt("Logo"), Width("120"), Height("43"))
	}
	return s.Image(chrome.Logo, ImageOptions{Alt: "Logo", Width: 120, Height: 43, Eager: true})
}

func (s *Site) footer(chrome content.Chrome) g.Node {
	return Footer(
		Class("site-footer"),
		g.If(chrome.FooterBackground != nil, Div(Class("site-footer__bg"), s.Picture(chrome.FooterBackground, ""))),
		Div(
			Class("site-footer__content"),
			g.Group(g.Map(chrome.FooterLines, func(line string) g.Node {
				return P(g.Text(line))
			})),
			g.If(len(chrome.Social) > 0, Ul(
				Class("site-footer__social"),
				g.Group(g.Map(chrome.Social, func(link content.SocialLink) g.Node {
					return Li(A(
						Href(link.URL), Target("_blank"), Rel("noopener noreferrer"),
						g.Iff(link.Icon != nil, func() g.Node { return s.Image(link.Icon, ImageOptions{Alt: "", Width: 24, Height: 24}) }),
						g.If(link.Icon == nil, g.Text(link.URL)),
					))
				})),
			)),
		),
	)
}
