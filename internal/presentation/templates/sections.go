package templates

import (
	"net/url"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func (s *Site) Hero(hero content.Hero) g.Node {
	return Section(
		Class("hero"),
		g.If(hero.Background != nil, Div(Class("hero__bg"), s.Picture(hero.Background, ""))),
		Div(
			Class("hero__content"),
			H1(Class("hero__title"), g.Text(hero.Title)),
			g.If(hero.Subtitle != "", P(Class("hero__subtitle"), g.Text(hero.Subtitle))),
			s.BookingCTA(hero.CTA, "btn btn-primary btn-lg"),
		),
		Div(
			Class("hero__visual"),
			s.Image(hero.Image, ImageOptions{Class: "hero__image", Width: 500, Height: 500, Eager: true}),
		),
	)
}

func (s *Site) FeaturedServices(section content.ServicesSection) g.Node {
	if len(section.Services) == 0 {
		return nil
	}
	return Section(
		Class("services"), ID("services"),
		H2(g.Text(section.Title)),
		Div(
			Class("services__grid"),
			g.Group(g.Map(section.Services, s.serviceCard)),
		),
	)
}

func (s *Site) serviceCard(service content.Service) g.Node {
	return Article(
		Class("service-card"),
		g.If(service.Anchor != "", ID(service.Anchor)),
		s.Image(service.Icon, ImageOptions{Class: "service-card__icon", Width: 64, Height: 64, Device: media.DeviceMobile}),
		H3(g.Text(service.Title)),
		P(g.Text(service.Description)),
	)
}

func (s *Site) About(about content.About) g.Node {
	return Section(
		Class("about"),
		Div(
			Class("about__text"),
			H2(g.Text(about.Title)),
			P(g.Text(about.Description)),
			g.If(about.GeneralText != "", P(g.Text(about.GeneralText))),
			g.If(about.LinkText != "" && about.LinkURL != "", A(Href(about.LinkURL), Class("link"), g.Text(about.LinkText))),
			g.If(about.BookingText != "", s.BookingCTA(content.CTA{Text: about.BookingText, Link: about.BookingURL, Campaign: "about"}, "btn btn-secondary")),
		),
		s.Image(about.Image, ImageOptions{Class: "about__image"}),
	)
}

func (s *Site) Packages(packages []content.Package) g.Node {
	if len(packages) == 0 {
		return nil
	}
	return Section(
		Class("packages"), ID("packages"),
		Div(Class("packages__grid"), g.Group(g.Map(packages, s.packageCard))),
	)
}

func (s *Site) packageCard(pkg content.Package) g.Node {
	class := "package-card"
	if pkg.Popular {
		class += " package-card--popular"
	}
	return Article(
		Class(class),
		g.If(pkg.Popular, Span(Class("package-card__badge"), g.Text("Most popular"))),
		s.Image(pkg.Icon, ImageOptions{Width: 48, Height: 48, Device: media.DeviceMobile}),
		H3(g.Text(pkg.Name)),
		g.If(pkg.Price != "", P(Class("package-card__price"), g.Text(price(pkg.Price)))),
		P(g.Text(pkg.Description)),
		g.If(len(pkg.Features) > 0, Ul(g.Group(g.Map(pkg.Features, func(f string) g.Node {
			return Li(g.Text(f))
		})))),
		s.BookingCTA(content.CTA{Text: "Get started", Campaign: "package_" + campaignSlug(pkg.Name)}, "btn btn-primary"),
	)
}

func (s *Site) Testimonials(testimonials []content.Testimonial) g.Node {
	if len(testimonials) == 0 {
		return nil
	}
	return Section(
		Class("testimonials"),
		H2(g.Text("What our clients say")),
		Div(Class("testimonials__list"), g.Group(g.Map(testimonials, s.testimonial))),
	)
}

func (s *Site) testimonial(t content.Testimonial) g.Node {
	return Figure(
		Class("testimonial"),
		BlockQuote(P(g.Text(t.Quote))),
		FigCaption(
			s.Image(t.Thumb, ImageOptions{Alt: t.Author, Width: 56, Height: 56, Device: media.DeviceMobile}),
			Strong(g.Text(t.Author)),
			g.If(t.Role != "", Span(g.Text(t.Role))),
		),
	)
}

// LeadMagnet posts to /api/subscribe; the download link goes through the
// file proxy.
func (s *Site) LeadMagnet(lm content.LeadMagnet) g.Node {
	return Section(
		Class("lead-magnet"), ID("lead-magnet"),
		P(Class("lead-magnet__over"), g.Text(lm.OverTitle)),
		H2(g.Text(lm.Title)),
		P(g.Text(lm.Subtitle)),
		Form(
			Method("post"), Action("/api/subscribe"),
			Class("lead-magnet__form"),
			g.Attr("data-download-url", downloadHref(lm.DownloadURL)),
			Input(Type("hidden"), Name("campaign"), Value("lead_magnet")),
			Label(For("lm-name"), g.Text("Name")),
			Input(Type("text"), ID("lm-name"), Name("name"), AutoComplete("name")),
			Label(For("lm-email"), g.Text("Email")),
			Input(Type("email"), ID("lm-email"), Name("email"), Required(), AutoComplete("email")),
			Button(Type("submit"), Class("btn btn-primary"), g.Text(lm.CTAText)),
		),
		g.If(lm.DownloadURL != "", NoScript(A(Href(downloadHref(lm.DownloadURL)), g.Text("Download the guide")))),
	)
}

func (s *Site) FinalCTA(f content.FinalCTA) g.Node {
	return Section(
		Class("final-cta"),
		g.If(f.Background != nil, Div(Class("final-cta__bg"), s.Picture(f.Background, ""))),
		H2(g.Text(f.Title)),
		P(g.Text(f.Subtitle)),
		s.BookingCTA(f.CTA, "btn btn-primary btn-lg"),
	)
}

func (s *Site) Prefooter(p content.Prefooter) g.Node {
	return Section(
		Class("prefooter"),
		H2(g.Text(p.Title)),
		g.If(p.Subtitle != "", P(g.Text(p.Subtitle))),
		s.BookingCTA(p.CTA, "btn btn-secondary"),
	)
}

func downloadHref(target string) string {
	if target == "" {
		return ""
	}
	return "/api/download?url=" + url.QueryEscape(target)
}

func price(p string) string {
	if strings.HasPrefix(p, "$") {
		return p
	}
	return "$" + p
}

func campaignSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteByte('_')
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
