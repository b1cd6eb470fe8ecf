package templates

import (
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func (s *Site) HomePage(chrome content.Chrome, home content.HomePage) g.Node {
	return s.Layout(PageConfig{Path: "/"}, chrome,
		s.Hero(home.Hero),
		s.FeaturedServices(home.Services),
		s.About(home.About),
		s.Packages(home.Packages),
		s.Testimonials(home.Testimonials),
		s.LeadMagnet(home.LeadMagnet),
		s.FinalCTA(home.FinalCTA),
		s.Prefooter(home.Prefooter),
	)
}

func (s *Site) AboutPage(chrome content.Chrome, page content.AboutPage, prefooter content.Prefooter) g.Node {
	return s.Layout(PageConfig{Title: page.Title, Description: page.About.Description, Path: "/about-magneto"}, chrome,
		H1(Class("page-title"), g.Text(page.Title)),
		s.About(page.About),
		s.Prefooter(prefooter),
	)
}

func (s *Site) ServicesPage(chrome content.Chrome, page content.ServicesPage, prefooter content.Prefooter) g.Node {
	return s.Layout(PageConfig{Title: page.Title, Path: "/services"}, chrome,
		H1(Class("page-title"), g.Text(page.Title)),
		Nav(
			Class("services__index"),
			g.Group(g.Map(page.Services, func(service content.Service) g.Node {
				return A(Href("#"+service.Anchor), g.Text(service.Title))
			})),
		),
		g.Group(g.Map(page.Services, func(service content.Service) g.Node {
			return Section(
				Class("service-detail"), ID(service.Anchor),
				H2(g.Text(service.Title)),
				P(g.Text(service.Description)),
				s.Image(service.Image, ImageOptions{Class: "service-detail__image"}),
				s.BookingCTA(content.CTA{Text: "Talk to us about this", Campaign: "service_" + campaignSlug(service.Title)}, "btn btn-secondary"),
			)
		})),
		s.Prefooter(prefooter),
	)
}

func (s *Site) PackagesPage(chrome content.Chrome, page content.PackagesPage, prefooter content.Prefooter) g.Node {
	return s.Layout(PageConfig{Title: "Packages", Description: page.Intro, Path: "/packages"}, chrome,
		H1(Class("page-title"), g.Text("Packages")),
		g.If(page.Intro != "", P(Class("page-intro"), g.Text(page.Intro))),
		s.Packages(page.Packages),
		s.Prefooter(prefooter),
	)
}

func (s *Site) ProjectsPage(chrome content.Chrome, page content.ProjectsPage) g.Node {
	return s.Layout(PageConfig{Title: "Projects", Description: page.Intro, Path: "/projects"}, chrome,
		H1(Class("page-title"), g.Text("Projects")),
		g.If(page.Intro != "", P(Class("page-intro"), g.Text(page.Intro))),
		Div(
			Class("projects__grid"),
			g.Group(g.Map(page.Projects, func(p content.Project) g.Node {
				return A(
					Href("/projects/"+p.Slug), Class("project-card"),
					s.Image(p.Image, ImageOptions{Class: "project-card__image", Width: 400, Height: 300}),
					g.If(p.TagText != "", Span(Class("project-card__tag"), g.Text(p.TagText))),
					H2(g.Text(p.Title)),
					P(g.Text(p.Description)),
				)
			})),
		),
	)
}

func (s *Site) ProjectDetailPage(chrome content.Chrome, p content.Project) g.Node {
	var ogImage string
	if p.Image != nil {
		ogImage = p.Image.CanonicalURL
	}
	return s.Layout(PageConfig{Title: p.Title, Description: p.Description, Path: "/projects/" + p.Slug, OGImage: ogImage}, chrome,
		Article(
			Class("project"),
			A(Href("/projects"), Class("link"), g.Text("All projects")),
			H1(g.Text(p.Title)),
			g.If(p.TagText != "", Span(Class("project__tag"), g.Text(p.TagText))),
			s.Image(p.Image, ImageOptions{Class: "project__image", Eager: true}),
			P(Class("project__summary"), g.Text(p.Description)),
			Dl(
				Class("project__facts"),
				fact("Client", p.Client),
				fact("Category", p.Category),
				fact("Year", p.Year),
				fact("Duration", p.Duration),
				fact("Technologies", strings.Join(p.Technologies, ", ")),
			),
			list("Challenges", p.Challenges),
			list("Solutions", p.Solutions),
			list("Results", p.Results),
			g.Iff(p.Testimonial != nil, func() g.Node { return s.testimonial(*p.Testimonial) }),
			s.BookingCTA(content.CTA{Text: "Start your project", Campaign: "project_" + campaignSlug(p.Slug)}, "btn btn-primary"),
		),
	)
}

// ContactPage posts to /api/contact.
func (s *Site) ContactPage(chrome content.Chrome, page content.ContactPage) g.Node {
	return s.Layout(PageConfig{Title: "Contact", Description: page.BodyText, Path: "/contact"}, chrome,
		Section(
			Class("contact"),
			Div(
				Class("contact__copy"),
				g.If(page.TagText != "", Span(Class("contact__tag"), g.Text(page.TagText))),
				H1(g.Text(page.MainCopy)),
				P(g.Text(page.BodyText)),
				s.Image(page.Image, ImageOptions{Class: "contact__image"}),
			),
			Form(
				Method("post"), Action("/api/contact"), Class("contact__form"), ID("contact-form"),
				field("name", "Name", "text", true),
				field("email", "Email", "email", true),
				field("businessType", "Business type", "text", false),
				Label(For("contact-message"), g.Text("Message")),
				Textarea(ID("contact-message"), Name("message"), Rows("5")),
				Button(Type("submit"), Class("btn btn-primary"), g.Text("Send")),
			),
			P(Class("contact__book"), g.Text("Prefer to talk? "),
				s.BookingCTA(content.CTA{Text: "Book a call", Campaign: "contact_page"}, "link")),
		),
	)
}

func (s *Site) NotFoundPage(chrome content.Chrome) g.Node {
	return s.Layout(PageConfig{Title: "Page not found"}, chrome,
		Section(
			Class("not-found"),
			H1(g.Text("Page not found")),
			P(g.Text("The page you are looking for does not exist or was moved.")),
			A(Href("/"), Class("btn btn-primary"), g.Text("Back home")),
		),
	)
}

func fact(label, value string) g.Node {
	if value == "" {
		return nil
	}
	return g.Group([]g.Node{Dt(g.Text(label)), Dd(g.Text(value))})
}

func list(title string, items []string) g.Node {
	if len(items) == 0 {
		return nil
	}
	return Section(
		H2(g.Text(title)),
		Ul(g.Group(g.Map(items, func(item string) g.Node { return Li(g.Text(item)) }))),
	)
}

func field(name, label, kind string, required bool) g.Node {
	id := "contact-" + name
	return g.Group([]g.Node{
		Label(For(id), g.Text(label)),
		Input(Type(kind), ID(id), Name(name), g.If(required, Required())),
	})
}
