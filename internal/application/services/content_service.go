// Package services provides application-level services that orchestrate
// business logic and coordinate between the CMS, storage and domain entities.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/caching"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/cms"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"golang.org/x/sync/errgroup"
)

var errEmptySection = errors.New("section missing from cms response")

// ContentQuerier runs a GraphQL document against the CMS.
type ContentQuerier interface {
	Query(ctx context.Context, document string, variables map[string]any, out any) error
}

// ContentService loads page content from the CMS through the content
// cache. Any CMS failure is logged and replaced by fallback copy, so page
// loaders never return CMS errors.
type ContentService struct {
	cms         ContentQuerier
	cache       *caching.Store
	fallback    *content.SiteCopy
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewContentService creates a new content service
func NewContentService(querier ContentQuerier, cache *caching.Store, fallback *content.SiteCopy, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContentService {
	if fallback == nil {
		fallback = &content.SiteCopy{}
	}
	return &ContentService{
		cms:         querier,
		cache:       cache,
		fallback:    fallback,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Fallback returns the copy used when the CMS fails.
func (s *ContentService) Fallback() *content.SiteCopy { return s.fallback }

func fetch[T any](ctx context.Context, s *ContentService, document string, variables map[string]any) (T, error) {
	key := caching.QueryKey("cms", document, variables)
	marker := s.perfTracker.StartOperation("cms:" + cms.OperationName(document))
	marker.AddMetadata("key", key)

	loaded := false
	out, err := caching.Fetch(ctx, s.cache, key, func(ctx context.Context) (T, error) {
		loaded = true
		var out T
		err := s.cms.Query(ctx, document, variables, &out)
		return out, err
	})
	// Followers of a shared in-flight load count as hits.
	if loaded {
		marker.AddCacheMiss()
	} else {
		marker.AddCacheHit()
	}
	if err != nil {
		marker.SetError(err)
	}
	s.perfTracker.CompleteOperation(marker)
	return out, err
}

func (s *ContentService) degrade(section string, err error) {
	metrics.FallbackCopyServed.WithLabelValues(section).Inc()
	s.logger.Content().Warn("Serving fallback copy", "section", section, "error", err.Error(), "unavailable", cms.IsUnavailable(err))
}

// HomePage loads every home section concurrently. Sections fall back
// independently.
func (s *ContentService) HomePage(ctx context.Context) *content.HomePage {
	start := time.Now()
	page := &content.HomePage{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	g.Go(func() error { page.Hero = s.hero(gctx); return nil })
	g.Go(func() error { page.Services = s.featuredServices(gctx); return nil })
	g.Go(func() error { page.About = s.homeAbout(gctx); return nil })
	g.Go(func() error { page.Packages = s.homePackages(gctx); return nil })
	g.Go(func() error { page.Testimonials = s.testimonials(gctx); return nil })
	g.Go(func() error { page.LeadMagnet = s.leadMagnet(gctx); return nil })
	g.Go(func() error { page.FinalCTA = s.finalCTA(gctx); return nil })
	g.Go(func() error { page.Prefooter = s.Prefooter(gctx); return nil })
	_ = g.Wait()

	s.logger.Content().Debug("Home page content loaded", "duration", time.Since(start))
	return page
}

func (s *ContentService) hero(ctx context.Context) content.Hero {
	fb := s.fallback.Home.Hero
	resp, err := fetch[cms.HeroResponse](ctx, s, cms.HomeHeroQuery, nil)
	if err == nil && (resp.PageBy == nil || resp.PageBy.HeroContent == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("hero", err)
		return fb
	}

	h := resp.PageBy.HeroContent
	hero := content.Hero{
		Title:    or(h.HeroTitle, resp.PageBy.Title, fb.Title),
		Subtitle: h.SubtitleHero,
		CTA: content.CTA{
			Text:     or(h.CTATextHero, fb.CTA.Text),
			Link:     strings.TrimSpace(h.CTALinkHero),
			Campaign: or(fb.CTA.Campaign, "hero_home"),
		},
		Image:      image(h.Image),
		Background: image(h.BackgroundImage),
	}
	if hero.Image == nil {
		hero.Image = fb.Image
	}
	return hero
}

func (s *ContentService) featuredServices(ctx context.Context) content.ServicesSection {
	fb := s.fallback.Home.Services
	resp, err := fetch[cms.FeaturedServicesResponse](ctx, s, cms.HomeFeaturedServicesQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.HomeFeaturedServices == nil || len(resp.Page.HomeFeaturedServices.Service) == 0) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("featured_services", err)
		return fb
	}

	raw := resp.Page.HomeFeaturedServices
	section := content.ServicesSection{Title: or(raw.Title, fb.Title, "Featured Services")}
	for _, svc := range raw.Service {
		section.Services = append(section.Services, content.Service{
			Title:       svc.ServiceTitle,
			Description: svc.ServiceDescription,
			Anchor:      strings.TrimPrefix(svc.AnchorLink, "#"),
			Icon:        image(svc.ServiceIcon),
		})
	}
	return section
}

func (s *ContentService) homeAbout(ctx context.Context) content.About {
	fb := s.fallback.Home.About
	resp, err := fetch[cms.HomeAboutResponse](ctx, s, cms.HomeAboutQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.HomeAboutSection == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("home_about", err)
		return fb
	}

	raw := resp.Page.HomeAboutSection
	return content.About{
		Title:       or(raw.SectionTitle, fb.Title),
		Description: or(raw.Description, fb.Description),
		LinkText:    fb.LinkText,
		LinkURL:     fb.LinkURL,
	}
}

func (s *ContentService) homePackages(ctx context.Context) []content.Package {
	resp, err := fetch[cms.HomePackagesResponse](ctx, s, cms.HomePackagesQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.HomePackages == nil || len(resp.Page.HomePackages.Packages) == 0) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("home_packages", err)
		return s.fallback.Home.Packages
	}

	packages := make([]content.Package, 0, len(resp.Page.HomePackages.Packages))
	for _, p := range resp.Page.HomePackages.Packages {
		packages = append(packages, content.Package{
			Name:        p.Title,
			Description: p.Description,
			Price:       string(p.Price),
			Features:    []string(p.Features),
			Icon:        image(p.Icon),
		})
	}
	return packages
}

func (s *ContentService) testimonials(ctx context.Context) []content.Testimonial {
	resp, err := fetch[cms.TestimonialsResponse](ctx, s, cms.TestimonialsQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.HomeTestimonials == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("testimonials", err)
		return s.fallback.Home.Testimonials
	}

	var out []content.Testimonial
	for _, t := range resp.Page.HomeTestimonials.Testimonials {
		if strings.TrimSpace(t.Testimonial) == "" {
			continue
		}
		out = append(out, content.Testimonial{
			Author: t.Author,
			Quote:  t.Testimonial,
			Thumb:  image(t.Thumb),
		})
	}
	return out
}

func (s *ContentService) leadMagnet(ctx context.Context) content.LeadMagnet {
	fb := s.fallback.Home.LeadMagnet
	resp, err := fetch[cms.LeadMagnetResponse](ctx, s, cms.LeadMagnetQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.LeadMagnetSection == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("lead_magnet", err)
		return fb
	}

	raw := resp.Page.LeadMagnetSection
	download := ""
	if raw.CTALink != nil && raw.CTALink.Node != nil {
		n := raw.CTALink.Node
		download = or(n.MediaItemURL, n.SourceURL, n.URI)
	}
	return content.LeadMagnet{
		OverTitle:   or(raw.OverTitle, fb.OverTitle),
		Title:       or(raw.Title, fb.Title),
		Subtitle:    or(raw.Subtitle, fb.Subtitle),
		CTAText:     or(raw.CTAText, fb.CTAText),
		DownloadURL: or(download, fb.DownloadURL),
	}
}

func (s *ContentService) finalCTA(ctx context.Context) content.FinalCTA {
	fb := s.fallback.Home.FinalCTA
	resp, err := fetch[cms.FinalCTAResponse](ctx, s, cms.FinalCTAQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.FinalCTASection == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("final_cta", err)
		return fb
	}

	raw := resp.Page.FinalCTASection
	return content.FinalCTA{
		Title:    or(raw.Title, fb.Title),
		Subtitle: or(raw.Subtitle, fb.Subtitle),
		CTA: content.CTA{
			Text:     or(raw.CTAText, fb.CTA.Text),
			Link:     strings.TrimSpace(raw.CTALink),
			Campaign: or(fb.CTA.Campaign, "final_cta"),
		},
		Background: image(raw.BgImage),
	}
}

// Prefooter loads the banner shown above the footer on most pages.
func (s *ContentService) Prefooter(ctx context.Context) content.Prefooter {
	fb := s.fallback.Home.Prefooter
	resp, err := fetch[cms.PrefooterResponse](ctx, s, cms.PrefooterQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.HomePrefooter == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("prefooter", err)
		return fb
	}

	raw := resp.Page.HomePrefooter
	link := ""
	if raw.CTALink != nil && len(raw.CTALink.Edges) > 0 {
		link = raw.CTALink.Edges[0].Node.URI
	}
	return content.Prefooter{
		Title:    or(raw.Title, fb.Title),
		Subtitle: or(raw.Subtitle, fb.Subtitle),
		CTA: content.CTA{
			Text:     or(raw.CTAText, fb.CTA.Text),
			Link:     or(link, fb.CTA.Link, "/contact"),
			Campaign: fb.CTA.Campaign,
		},
	}
}

// Chrome loads the header logo and footer.
func (s *ContentService) Chrome(ctx context.Context) content.Chrome {
	fb := s.fallback.Chrome
	resp, err := fetch[cms.ChromeResponse](ctx, s, cms.ChromeQuery, nil)
	if err == nil && resp.Page == nil {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("chrome", err)
		return fb
	}

	chrome := content.Chrome{}
	if h := resp.Page.HomeHeader; h != nil {
		chrome.Logo = image(h.Logo)
	}
	if f := resp.Page.HomeFooter; f != nil {
		chrome.FooterBackground = image(f.FooterBgImage)
		for _, line := range []string{f.FooterLine1, f.FooterLine2} {
			if line = strings.TrimSpace(line); line != "" {
				chrome.FooterLines = append(chrome.FooterLines, line)
			}
		}
		for _, icon := range f.FooterSocialIcons {
			if strings.TrimSpace(icon.IconURL) == "" {
				continue
			}
			chrome.Social = append(chrome.Social, content.SocialLink{URL: icon.IconURL, Icon: image(icon.IconSVG)})
		}
	}
	if chrome.Logo == nil {
		chrome.Logo = fb.Logo
	}
	if len(chrome.FooterLines) == 0 {
		chrome.FooterLines = fb.FooterLines
	}
	return chrome
}

// AboutPage loads the about page.
func (s *ContentService) AboutPage(ctx context.Context) *content.AboutPage {
	fb := s.fallback.About
	resp, err := fetch[cms.AboutPageResponse](ctx, s, cms.AboutPageQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.AboutData == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("about_page", err)
		return &fb
	}

	raw := resp.Page.AboutData
	return &content.AboutPage{
		Title: or(resp.Page.Title, fb.Title),
		About: content.About{
			Title:       or(raw.SectionTitle, fb.About.Title),
			Description: or(raw.Description, fb.About.Description),
			LinkText:    raw.LinkText,
			LinkURL:     raw.LinkURL,
			GeneralText: raw.GeneralText,
			BookingText: or(raw.CalendlyText, fb.About.BookingText),
			BookingURL:  raw.CalendlyURL,
			Image:       image(resp.Page.FeaturedImage),
		},
	}
}

// ServicesPage loads the services listing.
func (s *ContentService) ServicesPage(ctx context.Context) *content.ServicesPage {
	fb := s.fallback.Services
	resp, err := fetch[cms.ServicesPageResponse](ctx, s, cms.ServicesPageQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.ServicesServiceDetails == nil || len(resp.Page.ServicesServiceDetails.Services) == 0) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("services_page", err)
		return &fb
	}

	page := &content.ServicesPage{Title: or(resp.Page.Title, fb.Title)}
	for _, svc := range resp.Page.ServicesServiceDetails.Services {
		page.Services = append(page.Services, content.Service{
			Title:       svc.Title,
			Description: svc.Description,
			Anchor:      slugify(svc.Title),
			Icon:        image(svc.Icon),
			Image:       image(svc.Image),
		})
	}
	return page
}

// PackagesPage loads the packages listing.
func (s *ContentService) PackagesPage(ctx context.Context) *content.PackagesPage {
	fb := s.fallback.Packages
	if len(fb.Packages) == 0 {
		fb.Packages = s.fallback.Home.Packages
	}
	resp, err := fetch[cms.PackagesPageResponse](ctx, s, cms.PackagesPageQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.PackagesPackageFeatures == nil || len(resp.Page.PackagesPackageFeatures.PackagesElements) == 0) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("packages_page", err)
		return &fb
	}

	raw := resp.Page.PackagesPackageFeatures
	page := &content.PackagesPage{Intro: or(raw.PackagesText, fb.Intro)}
	for _, p := range raw.PackagesElements {
		page.Packages = append(page.Packages, content.Package{
			Name:        p.Name,
			Description: p.Description,
			Price:       string(p.Price),
			Popular:     p.PopularChoice,
			Features:    []string(p.Features),
			Icon:        image(p.Icon),
		})
	}
	return page
}

// ProjectsPage loads the intro copy and the project list.
func (s *ContentService) ProjectsPage(ctx context.Context) *content.ProjectsPage {
	fb := s.fallback.Projects
	page := &content.ProjectsPage{Intro: fb.Intro}

	intro, err := fetch[cms.ProjectsPageResponse](ctx, s, cms.ProjectsPageQuery, nil)
	if err == nil && intro.Page != nil && intro.Page.PageIntroText != nil {
		page.Intro = or(intro.Page.PageIntroText.PageIntroText, fb.Intro)
	} else if err != nil {
		s.degrade("projects_intro", err)
	}

	projects, err := s.projects(ctx)
	if err != nil {
		s.degrade("projects", err)
		page.Projects = fb.Projects
		return page
	}
	page.Projects = projects
	return page
}

func (s *ContentService) projects(ctx context.Context) ([]content.Project, error) {
	resp, err := fetch[cms.ProjectsResponse](ctx, s, cms.ProjectsQuery, map[string]any{"first": 100})
	if err != nil {
		return nil, err
	}
	if resp.Projects == nil || len(resp.Projects.Nodes) == 0 {
		return nil, errEmptySection
	}
	out := make([]content.Project, 0, len(resp.Projects.Nodes))
	for _, node := range resp.Projects.Nodes {
		out = append(out, projectFromNode(node))
	}
	return out, nil
}

// ProjectBySlug loads one project. It returns content.ErrNotFound when
// neither the CMS nor the fallback copy knows the slug.
func (s *ContentService) ProjectBySlug(ctx context.Context, slug string) (*content.Project, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, content.ErrNotFound
	}

	resp, err := fetch[cms.ProjectResponse](ctx, s, cms.ProjectBySlugQuery, map[string]any{"slug": slug})
	if err == nil {
		if resp.Project == nil {
			return nil, fmt.Errorf("project %s: %w", slug, content.ErrNotFound)
		}
		project := projectFromNode(*resp.Project)
		return &project, nil
	}

	s.degrade("project", err)
	if project, ok := s.fallback.Projects.FindProject(slug); ok {
		return &project, nil
	}
	return nil, fmt.Errorf("project %s: %w", slug, content.ErrNotFound)
}

// ProjectSlugs lists project slugs with their modification dates. Unlike
// the page loaders it returns CMS errors so callers can choose their own
// degradation.
func (s *ContentService) ProjectSlugs(ctx context.Context) ([]content.Project, error) {
	resp, err := fetch[cms.ProjectsResponse](ctx, s, cms.ProjectSlugsQuery, map[string]any{"first": 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list project slugs: %w", err)
	}
	if resp.Projects == nil {
		return nil, nil
	}
	out := make([]content.Project, 0, len(resp.Projects.Nodes))
	for _, node := range resp.Projects.Nodes {
		if node.Slug == "" {
			continue
		}
		out = append(out, content.Project{Slug: node.Slug, Title: node.Title, Modified: node.Modified})
	}
	return out, nil
}

// ContactPage loads the contact page copy.
func (s *ContentService) ContactPage(ctx context.Context) *content.ContactPage {
	fb := s.fallback.Contact
	resp, err := fetch[cms.ContactPageResponse](ctx, s, cms.ContactPageQuery, nil)
	if err == nil && (resp.Page == nil || resp.Page.ContactContactTexts == nil) {
		err = errEmptySection
	}
	if err != nil {
		s.degrade("contact_page", err)
		return &fb
	}

	raw := resp.Page.ContactContactTexts
	return &content.ContactPage{
		MainCopy: or(raw.MainCopy, fb.MainCopy),
		TagText:  or(raw.TagText, fb.TagText),
		BodyText: or(raw.BodyText, fb.BodyText),
		Image:    image(resp.Page.FeaturedImage),
	}
}

// Warm loads every cached document so visitors hit a warm cache.
func (s *ContentService) Warm(ctx context.Context) {
	s.HomePage(ctx)
	s.Chrome(ctx)
	s.AboutPage(ctx)
	s.ServicesPage(ctx)
	s.PackagesPage(ctx)
	s.ProjectsPage(ctx)
	s.ContactPage(ctx)
}

func projectFromNode(node cms.ProjectNode) content.Project {
	p := content.Project{
		Slug:        node.Slug,
		Title:       node.Title,
		Description: stripTags(node.Excerpt),
		Image:       image(node.FeaturedImage),
		Modified:    node.Modified,
	}
	if d := node.ProjectDetails; d != nil {
		p.TagText = d.TagText
		p.Client = d.Client
		p.Category = d.Category
		p.Year = string(d.Year)
		p.Duration = d.Duration
		p.Technologies = []string(d.Technologies)
		p.Challenges = []string(d.Challenges)
		p.Solutions = []string(d.Solutions)
		p.Results = []string(d.Results)
		if strings.TrimSpace(d.TestimonialQuote) != "" {
			p.Testimonial = &content.Testimonial{
				Quote:  d.TestimonialQuote,
				Author: d.TestimonialAuthor,
				Role:   d.TestimonialRole,
			}
		}
	}
	return p
}

func image(ref media.Ref) *media.Object {
	obj, ok := media.Normalize(ref)
	if !ok {
		return nil
	}
	return obj
}

func or(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// stripTags removes the markup WordPress wraps excerpts in.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
