package services

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
)

// StaticPaths are listed in the sitemap regardless of CMS state.
var StaticPaths = []string{"/", "/about-magneto", "/services", "/projects", "/contact"}

// ProjectLister lists project slugs for the sitemap.
type ProjectLister interface {
	ProjectSlugs(ctx context.Context) ([]content.Project, error)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapService renders sitemap.xml and robots.txt.
type SitemapService struct {
	projects ProjectLister
	siteURL  string
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewSitemapService creates a sitemap service for siteURL.
func NewSitemapService(projects ProjectLister, siteURL string, logger *logging.ChanneledLogger) *SitemapService {
	return &SitemapService{
		projects: projects,
		siteURL:  strings.TrimRight(siteURL, "/"),
		logger:   logger,
		now:      time.Now,
	}
}

// Canonical builds an absolute URL for path.
func (s *SitemapService) Canonical(path string) string {
	base, err := url.Parse(s.siteURL + "/")
	if err != nil {
		return s.siteURL
	}
	ref, err := url.Parse(path)
	if err != nil {
		return s.siteURL
	}
	return base.ResolveReference(ref).String()
}

// Sitemap lists the static paths plus every project. When the project
// list cannot be loaded only the static paths are listed.
func (s *SitemapService) Sitemap(ctx context.Context) ([]byte, error) {
	now := s.now().UTC().Format(time.RFC3339)
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range StaticPaths {
		set.URLs = append(set.URLs, sitemapURL{Loc: s.Canonical(p), LastMod: now})
	}

	projects, err := s.projects.ProjectSlugs(ctx)
	if err != nil {
		s.logger.Content().Warn("Sitemap built without projects", "error", err.Error())
	}
	for _, p := range projects {
		lastMod := p.Modified
		if lastMod == "" {
			lastMod = now
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: s.Canonical("/projects/" + url.PathEscape(p.Slug)), LastMod: lastMod})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots returns robots.txt pointing at the sitemap.
func (s *SitemapService) Robots() string {
	return strings.Join([]string{
		"User-agent: *",
		"Allow: /",
		"Sitemap: " + s.siteURL + "/sitemap.xml",
	}, "\n")
}
