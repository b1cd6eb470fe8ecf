package services

import (
	"context"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProjects struct {
	projects []content.Project
	err      error
}

func (s stubProjects) ProjectSlugs(ctx context.Context) ([]content.Project, error) {
	return s.projects, s.err
}

func parseSitemap(t *testing.T, data []byte) urlSet {
	t.Helper()
	var set urlSet
	require.NoError(t, xml.Unmarshal(data, &set))
	return set
}

func TestSitemapService_IncludesProjects(t *testing.T) {
	svc := NewSitemapService(stubProjects{projects: []content.Project{
		{Slug: "drone-ami-landing", Modified: "2024-05-01T10:00:00"},
		{Slug: "zaida"},
	}}, "https://www.example.com/", logging.NewNopLogger())
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	data, err := svc.Sitemap(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), `<?xml version="1.0" encoding="UTF-8"?>`)

	set := parseSitemap(t, data)
	require.Len(t, set.URLs, 7)
	assert.Equal(t, "https://www.example.com/", set.URLs[0].Loc)
	assert.Equal(t, "https://www.example.com/about-magneto", set.URLs[1].Loc)
	assert.Equal(t, "https://www.example.com/projects/drone-ami-landing", set.URLs[5].Loc)
	assert.Equal(t, "2024-05-01T10:00:00", set.URLs[5].LastMod)
	assert.Equal(t, "2025-01-02T03:04:05Z", set.URLs[6].LastMod)
}

func TestSitemapService_StaticOnlyOnFailure(t *testing.T) {
	svc := NewSitemapService(stubProjects{err: errors.New("cms down")}, "https://www.example.com", logging.NewNopLogger())

	data, err := svc.Sitemap(context.Background())
	require.NoError(t, err)
	assert.Len(t, parseSitemap(t, data).URLs, len(StaticPaths))
}

func TestSitemapService_Robots(t *testing.T) {
	svc := NewSitemapService(stubProjects{}, "https://www.example.com/", logging.NewNopLogger())
	assert.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://www.example.com/sitemap.xml", svc.Robots())
	assert.Equal(t, "https://www.example.com/services", svc.Canonical("/services"))
}
