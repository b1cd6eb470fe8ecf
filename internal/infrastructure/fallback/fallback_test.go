package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCopy(t *testing.T) {
	site, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Stop losing leads. Start converting.", site.Home.FinalCTA.Title)
	assert.Equal(t, "Not ready to book a call?", site.Home.LeadMagnet.OverTitle)
	assert.Len(t, site.Home.Packages, 3)
	assert.True(t, site.Home.Packages[1].Popular)

	project, ok := site.Projects.FindProject("shamanicca-ecommerce")
	require.True(t, ok)
	assert.Equal(t, 800, project.Image.Width)
	assert.Equal(t, "Luna Shamanicca", project.Testimonial.Author)
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("home:\n  hero:\n    title: Override\n"), 0o644))

	site, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Override", site.Home.Hero.Title)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("home: [unterminated"))
	assert.Error(t, err)
}
