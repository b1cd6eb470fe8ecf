package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngServer(t *testing.T, w, h int, hits *int32) *httptest.Server {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.URL.Path == "/missing.png" {
			http.NotFound(rw, r)
			return
		}
		rw.Header().Set("Content-Type", "image/png")
		_, _ = rw.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBucketWidth(t *testing.T) {
	assert.Equal(t, 160, BucketWidth(1, 0))
	assert.Equal(t, 768, BucketWidth(700, 0))
	assert.Equal(t, 768, BucketWidth(768, 0))
	assert.Equal(t, 2560, BucketWidth(9000, 0))
	assert.Equal(t, 1200, BucketWidth(1500, 1200))
	assert.Equal(t, 2560, BucketWidth(0, 0))
}

func TestOptimize_ResizesAndCaches(t *testing.T) {
	var hits int32
	srv := pngServer(t, 1000, 500, &hits)
	p := NewImageProcessor(t.TempDir(), 2560, 80, 2*time.Second, logging.NewNopLogger())
	src, _ := url.Parse(srv.URL + "/hero.png")

	r, err := p.Optimize(context.Background(), src, 600, FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, 640, r.Width)
	assert.Equal(t, "image/jpeg", r.ContentType)
	assert.False(t, r.Cached)

	img, err := imaging.Open(r.Path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(640, 320), img.Bounds().Size())

	again, err := p.Optimize(context.Background(), src, 620, FormatJPEG)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestOptimize_NeverUpscales(t *testing.T) {
	srv := pngServer(t, 200, 100, nil)
	p := NewImageProcessor(t.TempDir(), 2560, 80, 2*time.Second, logging.NewNopLogger())
	src, _ := url.Parse(srv.URL + "/small.png")

	r, err := p.Optimize(context.Background(), src, 1200, FormatWebP)
	require.NoError(t, err)
	assert.Equal(t, 200, r.Width)
	assert.Equal(t, "image/webp", r.ContentType)
}

func TestOptimize_MissingSource(t *testing.T) {
	srv := pngServer(t, 10, 10, nil)
	p := NewImageProcessor(t.TempDir(), 2560, 80, 2*time.Second, logging.NewNopLogger())
	src, _ := url.Parse(srv.URL + "/missing.png")

	_, err := p.Optimize(context.Background(), src, 320, FormatJPEG)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestOptimizedURL(t *testing.T) {
	assert.Equal(t, "/_img?url=https%3A%2F%2Fcms.example.com%2Fa.jpg&w=768", OptimizedURL("https://cms.example.com/a.jpg", 768))
}
