// Package media resizes and re-encodes CMS images for the /_img endpoint.
package media

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

const maxSourceBytes = 25 << 20

// widthBuckets bound how many renditions one source can produce.
var widthBuckets = []int{160, 320, 480, 640, 768, 960, 1200, 1600, 2048, 2560}

// ErrSourceUnavailable means the original image could not be fetched.
var ErrSourceUnavailable = errors.New("source image unavailable")

// Format is an output encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/jpeg"
}

// Rendition is a resized image on disk.
type Rendition struct {
	Path        string
	ContentType string
	Width       int
	Cached      bool
}

// ImageProcessor fetches, resizes and caches images.
type ImageProcessor struct {
	cacheDir string
	maxWidth int
	quality  int
	http     *resty.Client
	logger   *logging.ChanneledLogger
	group    singleflight.Group
}

// NewImageProcessor creates a processor writing renditions under cacheDir.
func NewImageProcessor(cacheDir string, maxWidth, quality int, timeout time.Duration, logger *logging.ChanneledLogger) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = 82
	}
	return &ImageProcessor{
		cacheDir: cacheDir,
		maxWidth: maxWidth,
		quality:  quality,
		http:     resty.New().SetTimeout(timeout),
		logger:   logger,
	}
}

// BucketWidth snaps a requested width up to the next bucket, capped by max.
func BucketWidth(requested, max int) int {
	if requested <= 0 {
		requested = widthBuckets[len(widthBuckets)-1]
	}
	i := sort.SearchInts(widthBuckets, requested)
	w := widthBuckets[len(widthBuckets)-1]
	if i < len(widthBuckets) {
		w = widthBuckets[i]
	}
	if max > 0 && w > max {
		w = max
	}
	return w
}

// Optimize returns a rendition of src at most width pixels wide. Images
// are never upscaled.
func (p *ImageProcessor) Optimize(ctx context.Context, src *url.URL, width int, format Format) (*Rendition, error) {
	width = BucketWidth(width, p.maxWidth)
	path := p.cachePath(src.String(), width, format)

	if _, err := os.Stat(path); err == nil {
		return &Rendition{Path: path, ContentType: format.ContentType(), Width: width, Cached: true}, nil
	}

	v, err, _ := p.group.Do(path, func() (any, error) {
		return p.render(ctx, src, width, format, path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Rendition), nil
}

func (p *ImageProcessor) render(ctx context.Context, src *url.URL, width int, format Format, path string) (*Rendition, error) {
	start := time.Now()

	resp, err := p.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(src.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	body := resp.RawBody()
	if body == nil {
		return nil, ErrSourceUnavailable
	}
	defer body.Close()
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode())
	}

	img, err := imaging.Decode(io.LimitReader(body, maxSourceBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := p.write(path, img, format); err != nil {
		return nil, err
	}

	p.logger.Proxy().Info("Image rendition created",
		"source", src.String(), "width", img.Bounds().Dx(), "format", format, "duration", time.Since(start))
	return &Rendition{Path: path, ContentType: format.ContentType(), Width: img.Bounds().Dx()}, nil
}

// write encodes into a temp file and renames it so readers never see a
// partial rendition.
func (p *ImageProcessor) write(path string, img image.Image, format Format) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rendition-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	switch format {
	case FormatWebP:
		err = webp.Encode(tmp, img, &webp.Options{Quality: float32(p.quality)})
	default:
		err = imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(p.quality))
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return os.Rename(tmp.Name(), path)
}

func (p *ImageProcessor) cachePath(src string, width int, format Format) string {
	sum := blake2b.Sum256([]byte(src + "|" + strconv.Itoa(width) + "|" + string(format)))
	name := hex.EncodeToString(sum[:16])
	ext := "jpg"
	if format == FormatWebP {
		ext = "webp"
	}
	return filepath.Join(p.cacheDir, name[:2], name+"."+ext)
}

// OptimizedURL is the /_img address of src at width.
func OptimizedURL(src string, width int) string {
	return "/_img?url=" + url.QueryEscape(src) + "&w=" + strconv.Itoa(width)
}
