package templates

import (
	"strconv"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
	imgproxy "github.com/magnetomarketing/magneto-web/internal/infrastructure/media"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// ImageOptions tunes a single rendered image.
type ImageOptions struct {
	Alt    string
	Class  string
	Width  int
	Height int
	// Device picks the selection target used for the plain src attribute.
	Device media.DeviceClass
	Eager  bool
}

// Image renders obj as a responsive <img>. The srcset comes from the CMS
// renditions; src is the best rendition for the target device.
func (s *Site) Image(obj *media.Object, opts ImageOptions) g.Node {
	if obj.IsEmpty() {
		return nil
	}
	r := s.resolver()

	device := opts.Device
	if device == "" {
		device = media.DeviceDesktop
	}
	src := media.NormalizeURL(obj.CanonicalURL)
	srcWidth := obj.Width
	if best, ok := r.SelectBestVariant(obj, media.TargetFor(device, opts.Width, 1)); ok {
		src, srcWidth = best.SourceURL, best.Width
	}
	src = s.optimized(src, srcWidth)

	alt := opts.Alt
	if alt == "" {
		alt = obj.AltText
	}
	width, height := opts.Width, opts.Height
	if width == 0 && height == 0 {
		width, height = obj.Width, obj.Height
	}

	srcset, hasSrcSet := r.BuildSrcSetAndSizes(obj)
	return Img(
		Src(src),
		Alt(alt),
		g.If(opts.Class != "", Class(opts.Class)),
		g.If(width > 0, Width(strconv.Itoa(width))),
		g.If(height > 0, Height(strconv.Itoa(height))),
		g.If(hasSrcSet, g.Attr("srcset", srcset.Descriptor)),
		g.If(hasSrcSet, g.Attr("sizes", srcset.Sizes)),
		g.If(opts.Eager, g.Attr("fetchpriority", "high")),
		g.If(!opts.Eager, g.Attr("loading", "lazy")),
		g.Attr("decoding", "async"),
	)
}

// Picture renders obj with one <source> per device class, used for
// full-bleed backgrounds that are never measured.
func (s *Site) Picture(obj *media.Object, class string) g.Node {
	if obj.IsEmpty() {
		return nil
	}
	sources := s.resolver().DeriveSources(obj)
	return Picture(
		g.If(class != "", Class(class)),
		Source(g.Attr("media", "(max-width: 600px)"), g.Attr("srcset", s.optimized(sources.Mobile, 600))),
		Source(g.Attr("media", "(max-width: 1024px)"), g.Attr("srcset", s.optimized(sources.Tablet, 1024))),
		Img(Src(s.optimized(sources.Desktop, 0)), Alt(obj.AltText), g.Attr("loading", "lazy"), g.Attr("decoding", "async")),
	)
}

// optimized routes remote images through the /_img endpoint when the
// optimizer is on. Local assets are served as-is.
func (s *Site) optimized(src string, width int) string {
	if !s.ImageOptimizer || !(strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://")) {
		return src
	}
	return imgproxy.OptimizedURL(src, width)
}
