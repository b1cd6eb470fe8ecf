package media

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Resolver thresholds were tuned against one WordPress instance and are
// deliberately exposed rather than hard-coded.
const (
	DefaultThumbnailCeiling      = 300
	DefaultTinyCeiling           = 100
	DefaultAssumedCanonicalWidth = 1200
)

// generatedSizePattern matches a WordPress derived filename such as
// "photo-1024x768.jpg". Query strings are stripped before matching.
var generatedSizePattern = regexp.MustCompile(`-\d+x\d+\.[A-Za-z0-9]+$`)

// Resolver selects image renditions. The zero value is not usable; build one
// with DefaultResolver or NewResolver.
type Resolver struct {
	// ThumbnailCeiling is the largest candidate width that still counts as a
	// thumbnails-only dataset.
	ThumbnailCeiling int
	// TinyCeiling is the width at or below which a selection is treated as an
	// accidental thumbnail pick.
	TinyCeiling int
	// AssumedCanonicalWidth is used for the canonical upload when the CMS
	// does not report its width.
	AssumedCanonicalWidth int
	// GeneratedSize recognises derived filenames that may not exist on disk.
	GeneratedSize *regexp.Regexp
}

// DefaultResolver returns a resolver with the stock thresholds.
func DefaultResolver() *Resolver {
	return &Resolver{
		ThumbnailCeiling:      DefaultThumbnailCeiling,
		TinyCeiling:           DefaultTinyCeiling,
		AssumedCanonicalWidth: DefaultAssumedCanonicalWidth,
		GeneratedSize:         generatedSizePattern,
	}
}

// NewResolver builds a resolver, replacing non-positive values with defaults.
func NewResolver(thumbnailCeiling, tinyCeiling, assumedCanonicalWidth int) *Resolver {
	r := DefaultResolver()
	if thumbnailCeiling > 0 {
		r.ThumbnailCeiling = thumbnailCeiling
	}
	if tinyCeiling > 0 {
		r.TinyCeiling = tinyCeiling
	}
	if assumedCanonicalWidth > 0 {
		r.AssumedCanonicalWidth = assumedCanonicalWidth
	}
	return r
}

var defaultResolver = DefaultResolver()

// SelectBestVariant picks a rendition using the default thresholds.
func SelectBestVariant(obj *Object, target Target) (SizeVariant, bool) {
	return defaultResolver.SelectBestVariant(obj, target)
}

// BuildSrcSetAndSizes builds srcset/sizes using the default thresholds.
func BuildSrcSetAndSizes(obj *Object) (SrcSet, bool) {
	return defaultResolver.BuildSrcSetAndSizes(obj)
}

// DeriveSources picks per-device URLs using the default thresholds.
func DeriveSources(obj *Object) Sources {
	return defaultResolver.DeriveSources(obj)
}

// NormalizeURL upgrades protocol-relative URLs and trims whitespace.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// Candidates returns the usable variants of obj, de-duplicated by URL with
// the widest report winning, sorted by ascending width.
func (r *Resolver) Candidates(obj *Object) []SizeVariant {
	if obj == nil {
		return nil
	}

	byURL := make(map[string]int, len(obj.Variants))
	out := make([]SizeVariant, 0, len(obj.Variants))
	for _, v := range obj.Variants {
		if !v.Usable() {
			continue
		}
		v.SourceURL = NormalizeURL(v.SourceURL)
		if idx, seen := byURL[v.SourceURL]; seen {
			if v.Width > out[idx].Width {
				out[idx] = v
			}
			continue
		}
		byURL[v.SourceURL] = len(out)
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Width < out[j].Width })
	return out
}

// augmented adds the canonical upload to a thumbnails-only candidate list.
func (r *Resolver) augmented(obj *Object, candidates []SizeVariant) []SizeVariant {
	canonical := NormalizeURL(obj.CanonicalURL)
	if canonical == "" {
		return candidates
	}
	if len(candidates) > 0 && candidates[len(candidates)-1].Width > r.ThumbnailCeiling {
		return candidates
	}
	for _, c := range candidates {
		if c.SourceURL == canonical {
			return candidates
		}
	}

	width := obj.Width
	if width <= 0 {
		width = r.AssumedCanonicalWidth
	}
	out := append(append([]SizeVariant(nil), candidates...), SizeVariant{
		Name:      "full",
		SourceURL: canonical,
		Width:     width,
		Height:    obj.Height,
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Width < out[j].Width })
	return out
}

// SelectBestVariant returns the rendition best suited to target, or false
// when obj has nothing renderable. It never panics.
func (r *Resolver) SelectBestVariant(obj *Object, target Target) (SizeVariant, bool) {
	if obj == nil {
		return SizeVariant{}, false
	}

	candidates := r.augmented(obj, r.Candidates(obj))
	if len(candidates) == 0 {
		return SizeVariant{}, false
	}

	needed := neededWidth(target)
	largest := candidates[len(candidates)-1]

	chosen := largest
	for _, c := range candidates {
		if c.Width >= needed {
			chosen = c
			break
		}
	}

	if chosen.Width > 0 && chosen.Width <= r.TinyCeiling && len(candidates) > 1 {
		chosen = largest
	}

	canonical := NormalizeURL(obj.CanonicalURL)
	if canonical != "" && canonical != chosen.SourceURL && r.isGeneratedSize(chosen.SourceURL) {
		sub := SizeVariant{Name: "full", SourceURL: canonical, Width: obj.Width, Height: obj.Height}
		if sub.Width <= 0 {
			sub.Width = chosen.Width
		}
		if sub.Height <= 0 {
			sub.Height = chosen.Height
		}
		chosen = sub
	}

	if chosen.SourceURL == "" {
		return SizeVariant{}, false
	}
	return chosen, true
}

// BuildSrcSetAndSizes renders the srcset descriptor list and the fixed sizes
// expression. Only reported renditions are listed; the canonical upload has
// no trustworthy width descriptor. It returns false when obj has no usable
// variants.
func (r *Resolver) BuildSrcSetAndSizes(obj *Object) (SrcSet, bool) {
	candidates := r.Candidates(obj)
	if len(candidates) == 0 {
		return SrcSet{}, false
	}

	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, fmt.Sprintf("%s %dw", c.SourceURL, c.Width))
	}
	return SrcSet{Descriptor: strings.Join(parts, ", "), Sizes: SizesAttribute}, true
}

// DeriveSources picks one URL per device class from the reported
// renditions, falling back to the canonical upload for any class without
// one. Desktop is the largest rendition even when it is a thumbnail.
func (r *Resolver) DeriveSources(obj *Object) Sources {
	if obj == nil {
		return Sources{}
	}
	candidates := r.Candidates(obj)
	canonical := NormalizeURL(obj.CanonicalURL)

	var s Sources
	for _, c := range candidates {
		if s.Mobile == "" && c.Width <= mobileBreakpoint {
			s.Mobile = c.SourceURL
		}
		if s.Tablet == "" && c.Width > mobileBreakpoint && c.Width <= tabletBreakpoint {
			s.Tablet = c.SourceURL
		}
	}
	if len(candidates) > 0 {
		s.Desktop = candidates[len(candidates)-1].SourceURL
	}

	if s.Mobile == "" {
		s.Mobile = canonical
	}
	if s.Tablet == "" {
		s.Tablet = canonical
	}
	if s.Desktop == "" {
		s.Desktop = canonical
	}
	return s
}

func (r *Resolver) isGeneratedSize(rawURL string) bool {
	pattern := r.GeneratedSize
	if pattern == nil {
		pattern = generatedSizePattern
	}
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return pattern.MatchString(path)
}

func neededWidth(t Target) int {
	dpr := t.DPR
	if math.IsNaN(dpr) || dpr < 1 {
		dpr = 1
	}
	width := t.WidthPx
	if width < 0 {
		width = 0
	}
	needed := math.Round(float64(width) * dpr)
	if math.IsInf(needed, 0) || needed > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(needed)
}
