// Package media defines CMS image references and the rules for choosing
// which rendition of an image to put in front of a visitor.
package media

import "strings"

// SizeVariant is one generated rendition of an uploaded image.
type SizeVariant struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	SourceURL string `json:"sourceUrl" yaml:"sourceUrl"`
	Width     int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Usable reports whether the variant can take part in selection.
func (v SizeVariant) Usable() bool {
	return strings.TrimSpace(v.SourceURL) != "" && v.Width > 0
}

// Object is an image reference as delivered by the CMS. Width and Height are
// the top-level dimensions the CMS reports for the canonical upload and are
// zero when unknown.
type Object struct {
	CanonicalURL string        `json:"canonicalUrl" yaml:"canonicalUrl"`
	AltText      string        `json:"altText,omitempty" yaml:"altText,omitempty"`
	Width        int           `json:"width,omitempty" yaml:"width,omitempty"`
	Height       int           `json:"height,omitempty" yaml:"height,omitempty"`
	Variants     []SizeVariant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// IsEmpty reports whether the object carries no usable source at all.
func (o *Object) IsEmpty() bool {
	if o == nil {
		return true
	}
	if strings.TrimSpace(o.CanonicalURL) != "" {
		return false
	}
	for _, v := range o.Variants {
		if strings.TrimSpace(v.SourceURL) != "" {
			return false
		}
	}
	return true
}

// DeviceClass buckets a viewport width into the three layouts the site
// designs for.
type DeviceClass string

const (
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceDesktop DeviceClass = "desktop"
)

const (
	mobileBreakpoint = 600
	tabletBreakpoint = 1024
)

// DeviceClassForWidth maps a viewport width in CSS pixels to a device class.
func DeviceClassForWidth(width int) DeviceClass {
	switch {
	case width < mobileBreakpoint:
		return DeviceMobile
	case width <= tabletBreakpoint:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// DefaultWidth is the rendering width assumed before a container is measured.
func (d DeviceClass) DefaultWidth() int {
	switch d {
	case DeviceMobile:
		return 360
	case DeviceTablet:
		return 768
	default:
		return 1200
	}
}

// Target is the rendering context driving variant selection.
type Target struct {
	WidthPx int
	DPR     float64
}

// TargetFor builds a selection target from a measured container width,
// falling back to the device class default when nothing was measured.
func TargetFor(class DeviceClass, measuredWidth int, dpr float64) Target {
	width := measuredWidth
	if width <= 0 {
		width = class.DefaultWidth()
	}
	return Target{WidthPx: width, DPR: dpr}
}

// SrcSet is the pair of attributes a responsive <img> needs.
type SrcSet struct {
	Descriptor string
	Sizes      string
}

// SizesAttribute is the fixed three-breakpoint sizes expression used by
// every responsive image on the site.
const SizesAttribute = "(max-width: 600px) 100vw, (max-width: 1024px) 80vw, 1024px"

// Sources holds one URL per device class for <picture> elements rendered
// before any measurement is available.
type Sources struct {
	Mobile  string
	Tablet  string
	Desktop string
}
