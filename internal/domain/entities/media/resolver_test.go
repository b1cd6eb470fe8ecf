package media

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBestVariant_NilObject(t *testing.T) {
	v, ok := SelectBestVariant(nil, Target{WidthPx: 1200, DPR: 1})
	assert.False(t, ok)
	assert.Empty(t, v.SourceURL)
}

func TestSelectBestVariant_NoSources(t *testing.T) {
	obj := &Object{Variants: []SizeVariant{{SourceURL: "", Width: 300}, {SourceURL: "https://cms/a.jpg"}}}
	_, ok := SelectBestVariant(obj, Target{WidthPx: 360, DPR: 1})
	assert.False(t, ok)
}

func TestSelectBestVariant_ThumbnailOnlyUsesCanonical(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/x.jpg",
		Variants:     []SizeVariant{{SourceURL: "https://cms/x-150x150.jpg", Width: 150}},
	}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 1200, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/x.jpg", v.SourceURL)
	assert.Equal(t, DefaultAssumedCanonicalWidth, v.Width)
}

func TestSelectBestVariant_ThumbnailOnlyUsesReportedDimensions(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/x.jpg",
		Width:        2400,
		Height:       1600,
		Variants: []SizeVariant{
			{SourceURL: "https://cms/thumb-a.jpg", Width: 150},
			{SourceURL: "https://cms/thumb-b.jpg", Width: 300},
		},
	}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 768, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/x.jpg", v.SourceURL)
	assert.Equal(t, 2400, v.Width)
	assert.Equal(t, 1600, v.Height)
}

func TestSelectBestVariant_GeneratedFilenameFallsBackToCanonical(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/full.jpg",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/full-300x300.jpg", Width: 300},
			{SourceURL: "https://cms/full-1024x1024.jpg", Width: 1024, Height: 1024},
		},
	}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 500, DPR: 2})
	require.True(t, ok)
	assert.Equal(t, "https://cms/full.jpg", v.SourceURL)
	assert.Equal(t, 1024, v.Width, "falls back to the chosen width when the CMS omits top-level dimensions")
}

func TestSelectBestVariant_PlainFilenameKept(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/full.jpg",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/full-small.jpg", Width: 300},
			{SourceURL: "https://cms/full-large.jpg", Width: 1024},
			{SourceURL: "https://cms/full-huge.jpg", Width: 2048},
		},
	}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 500, DPR: 2})
	require.True(t, ok)
	assert.Equal(t, "https://cms/full-large.jpg", v.SourceURL)
	assert.GreaterOrEqual(t, v.Width, 1000)
}

func TestSelectBestVariant_GeneratedFilenameWithQueryString(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/full.png",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/full-768x512.png?ver=2", Width: 768},
			{SourceURL: "https://cms/full-1536x1024.png?ver=2", Width: 1536},
		},
	}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 700, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/full.png", v.SourceURL)
}

func TestSelectBestVariant_NoLargeEnoughPicksLargest(t *testing.T) {
	obj := &Object{
		Variants: []SizeVariant{
			{SourceURL: "https://cms/a.jpg", Width: 480},
			{SourceURL: "https://cms/b.jpg", Width: 800},
		},
	}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 1200, DPR: 2})
	require.True(t, ok)
	assert.Equal(t, "https://cms/b.jpg", v.SourceURL)
}

func TestSelectBestVariant_TinySelectionCorrected(t *testing.T) {
	obj := &Object{
		Variants: []SizeVariant{
			{SourceURL: "https://cms/icon.jpg", Width: 80},
			{SourceURL: "https://cms/medium.jpg", Width: 640},
			{SourceURL: "https://cms/large.jpg", Width: 1400},
		},
	}

	// A container measured at zero width during mount.
	v, ok := SelectBestVariant(obj, Target{WidthPx: 0, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/large.jpg", v.SourceURL)
	assert.Equal(t, 1400, v.Width)
}

func TestSelectBestVariant_TinySingleCandidateKept(t *testing.T) {
	obj := &Object{Variants: []SizeVariant{{SourceURL: "https://cms/icon.jpg", Width: 64}}}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 360, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/icon.jpg", v.SourceURL)
}

func TestSelectBestVariant_DuplicatesKeepWidest(t *testing.T) {
	obj := &Object{
		Variants: []SizeVariant{
			{SourceURL: "https://cms/a.jpg", Width: 400},
			{SourceURL: "https://cms/a.jpg", Width: 900},
			{SourceURL: "https://cms/b.jpg", Width: 700},
		},
	}

	candidates := DefaultResolver().Candidates(obj)
	require.Len(t, candidates, 2)
	assert.Equal(t, "https://cms/b.jpg", candidates[0].SourceURL)
	assert.Equal(t, "https://cms/a.jpg", candidates[1].SourceURL)
	assert.Equal(t, 900, candidates[1].Width)
}

func TestSelectBestVariant_ProtocolRelativeURLs(t *testing.T) {
	obj := &Object{Variants: []SizeVariant{{SourceURL: "//cms.example.com/a.jpg", Width: 800}}}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 360, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms.example.com/a.jpg", v.SourceURL)
}

func TestSelectBestVariant_CanonicalOnly(t *testing.T) {
	obj := &Object{CanonicalURL: "https://cms/only.jpg"}

	v, ok := SelectBestVariant(obj, Target{WidthPx: 360, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/only.jpg", v.SourceURL)
}

func TestSelectBestVariant_SatisfiesNeededWidth(t *testing.T) {
	obj := &Object{
		Variants: []SizeVariant{
			{SourceURL: "https://cms/s.jpg", Width: 320},
			{SourceURL: "https://cms/m.jpg", Width: 768},
			{SourceURL: "https://cms/l.jpg", Width: 1536},
			{SourceURL: "https://cms/xl.jpg", Width: 2560},
		},
	}

	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{"mobile 1x", Target{WidthPx: 360, DPR: 1}, "https://cms/m.jpg"},
		{"mobile 3x", Target{WidthPx: 360, DPR: 3}, "https://cms/l.jpg"},
		{"tablet 2x", Target{WidthPx: 768, DPR: 2}, "https://cms/l.jpg"},
		{"desktop 2x", Target{WidthPx: 1200, DPR: 2}, "https://cms/xl.jpg"},
		{"dpr below one clamps", Target{WidthPx: 768, DPR: 0.5}, "https://cms/m.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := SelectBestVariant(obj, tt.target)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.SourceURL)
			assert.GreaterOrEqual(t, v.Width, neededWidth(tt.target))
		})
	}
}

func TestNewResolver_CustomThresholds(t *testing.T) {
	r := NewResolver(500, 0, 1600)
	obj := &Object{
		CanonicalURL: "https://cms/x.jpg",
		Variants:     []SizeVariant{{SourceURL: "https://cms/x-small.jpg", Width: 450}},
	}

	v, ok := r.SelectBestVariant(obj, Target{WidthPx: 1200, DPR: 1})
	require.True(t, ok)
	assert.Equal(t, "https://cms/x.jpg", v.SourceURL)
	assert.Equal(t, 1600, v.Width)
	assert.Equal(t, DefaultTinyCeiling, r.TinyCeiling)
}

func TestBuildSrcSetAndSizes(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/full.jpg",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/b.jpg", Width: 1024},
			{SourceURL: "https://cms/a.jpg", Width: 300},
			{SourceURL: "https://cms/a.jpg", Width: 200},
		},
	}

	set, ok := BuildSrcSetAndSizes(obj)
	require.True(t, ok)
	assert.Equal(t, "https://cms/a.jpg 300w, https://cms/b.jpg 1024w", set.Descriptor)
	assert.Equal(t, "(max-width: 600px) 100vw, (max-width: 1024px) 80vw, 1024px", set.Sizes)
}

func TestBuildSrcSetAndSizes_Empty(t *testing.T) {
	_, ok := BuildSrcSetAndSizes(&Object{CanonicalURL: "https://cms/full.jpg"})
	assert.False(t, ok)

	_, ok = BuildSrcSetAndSizes(nil)
	assert.False(t, ok)
}

func TestBuildSrcSetAndSizes_ThumbnailsOnlyListsReportedWidths(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/full.jpg",
		Variants:     []SizeVariant{{SourceURL: "https://cms/full-150x150.jpg", Width: 150}},
	}

	set, ok := BuildSrcSetAndSizes(obj)
	require.True(t, ok)
	assert.Equal(t, "https://cms/full-150x150.jpg 150w", set.Descriptor)
	assert.NotContains(t, set.Descriptor, "1200w")
}

func TestSelectBestVariant_HugeDPRPicksLargest(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/c.jpg",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/a.jpg", Width: 400},
			{SourceURL: "https://cms/b.jpg", Width: 2000},
		},
	}

	for _, dpr := range []float64{1e300, math.Inf(1)} {
		chosen, ok := SelectBestVariant(obj, Target{WidthPx: 1200, DPR: dpr})
		require.True(t, ok)
		assert.Equal(t, "https://cms/b.jpg", chosen.SourceURL)
		assert.Equal(t, 2000, chosen.Width)
	}
	assert.Equal(t, math.MaxInt32, neededWidth(Target{WidthPx: 1200, DPR: 1e300}))
}

func TestDeriveSources(t *testing.T) {
	obj := &Object{
		CanonicalURL: "https://cms/full.jpg",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/s.jpg", Width: 480},
			{SourceURL: "https://cms/m.jpg", Width: 900},
			{SourceURL: "https://cms/l.jpg", Width: 1800},
		},
	}

	s := DeriveSources(obj)
	assert.Equal(t, "https://cms/s.jpg", s.Mobile)
	assert.Equal(t, "https://cms/m.jpg", s.Tablet)
	assert.Equal(t, "https://cms/l.jpg", s.Desktop)

	s = DeriveSources(&Object{
		CanonicalURL: "https://cms/full.jpg",
		Variants: []SizeVariant{
			{SourceURL: "https://cms/full-100x100.jpg", Width: 100},
			{SourceURL: "https://cms/full-300x300.jpg", Width: 300},
		},
	})
	assert.Equal(t, "https://cms/full-100x100.jpg", s.Mobile)
	assert.Equal(t, "https://cms/full.jpg", s.Tablet)
	assert.Equal(t, "https://cms/full-300x300.jpg", s.Desktop)

	s = DeriveSources(&Object{CanonicalURL: "https://cms/full.jpg"})
	assert.Equal(t, Sources{Mobile: "https://cms/full.jpg", Tablet: "https://cms/full.jpg", Desktop: "https://cms/full.jpg"}, s)
}

func TestDeviceClassForWidth(t *testing.T) {
	assert.Equal(t, DeviceMobile, DeviceClassForWidth(375))
	assert.Equal(t, DeviceTablet, DeviceClassForWidth(600))
	assert.Equal(t, DeviceTablet, DeviceClassForWidth(1024))
	assert.Equal(t, DeviceDesktop, DeviceClassForWidth(1025))

	assert.Equal(t, Target{WidthPx: 768, DPR: 1}, TargetFor(DeviceTablet, 0, 1))
	assert.Equal(t, Target{WidthPx: 420, DPR: 2}, TargetFor(DeviceMobile, 420, 2))
}
