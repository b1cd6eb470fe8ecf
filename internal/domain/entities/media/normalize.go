package media

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RefKind tags the shape an image reference arrived in. The zero value is
// RefNone so a field absent from the document reads as "no image".
type RefKind int

const (
	RefNone RefKind = iota
	RefUnknown
	RefURL
	RefEdge
	RefItem
)

func (k RefKind) String() string {
	switch k {
	case RefNone:
		return "none"
	case RefURL:
		return "url"
	case RefEdge:
		return "edge"
	case RefItem:
		return "item"
	default:
		return "unknown"
	}
}

// Ref is the tagged union of every image shape the CMS has been seen to
// return: null, a bare URL string, a {"node": {...}} connection edge, or a
// media item object. Item is set for RefEdge and RefItem.
type Ref struct {
	Kind RefKind
	URL  string
	Item *Item
}

// Item mirrors a WPGraphQL MediaItem.
type Item struct {
	SourceURL    string        `json:"sourceUrl"`
	AltText      string        `json:"altText"`
	MediaDetails *MediaDetails `json:"mediaDetails"`
}

// MediaDetails mirrors WPGraphQL MediaDetails.
type MediaDetails struct {
	Width  FlexInt    `json:"width"`
	Height FlexInt    `json:"height"`
	Sizes  []ItemSize `json:"sizes"`
}

// ItemSize mirrors WPGraphQL MediaSize, whose dimensions are strings.
type ItemSize struct {
	Name      string  `json:"name"`
	SourceURL string  `json:"sourceUrl"`
	Width     FlexInt `json:"width"`
	Height    FlexInt `json:"height"`
}

// FlexInt accepts a JSON number, a numeric string, or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// UnmarshalJSON classifies the raw value. Unrecognised shapes decode to
// RefUnknown rather than failing the whole document.
func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = Ref{Kind: RefUnknown}
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		r.Kind = RefNone
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if strings.TrimSpace(s) == "" {
			r.Kind = RefNone
			return nil
		}
		r.Kind = RefURL
		r.URL = s
		return nil
	case data[0] != '{':
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	if node, ok := fields["node"]; ok {
		node = bytes.TrimSpace(node)
		if bytes.Equal(node, []byte("null")) {
			r.Kind = RefNone
			return nil
		}
		var item Item
		if err := json.Unmarshal(node, &item); err != nil {
			return nil
		}
		r.Kind = RefEdge
		r.Item = &item
		return nil
	}

	if _, ok := fields["sourceUrl"]; ok {
		var item Item
		if err := json.Unmarshal(data, &item); err != nil {
			return nil
		}
		r.Kind = RefItem
		r.Item = &item
	}
	return nil
}

// Normalize turns any reference shape into the canonical Object. It returns
// false for empty and unrecognised references.
func Normalize(ref Ref) (*Object, bool) {
	switch ref.Kind {
	case RefURL:
		u := NormalizeURL(ref.URL)
		if u == "" {
			return nil, false
		}
		return &Object{CanonicalURL: u}, true
	case RefEdge, RefItem:
		if ref.Item == nil {
			return nil, false
		}
		obj := fromItem(ref.Item)
		if obj.IsEmpty() {
			return nil, false
		}
		return obj, true
	default:
		return nil, false
	}
}

// NormalizeJSON decodes and normalises a raw image value in one step.
func NormalizeJSON(raw json.RawMessage) (*Object, bool) {
	var ref Ref
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, false
	}
	return Normalize(ref)
}

func fromItem(item *Item) *Object {
	obj := &Object{
		CanonicalURL: NormalizeURL(item.SourceURL),
		AltText:      strings.TrimSpace(item.AltText),
	}
	if item.MediaDetails == nil {
		return obj
	}
	obj.Width = int(item.MediaDetails.Width)
	obj.Height = int(item.MediaDetails.Height)
	for _, s := range item.MediaDetails.Sizes {
		obj.Variants = append(obj.Variants, SizeVariant{
			Name:      s.Name,
			SourceURL: NormalizeURL(s.SourceURL),
			Width:     int(s.Width),
			Height:    int(s.Height),
		})
	}
	return obj
}
