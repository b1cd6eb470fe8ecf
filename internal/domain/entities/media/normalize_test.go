package media

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshal_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind RefKind
	}{
		{"null", `null`, RefNone},
		{"empty string", `""`, RefNone},
		{"bare url", `"https://cms/a.jpg"`, RefURL},
		{"edge", `{"node":{"sourceUrl":"https://cms/a.jpg"}}`, RefEdge},
		{"null edge", `{"node":null}`, RefNone},
		{"item", `{"sourceUrl":"https://cms/a.jpg","altText":"A"}`, RefItem},
		{"number", `42`, RefUnknown},
		{"unrelated object", `{"title":"x"}`, RefUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ref))
			assert.Equal(t, tt.kind, ref.Kind)
		})
	}
}

func TestNormalize_EdgeWithStringDimensions(t *testing.T) {
	raw := `{
		"node": {
			"sourceUrl": "//cms.example.com/uploads/hero.jpg",
			"altText": " Team at work ",
			"mediaDetails": {
				"width": 2000,
				"height": "1333",
				"sizes": [
					{"name": "medium", "sourceUrl": "https://cms.example.com/uploads/hero-300x200.jpg", "width": "300", "height": "200"},
					{"name": "large", "sourceUrl": "https://cms.example.com/uploads/hero-1024x683.jpg", "width": "1024", "height": "683"}
				]
			}
		}
	}`

	obj, ok := NormalizeJSON(json.RawMessage(raw))
	require.True(t, ok)
	assert.Equal(t, "https://cms.example.com/uploads/hero.jpg", obj.CanonicalURL)
	assert.Equal(t, "Team at work", obj.AltText)
	assert.Equal(t, 2000, obj.Width)
	assert.Equal(t, 1333, obj.Height)
	require.Len(t, obj.Variants, 2)
	assert.Equal(t, 1024, obj.Variants[1].Width)
	assert.Equal(t, "large", obj.Variants[1].Name)
}

func TestNormalize_EmbeddedInStruct(t *testing.T) {
	var hero struct {
		Image      Ref `json:"image"`
		Background Ref `json:"backgroundImage"`
	}
	raw := `{"image":"https://cms/a.png","backgroundImage":{"node":null}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &hero))

	obj, ok := Normalize(hero.Image)
	require.True(t, ok)
	assert.Equal(t, "https://cms/a.png", obj.CanonicalURL)

	_, ok = Normalize(hero.Background)
	assert.False(t, ok)
}

func TestRefUnmarshal_MissingFieldIsNone(t *testing.T) {
	var hero struct {
		Image      Ref `json:"image"`
		Background Ref `json:"backgroundImage"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"image":"https://cms/a.png"}`), &hero))

	assert.Equal(t, RefURL, hero.Image.Kind)
	assert.Equal(t, RefNone, hero.Background.Kind)
	assert.Equal(t, RefNone, Ref{}.Kind)
}

func TestNormalize_RejectsUnknown(t *testing.T) {
	_, ok := Normalize(Ref{Kind: RefUnknown})
	assert.False(t, ok)

	_, ok = Normalize(Ref{Kind: RefItem})
	assert.False(t, ok)

	_, ok = NormalizeJSON(json.RawMessage(`{"sourceUrl":""}`))
	assert.False(t, ok)
}
