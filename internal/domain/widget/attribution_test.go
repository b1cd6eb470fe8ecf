package widget

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTargetURL(t *testing.T) {
	base := "https://calendly.com/agency/intro"

	tests := []struct {
		name    string
		intent  Intent
		session Params
		want    map[string]string
		host    string
	}{
		{
			name:   "fixed triple only",
			intent: Intent{},
			want:   map[string]string{UTMSource: "website", UTMMedium: "cta", UTMCampaign: "strategy_call", UTMContent: ""},
			host:   "calendly.com",
		},
		{
			name:   "per-cta tags",
			intent: Intent{CampaignTag: "hero", Term: "seo"},
			want:   map[string]string{UTMContent: "hero", UTMTerm: "seo"},
			host:   "calendly.com",
		},
		{
			name:    "session overrides",
			intent:  Intent{CampaignTag: "hero"},
			session: Params{UTMSource: "linkedin", UTMContent: "ad-7"},
			want:    map[string]string{UTMSource: "linkedin", UTMContent: "ad-7", UTMMedium: "cta"},
			host:    "calendly.com",
		},
		{
			name:   "explicit target keeps its own query",
			intent: Intent{ExplicitTargetURL: "https://calendly.com/agency/audit?month=2026-10"},
			want:   map[string]string{"month": "2026-10", UTMSource: "website"},
			host:   "calendly.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTargetURL(base, DefaultAttribution, tt.intent, tt.session)
			u, err := url.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, tt.host, u.Host)
			for k, v := range tt.want {
				assert.Equal(t, v, u.Query().Get(k), k)
			}
		})
	}
}

func TestWithEmbedParams(t *testing.T) {
	got := WithEmbedParams("https://calendly.com/agency/intro?utm_source=website", "calendly.com", "example.com")
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Query().Get("embed_domain"))
	assert.Equal(t, "Inline", u.Query().Get("embed_type"))
	assert.Equal(t, "website", u.Query().Get("utm_source"))

	kept := WithEmbedParams("https://calendly.com/a?embed_type=PopupText&embed_domain=x.com", "calendly.com", "example.com")
	u, err = url.Parse(kept)
	require.NoError(t, err)
	assert.Equal(t, "PopupText", u.Query().Get("embed_type"))
	assert.Equal(t, "x.com", u.Query().Get("embed_domain"))

	other := "https://cal.example.org/book"
	assert.Equal(t, other, WithEmbedParams(other, "calendly.com", "example.com"))

	lookalike := "https://calendly.com.example.net/book"
	assert.Equal(t, lookalike, WithEmbedParams(lookalike, "calendly.com", "example.com"))

	sub := WithEmbedParams("https://eu.calendly.com/a", "calendly.com", "example.com")
	assert.Contains(t, sub, "embed_type=Inline")
}

func TestMatchesHost(t *testing.T) {
	assert.True(t, MatchesHost("calendly.com", "calendly.com"))
	assert.True(t, MatchesHost("EU.Calendly.com", "calendly.com"))
	assert.False(t, MatchesHost("calendly.com.example.net", "calendly.com"))
	assert.False(t, MatchesHost("notcalendly.com", "calendly.com"))
	assert.False(t, MatchesHost("calendly.com", ""))
}

func TestSession_FirstCaptureWins(t *testing.T) {
	store := NewMemoryStore()
	s := NewSession(store)

	assert.True(t, s.Capture("").Empty())
	_, persisted := store.Get(SessionKey)
	assert.False(t, persisted, "empty captures are not persisted")

	first := s.Capture("?utm_source=google&utm_medium=cpc&gclid=abc")
	assert.Equal(t, Params{UTMSource: "google", UTMMedium: "cpc"}, first)

	second := s.Capture("utm_source=bing")
	assert.Equal(t, first, second)

	// A fresh Session over the same store sees the persisted values.
	assert.Equal(t, first, NewSession(store).Params())
}

func TestSession_CorruptStoreIgnored(t *testing.T) {
	store := NewMemoryStore()
	store.Set(SessionKey, "{not json")
	s := NewSession(store)

	assert.True(t, s.Params().Empty())
	assert.Equal(t, "x", s.Capture("utm_term=x")[UTMTerm])
}
