package widget

import (
	"encoding/json"
	"net/url"
	"strings"
	"sync"
)

// Intent is a single CTA click.
type Intent struct {
	CampaignTag       string
	ExplicitTargetURL string
	OpenInNewWindow   bool
	Term              string
}

// UTM parameter names carried on every booking URL.
const (
	UTMSource   = "utm_source"
	UTMMedium   = "utm_medium"
	UTMCampaign = "utm_campaign"
	UTMTerm     = "utm_term"
	UTMContent  = "utm_content"
)

// UTMKeys lists the tracked parameters in a stable order.
var UTMKeys = []string{UTMSource, UTMMedium, UTMCampaign, UTMTerm, UTMContent}

// SessionKey is the storage key holding captured parameters.
const SessionKey = "utm_params_v1"

// Params holds UTM values keyed by parameter name.
type Params map[string]string

// Empty reports whether no tracked key has a value.
func (p Params) Empty() bool {
	for _, k := range UTMKeys {
		if p[k] != "" {
			return false
		}
	}
	return true
}

// ParamsFromValues extracts the tracked keys from parsed query values.
func ParamsFromValues(values url.Values) Params {
	p := Params{}
	for _, k := range UTMKeys {
		if v := strings.TrimSpace(values.Get(k)); v != "" {
			p[k] = v
		}
	}
	return p
}

// CaptureFromQuery extracts the tracked keys from a raw query string. A
// leading "?" is tolerated.
func CaptureFromQuery(rawQuery string) Params {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return Params{}
	}
	return ParamsFromValues(values)
}

// Store is session-scoped key/value storage.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Session remembers the first campaign parameters seen in a page session so
// later CTA clicks still carry the original attribution.
type Session struct {
	store Store
}

func NewSession(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Params returns persisted parameters, or an empty set.
func (s *Session) Params() Params {
	raw, ok := s.store.Get(SessionKey)
	if !ok || raw == "" {
		return Params{}
	}
	var p Params
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Params{}
	}
	return p
}

// Capture prefers persisted parameters. Otherwise it reads rawQuery and
// persists any values found.
func (s *Session) Capture(rawQuery string) Params {
	if p := s.Params(); !p.Empty() {
		return p
	}
	p := CaptureFromQuery(rawQuery)
	if p.Empty() {
		return p
	}
	if data, err := json.Marshal(p); err == nil {
		s.store.Set(SessionKey, string(data))
	}
	return p
}

// Attribution is the fixed source/medium/campaign triple identifying the
// site as referrer.
type Attribution struct {
	Source   string
	Medium   string
	Campaign string
}

// DefaultAttribution is applied when no override is configured.
var DefaultAttribution = Attribution{Source: "website", Medium: "cta", Campaign: "strategy_call"}

// BuildTargetURL appends attribution to base (or intent.ExplicitTargetURL).
// Session values override the fixed triple and the per-CTA tags.
func BuildTargetURL(base string, attr Attribution, intent Intent, session Params) string {
	target := base
	if strings.TrimSpace(intent.ExplicitTargetURL) != "" {
		target = strings.TrimSpace(intent.ExplicitTargetURL)
	}

	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	q := u.Query()
	setIf(q, UTMSource, attr.Source)
	setIf(q, UTMMedium, attr.Medium)
	setIf(q, UTMCampaign, attr.Campaign)
	setIf(q, UTMContent, intent.CampaignTag)
	setIf(q, UTMTerm, intent.Term)
	for _, k := range UTMKeys {
		setIf(q, k, session[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// WithEmbedParams adds embed_domain and embed_type for the booking host when
// they are not already present. Other hosts are returned unchanged.
func WithEmbedParams(target, bookingHost, embedDomain string) string {
	u, err := url.Parse(target)
	if err != nil || !MatchesHost(u.Hostname(), bookingHost) {
		return target
	}
	q := u.Query()
	if q.Get("embed_domain") == "" && embedDomain != "" {
		q.Set("embed_domain", embedDomain)
	}
	if q.Get("embed_type") == "" {
		q.Set("embed_type", "Inline")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// MatchesHost reports whether host is bookingHost or one of its
// subdomains. Ports are not compared.
func MatchesHost(host, bookingHost string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	bookingHost = strings.ToLower(strings.TrimSpace(bookingHost))
	if bookingHost == "" || host == "" {
		return false
	}
	return host == bookingHost || strings.HasSuffix(host, "."+bookingHost)
}

func setIf(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}
