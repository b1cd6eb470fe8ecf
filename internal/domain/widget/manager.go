package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrGlobalMissing means the script loaded but never exposed its global.
	ErrGlobalMissing = errors.New("booking script loaded without its global entry point")
	// ErrLoadTimeout means the script neither loaded nor failed in time.
	ErrLoadTimeout = errors.New("booking script load timed out")
	// ErrNoRecourse means every tier of the open ladder failed.
	ErrNoRecourse = errors.New("booking widget could not be opened")
)

// Options configures a Manager.
type Options struct {
	BaseURL       string
	ScriptURL     string
	StylesheetURL string
	WarmOrigins   []string
	// BookingHost gates embed parameters to the booking provider's pages.
	BookingHost string
	Attribution Attribution
	// GracePeriod is waited after onload before checking for the global.
	GracePeriod time.Duration
	// LoadTimeout bounds a single load attempt. Zero waits indefinitely.
	LoadTimeout time.Duration
	EventName   string
	FrameTitle  string
}

// DefaultOptions targets the agency's Calendly discovery call.
func DefaultOptions() Options {
	return Options{
		BaseURL:       "https://calendly.com/mauriciobayuelo/free-discovery-call",
		ScriptURL:     "https://assets.calendly.com/assets/external/widget.js",
		StylesheetURL: "https://assets.calendly.com/assets/external/widget.css",
		WarmOrigins:   []string{"https://assets.calendly.com", "https://calendly.com"},
		BookingHost:   "calendly.com",
		Attribution:   DefaultAttribution,
		GracePeriod:   100 * time.Millisecond,
		EventName:     "calendly_popup_opened",
		FrameTitle:    "Calendly scheduling",
	}
}

// Manager owns the widget state for one page session. Construct one at
// startup and share it between every CTA.
type Manager struct {
	host    Host
	opts    Options
	session *Session
	tracker Tracker
	logger  *slog.Logger

	loads singleflight.Group

	mu          sync.Mutex
	state       LoadState
	warmed      bool
	closeActive func()
}

// NewManager wires a manager. session, tracker and logger may be nil.
func NewManager(host Host, opts Options, session *Session, tracker Tracker, logger *slog.Logger) *Manager {
	if session == nil {
		session = NewSession(nil)
	}
	if tracker == nil {
		tracker = nopTracker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		host:    host,
		opts:    opts,
		session: session,
		tracker: tracker,
		logger:  logger.With(slog.String("component", "booking-widget")),
	}
}

// State returns the current load state.
func (m *Manager) State() LoadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) apply(ev Event) LoadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if next, ok := Transition(m.state, ev); ok {
		m.state = next
	}
	return m.state
}

// Session exposes the attribution session backing this manager.
func (m *Manager) Session() *Session { return m.session }

// TargetURL builds the attributed booking URL for intent.
func (m *Manager) TargetURL(intent Intent) string {
	return BuildTargetURL(m.opts.BaseURL, m.opts.Attribution, intent, m.session.Params())
}

// Warm issues connection hints for the widget origins. Only the first call
// in a session does anything and it never panics.
func (m *Manager) Warm() {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Widget warm failed", "panic", fmt.Sprint(r))
		}
	}()

	m.mu.Lock()
	if m.warmed {
		m.mu.Unlock()
		return
	}
	m.warmed = true
	if next, ok := Transition(m.state, EvWarm); ok {
		m.state = next
	}
	m.mu.Unlock()

	for _, origin := range m.opts.WarmOrigins {
		if !m.host.HasHeadLink("preconnect", origin) {
			if err := m.host.AppendHeadLink(HeadLink{Rel: "preconnect", Href: origin, CrossOrigin: "anonymous"}); err != nil {
				m.logger.Debug("Preconnect hint rejected", "origin", origin, "error", err.Error())
			}
		}
		if !m.host.HasHeadLink("dns-prefetch", origin) {
			if err := m.host.AppendHeadLink(HeadLink{Rel: "dns-prefetch", Href: origin}); err != nil {
				m.logger.Debug("DNS prefetch hint rejected", "origin", origin, "error", err.Error())
			}
		}
	}
}

// Load ensures the widget script is loaded. Concurrent callers share one
// attempt. After a failure the next call starts over. Cancelling ctx only
// releases the calling goroutine.
func (m *Manager) Load(ctx context.Context) error {
	if m.State() == StateReady {
		return nil
	}

	ch := m.loads.DoChan("load", func() (any, error) {
		return nil, m.load()
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) load() error {
	if m.apply(EvLoadRequested) == StateReady {
		return nil
	}

	start := time.Now()
	err := m.fetchScript()
	if err != nil {
		m.apply(EvLoadFailed)
		m.logger.Warn("Booking script load failed", "error", err.Error(), "duration", time.Since(start))
		return err
	}

	m.apply(EvLoadSucceeded)
	m.logger.Info("Booking script ready", "duration", time.Since(start))
	return nil
}

func (m *Manager) fetchScript() error {
	src := m.opts.ScriptURL

	if m.host.HasScript(src) {
		if _, ok := m.host.Global(); ok {
			return nil
		}
		// Left behind by a failed attempt.
		m.host.RemoveScript(src)
	}

	if css := m.opts.StylesheetURL; css != "" && !m.host.HasHeadLink("stylesheet", css) {
		if err := m.host.AppendHeadLink(HeadLink{Rel: "stylesheet", Href: css}); err != nil {
			m.logger.Debug("Widget stylesheet rejected", "href", css, "error", err.Error())
		}
	}

	done := make(chan error, 1)
	err := m.host.InsertScript(src, func(err error) {
		select {
		case done <- err:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to insert booking script: %w", err)
	}

	var timeout <-chan time.Time
	if m.opts.LoadTimeout > 0 {
		timer := time.NewTimer(m.opts.LoadTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err := <-done:
		if err != nil {
			m.host.RemoveScript(src)
			return fmt.Errorf("booking script error: %w", err)
		}
	case <-timeout:
		m.host.RemoveScript(src)
		return ErrLoadTimeout
	}

	if m.opts.GracePeriod > 0 {
		time.Sleep(m.opts.GracePeriod)
	}

	if _, ok := m.host.Global(); !ok {
		m.host.RemoveScript(src)
		return ErrGlobalMissing
	}
	return nil
}

// ladder carries the URLs an Open call moves between.
type ladder struct {
	intent   Intent
	target   string
	base     string
	fallback string
}

// Open engages the booking flow for intent, walking the fallback ladder
// until one tier succeeds. Degraded outcomes are not errors; ErrNoRecourse
// is returned only when even the new tab could not be opened.
func (m *Manager) Open(ctx context.Context, intent Intent) error {
	l := &ladder{
		intent:   intent,
		target:   m.TargetURL(intent),
		base:     m.opts.BaseURL,
		fallback: m.opts.BaseURL,
	}

	step := FirstStep(intent)
	for !step.Terminal() {
		ok := m.perform(ctx, step, l)
		m.logger.Debug("Booking ladder step", "step", step.String(), "ok", ok)
		step = NextStep(step, ok)
	}

	if step == StepExhausted {
		m.logger.Error("Booking widget exhausted every fallback", "target", l.target)
		return ErrNoRecourse
	}
	return nil
}

func (m *Manager) perform(ctx context.Context, step Step, l *ladder) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Booking ladder step panicked", "step", step.String(), "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	switch step {
	case StepNewTab:
		l.fallback = l.target
		if err := m.host.OpenWindow(l.target); err != nil {
			m.logger.Warn("New tab blocked", "error", err.Error())
			return false
		}
		m.track(l.intent, "new_tab", l.target)
		return true

	case StepLoad:
		return m.Load(ctx) == nil

	case StepPopup:
		g, present := m.host.Global()
		if !present {
			return false
		}
		if err := g.InitPopup(l.target); err != nil {
			m.logger.Warn("Popup widget unavailable", "error", err.Error())
			return false
		}
		m.track(l.intent, "popup_widget", l.target)
		return true

	case StepOverlay, StepOverlayBase:
		url := l.target
		if step == StepOverlayBase {
			url = l.base
		}
		l.fallback = url
		if err := m.openOverlay(url); err != nil {
			m.logger.Warn("Embedded overlay failed", "error", err.Error())
			return false
		}
		m.track(l.intent, "embedded_overlay", url)
		return true

	case StepNewTabFallback:
		if err := m.host.OpenWindow(l.fallback); err != nil {
			m.logger.Error("New tab fallback failed", "error", err.Error())
			return false
		}
		m.track(l.intent, "new_tab_fallback", l.fallback)
		return true
	}
	return false
}

func (m *Manager) track(intent Intent, method, url string) {
	label := intent.CampaignTag
	if label == "" {
		label = m.opts.Attribution.Campaign
	}
	m.tracker.Track(OpenedEvent{
		Name:     m.opts.EventName,
		Category: "engagement",
		Label:    label,
		Method:   method,
		URL:      url,
	})
}
