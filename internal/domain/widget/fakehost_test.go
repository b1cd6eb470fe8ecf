package widget

import (
	"errors"
	"sync"
)

type scriptMode int

const (
	scriptSucceeds scriptMode = iota
	scriptFails
	scriptNoGlobal
	scriptManual
)

type fakeGlobal struct {
	mu       sync.Mutex
	popupErr error
	opened   []string
	closed   int
}

func (g *fakeGlobal) InitPopup(url string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.popupErr != nil {
		return g.popupErr
	}
	g.opened = append(g.opened, url)
	return nil
}

func (g *fakeGlobal) ClosePopup() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed++
}

func (g *fakeGlobal) Opened() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.opened...)
}

// fakeHost is an in-memory document.
type fakeHost struct {
	mu sync.Mutex

	mode     scriptMode
	global   *fakeGlobal
	loaded   bool
	links    []HeadLink
	scripts  map[string]bool
	inserts  int
	pending  []func(error)
	windows  []string
	overlays map[string]OverlaySpec
	onClose  func()
	keys     map[int]func(string)
	nextKey  int

	windowErr  error
	overlayErr error
}

func newFakeHost(mode scriptMode) *fakeHost {
	return &fakeHost{
		mode:     mode,
		global:   &fakeGlobal{},
		scripts:  make(map[string]bool),
		overlays: make(map[string]OverlaySpec),
		keys:     make(map[int]func(string)),
	}
}

func (h *fakeHost) HasHeadLink(rel, href string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.links {
		if l.Rel == rel && l.Href == href {
			return true
		}
	}
	return false
}

func (h *fakeHost) AppendHeadLink(link HeadLink) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.links = append(h.links, link)
	return nil
}

func (h *fakeHost) Links() []HeadLink {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]HeadLink(nil), h.links...)
}

func (h *fakeHost) HasScript(src string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scripts[src]
}

func (h *fakeHost) InsertScript(src string, done func(error)) error {
	h.mu.Lock()
	h.scripts[src] = true
	h.inserts++
	mode := h.mode
	if mode == scriptManual {
		h.pending = append(h.pending, done)
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	go func() {
		switch mode {
		case scriptFails:
			done(errors.New("net::ERR_BLOCKED_BY_CLIENT"))
		case scriptNoGlobal:
			done(nil)
		default:
			h.mu.Lock()
			h.loaded = true
			h.mu.Unlock()
			done(nil)
		}
	}()
	return nil
}

// resolve completes manual script loads.
func (h *fakeHost) resolve(err error) {
	h.mu.Lock()
	pending := h.pending
	h.pending = nil
	if err == nil {
		h.loaded = true
	}
	h.mu.Unlock()
	for _, done := range pending {
		done(err)
	}
}

func (h *fakeHost) Inserts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inserts
}

func (h *fakeHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

func (h *fakeHost) RemoveScript(src string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.scripts, src)
}

func (h *fakeHost) Global() (Global, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded {
		return nil, false
	}
	return h.global, true
}

func (h *fakeHost) OpenWindow(url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.windowErr != nil {
		return h.windowErr
	}
	h.windows = append(h.windows, url)
	return nil
}

func (h *fakeHost) Windows() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.windows...)
}

func (h *fakeHost) HasElement(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.overlays[id]
	return ok
}

func (h *fakeHost) MountOverlay(spec OverlaySpec, onClose func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.overlayErr != nil {
		return h.overlayErr
	}
	h.overlays[spec.ID] = spec
	h.onClose = onClose
	return nil
}

func (h *fakeHost) Overlay() (OverlaySpec, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	spec, ok := h.overlays[OverlayID]
	return spec, ok
}

// clickBackdrop simulates a click on the overlay backdrop.
func (h *fakeHost) clickBackdrop() {
	h.mu.Lock()
	fn := h.onClose
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *fakeHost) RemoveElement(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.overlays, id)
}

func (h *fakeHost) AddKeyListener(fn func(string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextKey
	h.nextKey++
	h.keys[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.keys, id)
	}
}

func (h *fakeHost) KeyListeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.keys)
}

func (h *fakeHost) press(key string) {
	h.mu.Lock()
	fns := make([]func(string), 0, len(h.keys))
	for _, fn := range h.keys {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

func (h *fakeHost) Hostname() string { return "www.magnetomarketing.co" }

type recordingTracker struct {
	mu     sync.Mutex
	events []OpenedEvent
}

func (r *recordingTracker) Track(e OpenedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingTracker) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Method)
	}
	return out
}
