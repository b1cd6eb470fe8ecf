package widget

import "errors"

// ErrPopupUnavailable is returned by Global.InitPopup when the loaded script
// does not expose a popup entry point.
var ErrPopupUnavailable = errors.New("booking popup entry point unavailable")

// HeadLink is a <link> element inserted into the document head.
type HeadLink struct {
	Rel         string
	Href        string
	CrossOrigin string
}

// OverlaySpec describes the embedded overlay the host must build: a modal
// dialog holding an iframe and a close button.
type OverlaySpec struct {
	ID          string
	ContainerID string
	CloseID     string
	CloseLabel  string
	FrameURL    string
	FrameTitle  string
}

// Host abstracts the browser document so the manager can run against a real
// DOM or a fake in tests.
type Host interface {
	HasHeadLink(rel, href string) bool
	AppendHeadLink(link HeadLink) error

	HasScript(src string) bool
	// InsertScript appends an async <script> and calls done exactly once
	// with nil on load or an error on failure.
	InsertScript(src string, done func(error)) error
	RemoveScript(src string)

	// Global returns the script's global object once it exists.
	Global() (Global, bool)

	OpenWindow(url string) error

	HasElement(id string) bool
	// MountOverlay inserts the overlay and wires the close button and a
	// backdrop click to onClose.
	MountOverlay(spec OverlaySpec, onClose func()) error
	RemoveElement(id string)

	// AddKeyListener registers a document keydown listener and returns a
	// function removing it.
	AddKeyListener(fn func(key string)) (remove func())

	Hostname() string
}

// Global is the third-party script's entry point.
type Global interface {
	InitPopup(url string) error
	ClosePopup()
}

// OpenedEvent records which tier served a CTA, for analytics.
type OpenedEvent struct {
	Name     string
	Category string
	Label    string
	Method   string
	URL      string
}

// Tracker receives OpenedEvents. Implementations must not block.
type Tracker interface {
	Track(OpenedEvent)
}

// TrackerFunc adapts a function to Tracker.
type TrackerFunc func(OpenedEvent)

func (f TrackerFunc) Track(e OpenedEvent) { f(e) }

type nopTracker struct{}

func (nopTracker) Track(OpenedEvent) {}
