package widget

import (
	"fmt"
	"sync"
)

// Element ids of the embedded overlay. Only one overlay exists per document.
const (
	OverlayID          = "calendly-embedded-overlay"
	OverlayContainerID = "calendly-embedded-container"
	OverlayCloseID     = "calendly-embedded-close"
	OverlayCloseLabel  = "Close scheduling dialog"
)

// openOverlay shows rawURL in an in-page dialog. An overlay that is already
// open is left as is.
func (m *Manager) openOverlay(rawURL string) error {
	if m.host.HasElement(OverlayID) {
		return nil
	}

	title := m.opts.FrameTitle
	if title == "" {
		title = "Scheduling"
	}
	spec := OverlaySpec{
		ID:          OverlayID,
		ContainerID: OverlayContainerID,
		CloseID:     OverlayCloseID,
		CloseLabel:  OverlayCloseLabel,
		FrameURL:    WithEmbedParams(rawURL, m.opts.BookingHost, m.host.Hostname()),
		FrameTitle:  title,
	}

	var (
		once      sync.Once
		keyMu     sync.Mutex
		removeKey func()
	)
	closeFn := func() {
		once.Do(func() {
			keyMu.Lock()
			remove := removeKey
			keyMu.Unlock()
			m.teardownOverlay(remove)
		})
	}

	if err := m.host.MountOverlay(spec, closeFn); err != nil {
		return fmt.Errorf("failed to mount overlay: %w", err)
	}

	remove := m.host.AddKeyListener(func(key string) {
		if key == "Escape" {
			closeFn()
		}
	})
	keyMu.Lock()
	removeKey = remove
	keyMu.Unlock()

	m.mu.Lock()
	m.closeActive = closeFn
	m.mu.Unlock()
	return nil
}

// CloseOverlay closes the open overlay, if any.
func (m *Manager) CloseOverlay() {
	m.mu.Lock()
	fn := m.closeActive
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *Manager) teardownOverlay(removeKey func()) {
	if g, ok := m.host.Global(); ok {
		func() {
			defer func() { _ = recover() }()
			g.ClosePopup()
		}()
	}
	m.host.RemoveElement(OverlayID)
	if removeKey != nil {
		removeKey()
	}

	m.mu.Lock()
	m.closeActive = nil
	m.mu.Unlock()
}
