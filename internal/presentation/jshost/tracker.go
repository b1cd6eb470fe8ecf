//go:build js && wasm

package jshost

import (
	"syscall/js"

	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
)

// Analytics forwards opened events to gtag when the page loaded it and
// to the dataLayer otherwise.
type Analytics struct{}

func (Analytics) Track(e widget.OpenedEvent) {
	params := map[string]any{
		"event_category": e.Category,
		"event_label":    e.Label,
		"method":         e.Method,
		"booking_url":    e.URL,
	}
	_ = call(func() {
		window := js.Global()
		if gtag := window.Get("gtag"); gtag.Type() == js.TypeFunction {
			gtag.Invoke("event", e.Name, params)
			return
		}
		if dl := window.Get("dataLayer"); !dl.IsUndefined() && !dl.IsNull() {
			entry := map[string]any{"event": e.Name}
			for k, v := range params {
				entry[k] = v
			}
			dl.Call("push", entry)
		}
	})
}
