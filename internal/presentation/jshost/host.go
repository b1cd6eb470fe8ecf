//go:build js && wasm

// Package jshost implements the booking widget host over the browser DOM.
package jshost

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
)

// DOM is a widget.Host backed by the page document.
type DOM struct {
	window   js.Value
	document js.Value
	global   string

	mu       sync.Mutex
	released map[string][]js.Func
}

// New returns a host for the current page. global names the window
// property the booking script defines, e.g. "Calendly".
func New(global string) *DOM {
	window := js.Global()
	return &DOM{
		window:   window,
		document: window.Get("document"),
		global:   global,
		released: map[string][]js.Func{},
	}
}

// call invokes fn and turns a thrown JavaScript exception into an error.
func call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("javascript call failed: %v", r)
		}
	}()
	fn()
	return nil
}

func (d *DOM) query(selector string) js.Value {
	return d.document.Call("querySelector", selector)
}

func cssString(s string) string {
	return js.Global().Get("CSS").Call("escape", s).String()
}

func (d *DOM) HasHeadLink(rel, href string) bool {
	found := false
	_ = call(func() {
		found = !d.query(fmt.Sprintf(`link[rel="%s"][href="%s"]`, cssString(rel), cssString(href))).IsNull()
	})
	return found
}

func (d *DOM) AppendHeadLink(link widget.HeadLink) error {
	return call(func() {
		el := d.document.Call("createElement", "link")
		el.Set("rel", link.Rel)
		el.Set("href", link.Href)
		if link.CrossOrigin != "" {
			el.Call("setAttribute", "crossorigin", link.CrossOrigin)
		}
		d.document.Get("head").Call("appendChild", el)
	})
}

func (d *DOM) HasScript(src string) bool {
	found := false
	_ = call(func() {
		found = !d.query(fmt.Sprintf(`script[src="%s"]`, cssString(src))).IsNull()
	})
	return found
}

func (d *DOM) InsertScript(src string, done func(error)) error {
	var once sync.Once
	var onLoad, onError js.Func
	finish := func(err error) {
		once.Do(func() {
			onLoad.Release()
			onError.Release()
			done(err)
		})
	}
	onLoad = js.FuncOf(func(js.Value, []js.Value) any {
		go finish(nil)
		return nil
	})
	onError = js.FuncOf(func(js.Value, []js.Value) any {
		go finish(fmt.Errorf("failed to load script %s", src))
		return nil
	})

	err := call(func() {
		el := d.document.Call("createElement", "script")
		el.Set("src", src)
		el.Set("async", true)
		el.Call("addEventListener", "load", onLoad)
		el.Call("addEventListener", "error", onError)
		d.document.Get("body").Call("appendChild", el)
	})
	if err != nil {
		onLoad.Release()
		onError.Release()
	}
	return err
}

func (d *DOM) RemoveScript(src string) {
	_ = call(func() {
		if el := d.query(fmt.Sprintf(`script[src="%s"]`, cssString(src))); !el.IsNull() {
			el.Call("remove")
		}
	})
}

func (d *DOM) Global() (widget.Global, bool) {
	var v js.Value
	_ = call(func() { v = d.window.Get(d.global) })
	if v.IsUndefined() || v.IsNull() {
		return nil, false
	}
	return popup{v}, true
}

// OpenWindow opens url in a new tab. noopener makes window.open return
// null even on success, so only an exception counts as failure.
func (d *DOM) OpenWindow(url string) error {
	return call(func() { d.window.Call("open", url, "_blank", "noopener,noreferrer") })
}

func (d *DOM) HasElement(id string) bool {
	found := false
	_ = call(func() { found = !d.document.Call("getElementById", id).IsNull() })
	return found
}

func (d *DOM) MountOverlay(spec widget.OverlaySpec, onClose func()) error {
	closeFn := js.FuncOf(func(js.Value, []js.Value) any {
		go onClose()
		return nil
	})
	backdropFn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 && args[0].Get("target").Equal(args[0].Get("currentTarget")) {
			go onClose()
		}
		return nil
	})

	err := call(func() {
		overlay := d.document.Call("createElement", "div")
		overlay.Set("id", spec.ID)
		overlay.Set("className", "booking-overlay")
		overlay.Call("setAttribute", "role", "dialog")
		overlay.Call("setAttribute", "aria-modal", "true")
		overlay.Call("setAttribute", "aria-label", spec.FrameTitle)

		container := d.document.Call("createElement", "div")
		container.Set("id", spec.ContainerID)
		container.Set("className", "booking-overlay__frame")

		frame := d.document.Call("createElement", "iframe")
		frame.Set("src", spec.FrameURL)
		frame.Set("title", spec.FrameTitle)
		frame.Call("setAttribute", "allow", "payment")

		closeBtn := d.document.Call("createElement", "button")
		closeBtn.Set("id", spec.CloseID)
		closeBtn.Set("type", "button")
		closeBtn.Set("className", "booking-overlay__close")
		closeBtn.Call("setAttribute", "aria-label", spec.CloseLabel)
		closeBtn.Set("textContent", "×")

		closeBtn.Call("addEventListener", "click", closeFn)
		overlay.Call("addEventListener", "click", backdropFn)

		container.Call("appendChild", frame)
		overlay.Call("appendChild", closeBtn)
		overlay.Call("appendChild", container)
		d.document.Get("body").Call("appendChild", overlay)
	})
	if err != nil {
		closeFn.Release()
		backdropFn.Release()
		return err
	}

	d.mu.Lock()
	d.released[spec.ID] = append(d.released[spec.ID], closeFn, backdropFn)
	d.mu.Unlock()
	return nil
}

func (d *DOM) RemoveElement(id string) {
	_ = call(func() {
		if el := d.document.Call("getElementById", id); !el.IsNull() {
			el.Call("remove")
		}
	})

	d.mu.Lock()
	funcs := d.released[id]
	delete(d.released, id)
	d.mu.Unlock()
	for _, f := range funcs {
		f.Release()
	}
}

func (d *DOM) AddKeyListener(fn func(key string)) func() {
	listener := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			key := args[0].Get("key").String()
			go fn(key)
		}
		return nil
	})
	d.document.Call("addEventListener", "keydown", listener)

	var once sync.Once
	return func() {
		once.Do(func() {
			d.document.Call("removeEventListener", "keydown", listener)
			listener.Release()
		})
	}
}

func (d *DOM) Hostname() string {
	host := ""
	_ = call(func() { host = d.window.Get("location").Get("hostname").String() })
	return host
}

// popup adapts the booking script's global object.
type popup struct{ v js.Value }

func (p popup) InitPopup(url string) error {
	fn := p.v.Get("initPopupWidget")
	if fn.Type() != js.TypeFunction {
		return widget.ErrPopupUnavailable
	}
	opts := map[string]any{"url": url}
	return call(func() { p.v.Call("initPopupWidget", opts) })
}

func (p popup) ClosePopup() {
	if p.v.Get("closePopupWidget").Type() == js.TypeFunction {
		_ = call(func() { p.v.Call("closePopupWidget") })
	}
}
