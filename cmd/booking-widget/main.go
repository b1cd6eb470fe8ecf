//go:build js && wasm

// Command booking-widget is the browser side of the booking CTAs. It is
// compiled to WebAssembly and started by /static/js/booking.js.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/presentation/jshost"
)

type pageConfig struct {
	BaseURL       string   `json:"baseUrl"`
	ScriptURL     string   `json:"scriptUrl"`
	StylesheetURL string   `json:"stylesheetUrl"`
	WarmOrigins   []string `json:"warmOrigins"`
	BookingHost   string   `json:"bookingHost"`
	Source        string   `json:"utmSource"`
	Medium        string   `json:"utmMedium"`
	Campaign      string   `json:"utmCampaign"`
	GraceMillis   int64    `json:"graceMs"`
}

const openTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	opts := loadOptions(logger)
	session := widget.NewSession(jshost.NewSessionStorage())
	session.Capture(js.Global().Get("location").Get("search").String())

	manager := widget.NewManager(jshost.New("Calendly"), opts, session, jshost.Analytics{}, logger)

	api := js.Global().Get("Object").New()
	api.Set("warm", js.FuncOf(func(js.Value, []js.Value) any {
		go manager.Warm()
		return nil
	}))
	api.Set("open", js.FuncOf(func(_ js.Value, args []js.Value) any {
		intent := widget.Intent{}
		if len(args) > 0 && args[0].Type() == js.TypeObject {
			intent = intentFrom(args[0])
		}
		go open(manager, intent, logger)
		return nil
	}))
	js.Global().Set("magnetoBooking", api)

	bindCTAs(manager, logger)

	select {}
}

func loadOptions(logger *slog.Logger) widget.Options {
	opts := widget.DefaultOptions()

	el := js.Global().Get("document").Call("getElementById", "booking-config")
	if el.IsNull() {
		return opts
	}
	var cfg pageConfig
	if err := json.Unmarshal([]byte(el.Get("textContent").String()), &cfg); err != nil {
		logger.Warn("Ignoring malformed booking config", "error", err.Error())
		return opts
	}

	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	if cfg.ScriptURL != "" {
		opts.ScriptURL = cfg.ScriptURL
	}
	if cfg.StylesheetURL != "" {
		opts.StylesheetURL = cfg.StylesheetURL
	}
	if len(cfg.WarmOrigins) > 0 {
		opts.WarmOrigins = cfg.WarmOrigins
	}
	if cfg.BookingHost != "" {
		opts.BookingHost = cfg.BookingHost
	}
	if cfg.Source != "" {
		opts.Attribution = widget.Attribution{Source: cfg.Source, Medium: cfg.Medium, Campaign: cfg.Campaign}
	}
	if cfg.GraceMillis > 0 {
		opts.GracePeriod = time.Duration(cfg.GraceMillis) * time.Millisecond
	}
	return opts
}

func intentFrom(v js.Value) widget.Intent {
	str := func(key string) string {
		if f := v.Get(key); f.Type() == js.TypeString {
			return f.String()
		}
		return ""
	}
	return widget.Intent{
		CampaignTag:       str("campaign"),
		ExplicitTargetURL: str("url"),
		Term:              str("term"),
		OpenInNewWindow:   v.Get("newWindow").Truthy(),
	}
}

func open(manager *widget.Manager, intent widget.Intent, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	if err := manager.Open(ctx, intent); err != nil {
		logger.Error("Booking widget failed to open", "campaign", intent.CampaignTag, "error", err.Error())
	}
}

// bindCTAs delegates clicks on booking CTAs rendered by the server. The
// anchors keep their /book href so they work before the module loads.
func bindCTAs(manager *widget.Manager, logger *slog.Logger) {
	document := js.Global().Get("document")

	onPointer := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 && !closestCTA(args[0]).IsNull() {
			go manager.Warm()
		}
		return nil
	})
	onClick := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		ev := args[0]
		if ev.Get("metaKey").Truthy() || ev.Get("ctrlKey").Truthy() || ev.Get("shiftKey").Truthy() {
			return nil
		}
		cta := closestCTA(ev)
		if cta.IsNull() {
			return nil
		}
		ev.Call("preventDefault")

		intent := widget.Intent{CampaignTag: cta.Get("dataset").Get("bookingCampaign").String()}
		if u := cta.Get("dataset").Get("bookingUrl"); u.Type() == js.TypeString {
			intent.ExplicitTargetURL = u.String()
		}
		go open(manager, intent, logger)
		return nil
	})

	document.Call("addEventListener", "pointerover", onPointer, map[string]any{"passive": true})
	document.Call("addEventListener", "touchstart", onPointer, map[string]any{"passive": true})
	document.Call("addEventListener", "click", onClick)
}

func closestCTA(ev js.Value) js.Value {
	target := ev.Get("target")
	if target.IsUndefined() || target.IsNull() || target.Get("closest").Type() != js.TypeFunction {
		return js.Null()
	}
	return target.Call("closest", "[data-booking-campaign]")
}
