// Package widget manages the lifecycle of the external booking widget shared
// by every call-to-action: speculative warming, a single shared script load,
// and the popup → embedded overlay → new tab fallback ladder.
package widget

// LoadState tracks the third-party script for one page session.
type LoadState int

const (
	StateIdle LoadState = iota
	StateWarmed
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWarmed:
		return "warmed"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event drives LoadState transitions.
type Event int

const (
	EvWarm Event = iota
	EvLoadRequested
	EvLoadSucceeded
	EvLoadFailed
)

// Transition returns the state after ev is applied to from. The boolean is
// false when ev does not apply in from, in which case the state is unchanged.
func Transition(from LoadState, ev Event) (LoadState, bool) {
	switch ev {
	case EvWarm:
		if from == StateIdle {
			return StateWarmed, true
		}
	case EvLoadRequested:
		switch from {
		case StateIdle, StateWarmed, StateFailed:
			return StateLoading, true
		}
	case EvLoadSucceeded:
		if from == StateLoading {
			return StateReady, true
		}
	case EvLoadFailed:
		if from == StateLoading {
			return StateFailed, true
		}
	}
	return from, false
}

// Step is one rung of the open ladder.
type Step int

const (
	StepNewTab Step = iota
	StepLoad
	StepPopup
	StepOverlay
	StepOverlayBase
	StepNewTabFallback
	StepDone
	StepExhausted
)

func (s Step) String() string {
	switch s {
	case StepNewTab:
		return "new_tab"
	case StepLoad:
		return "load"
	case StepPopup:
		return "popup_widget"
	case StepOverlay:
		return "embedded_overlay"
	case StepOverlayBase:
		return "embedded_overlay_base"
	case StepNewTabFallback:
		return "new_tab_fallback"
	case StepDone:
		return "done"
	default:
		return "exhausted"
	}
}

// FirstStep is where the ladder starts for an intent.
func FirstStep(intent Intent) Step {
	if intent.OpenInNewWindow {
		return StepNewTab
	}
	return StepLoad
}

// NextStep decides the rung that follows step given whether its action
// succeeded. It has no side effects.
func NextStep(step Step, ok bool) Step {
	switch step {
	case StepNewTab:
		if ok {
			return StepDone
		}
		return StepOverlay
	case StepLoad:
		if ok {
			return StepPopup
		}
		return StepOverlayBase
	case StepPopup:
		if ok {
			return StepDone
		}
		return StepOverlay
	case StepOverlay, StepOverlayBase:
		if ok {
			return StepDone
		}
		return StepNewTabFallback
	case StepNewTabFallback:
		if ok {
			return StepDone
		}
		return StepExhausted
	}
	return step
}

// Terminal reports whether the ladder has stopped.
func (s Step) Terminal() bool {
	return s == StepDone || s == StepExhausted
}
