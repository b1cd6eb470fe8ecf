package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    LoadState
		ev      Event
		want    LoadState
		applied bool
	}{
		{StateIdle, EvWarm, StateWarmed, true},
		{StateWarmed, EvWarm, StateWarmed, false},
		{StateLoading, EvWarm, StateLoading, false},
		{StateReady, EvWarm, StateReady, false},
		{StateIdle, EvLoadRequested, StateLoading, true},
		{StateWarmed, EvLoadRequested, StateLoading, true},
		{StateFailed, EvLoadRequested, StateLoading, true},
		{StateReady, EvLoadRequested, StateReady, false},
		{StateLoading, EvLoadSucceeded, StateReady, true},
		{StateLoading, EvLoadFailed, StateFailed, true},
		{StateIdle, EvLoadSucceeded, StateIdle, false},
		{StateReady, EvLoadFailed, StateReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+string(rune('0'+tt.ev)), func(t *testing.T) {
			got, applied := Transition(tt.from, tt.ev)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestFallbackLadder(t *testing.T) {
	walk := func(start Step, outcomes ...bool) []Step {
		path := []Step{start}
		step := start
		for _, ok := range outcomes {
			step = NextStep(step, ok)
			path = append(path, step)
		}
		return path
	}

	assert.Equal(t, StepNewTab, FirstStep(Intent{OpenInNewWindow: true}))
	assert.Equal(t, StepLoad, FirstStep(Intent{}))

	assert.Equal(t, []Step{StepLoad, StepPopup, StepDone}, walk(StepLoad, true, true))
	assert.Equal(t, []Step{StepLoad, StepPopup, StepOverlay, StepDone}, walk(StepLoad, true, false, true))
	assert.Equal(t, []Step{StepLoad, StepOverlayBase, StepDone}, walk(StepLoad, false, true))
	assert.Equal(t, []Step{StepLoad, StepOverlayBase, StepNewTabFallback, StepDone}, walk(StepLoad, false, false, true))
	assert.Equal(t, []Step{StepLoad, StepOverlayBase, StepNewTabFallback, StepExhausted}, walk(StepLoad, false, false, false))
	assert.Equal(t, []Step{StepNewTab, StepDone}, walk(StepNewTab, true))

	assert.True(t, StepDone.Terminal())
	assert.True(t, StepExhausted.Terminal())
	assert.False(t, StepPopup.Terminal())
}
