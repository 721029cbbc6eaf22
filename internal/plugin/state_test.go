package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTransitions(t *testing.T) {
	tests := []struct {
		from WindowState
		t    Transition
		mode StartupMode
		want WindowState
		err  bool
	}{
		{StateAbsent, TransitionCreate, StartupIndependent, StateHidden, false},
		{StateHidden, TransitionCreate, StartupIndependent, StateHidden, true},
		{StateHidden, TransitionShow, StartupIndependent, StateVisible, false},
		{StateVisible, TransitionShow, StartupIndependent, StateVisible, false},
		{StateVisible, TransitionHide, StartupIndependent, StateHidden, false},
		{StateHidden, TransitionHide, StartupIndependent, StateHidden, false},
		{StateVisible, TransitionCloseRequested, StartupDependent, StateHidden, false},
		{StateHidden, TransitionCloseRequested, StartupDependent, StateHidden, false},
		{StateVisible, TransitionCloseRequested, StartupIndependent, StateDestroyed, false},
		{StateVisible, TransitionDestroyed, StartupDependent, StateDestroyed, false},
		{StateAbsent, TransitionDestroyed, StartupIndependent, StateDestroyed, false},
		{StateAbsent, TransitionShow, StartupIndependent, StateAbsent, true},
		{StateDestroyed, TransitionShow, StartupIndependent, StateDestroyed, true},
		{StateDestroyed, TransitionCreate, StartupIndependent, StateDestroyed, true},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.t.String()+"/"+string(tt.mode), func(t *testing.T) {
			got, err := Next(tt.from, tt.t, tt.mode)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "visible", StateVisible.String())
	assert.Equal(t, "CloseRequested", TransitionCloseRequested.String())
	assert.Equal(t, "WindowState(9)", WindowState(9).String())
}
