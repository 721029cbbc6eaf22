package plugin

import "fmt"

// WindowState is the lifecycle state of one plugin window
type WindowState int

const (
	StateAbsent WindowState = iota
	StateHidden
	StateVisible
	StateDestroyed
)

// String returns the state name
func (s WindowState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("WindowState(%d)", int(s))
	}
}

// Transition is a named window lifecycle event
type Transition int

const (
	TransitionCreate Transition = iota
	TransitionShow
	TransitionHide
	TransitionCloseRequested
	TransitionDestroyed
)

// String returns the transition name
func (t Transition) String() string {
	switch t {
	case TransitionCreate:
		return "Create"
	case TransitionShow:
		return "Show"
	case TransitionHide:
		return "Hide"
	case TransitionCloseRequested:
		return "CloseRequested"
	case TransitionDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("Transition(%d)", int(t))
	}
}

// Next computes the state that follows t. Windows are created hidden.
// A close request on a dependent window hides it instead of destroying it.
func Next(from WindowState, t Transition, mode StartupMode) (WindowState, error) {
	if t == TransitionDestroyed {
		return StateDestroyed, nil
	}
	if from == StateDestroyed {
		return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, from)
	}

	switch t {
	case TransitionCreate:
		if from == StateAbsent {
			return StateHidden, nil
		}
	case TransitionShow:
		if from == StateHidden || from == StateVisible {
			return StateVisible, nil
		}
	case TransitionHide:
		if from == StateHidden || from == StateVisible {
			return StateHidden, nil
		}
	case TransitionCloseRequested:
		if from == StateHidden || from == StateVisible {
			if mode == StartupDependent {
				return StateHidden, nil
			}
			return StateDestroyed, nil
		}
	}
	return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, from)
}
