package plugin

import (
	"math"

	"github.com/ilikebug/oTools/internal/constants"
)

// Placement is the outcome of positioning a window before it is shown
type Placement struct {
	Move bool
	To   Point
}

// targetDisplay picks the display under the cursor, falling back to the
// primary display and then to the first one
func targetDisplay(displays []Display, cursor Point) (Display, bool) {
	if len(displays) == 0 {
		return Display{}, false
	}
	for _, d := range displays {
		if d.Bounds.Contains(cursor) {
			return d, true
		}
	}
	for _, d := range displays {
		if d.Primary {
			return d, true
		}
	}
	return displays[0], true
}

// displayAt returns the display containing p
func displayAt(displays []Display, p Point) (Display, bool) {
	for _, d := range displays {
		if d.Bounds.Contains(p) {
			return d, true
		}
	}
	return Display{}, false
}

// PlanCentered centers a window on the display under the cursor.
// A window already on that display is left where it is, and a visible window
// within the recenter threshold of the target is only focused.
func PlanCentered(window Rect, visible bool, displays []Display, cursor Point) Placement {
	target, ok := targetDisplay(displays, cursor)
	if !ok {
		return Placement{}
	}

	if current, ok := displayAt(displays, Point{X: window.X, Y: window.Y}); ok && current.ID == target.ID {
		return Placement{}
	}

	area := target.WorkArea
	if area.Width == 0 || area.Height == 0 {
		area = target.Bounds
	}
	to := Point{
		X: int(math.Round(float64(area.X) + float64(area.Width-window.Width)/2)),
		Y: int(math.Round(float64(area.Y) + float64(area.Height-window.Height)/2)),
	}

	if visible {
		dx := float64(window.X - to.X)
		dy := float64(window.Y - to.Y)
		if math.Sqrt(dx*dx+dy*dy) < constants.RecenterThreshold {
			return Placement{}
		}
	}
	return Placement{Move: true, To: to}
}

// PlanAtCursor centers a window on the cursor
func PlanAtCursor(window Rect, cursor Point) Placement {
	return Placement{
		Move: true,
		To:   Point{X: cursor.X - window.Width/2, Y: cursor.Y - window.Height/2},
	}
}
