// Package drone wraps the Tello SDK driver behind a small connection handle.
package drone

// Axis identifies one virtual stick axis on the drone.
type Axis string

// Stick axes for the quadcopter.
const (
	Roll     Axis = "roll"     // right stick, left/right translation
	Pitch    Axis = "pitch"    // right stick, forward/back translation
	Throttle Axis = "throttle" // left stick, climb/descend
	Yaw      Axis = "yaw"      // left stick, rotation
)

// AllAxes returns all stick axes in display order.
func AllAxes() []Axis {
	return []Axis{Roll, Pitch, Throttle, Yaw}
}

// Sticks holds the four stick deflections as percentages in [-100, 100].
// The zero value means hover.
type Sticks struct {
	Roll     int `json:"roll"`
	Pitch    int `json:"pitch"`
	Throttle int `json:"throttle"`
	Yaw      int `json:"yaw"`
}

// Value returns the deflection for the given axis.
func (s Sticks) Value(a Axis) int {
	switch a {
	case Roll:
		return s.Roll
	case Pitch:
		return s.Pitch
	case Throttle:
		return s.Throttle
	case Yaw:
		return s.Yaw
	}
	return 0
}

// WithValue returns a copy of s with the given axis set.
func (s Sticks) WithValue(a Axis, v int) Sticks {
	switch a {
	case Roll:
		s.Roll = v
	case Pitch:
		s.Pitch = v
	case Throttle:
		s.Throttle = v
	case Yaw:
		s.Yaw = v
	}
	return s
}

// IsZero reports whether all axes are centered.
func (s Sticks) IsZero() bool {
	return s == Sticks{}
}

// Clamp limits a stick value to [-limit, limit].
func Clamp(v, limit int) int {
	if limit < 0 {
		limit = -limit
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
