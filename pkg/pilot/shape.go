package pilot

import (
	"math"

	"github.com/gwillem/tello-rc/pkg/drone"
)

// Deadband is the fraction of analog stick travel treated as centered.
const Deadband = 0.15

// Shape prepares an analog axis reading for flight: values inside the
// deadband become zero, the rest is clamped to [-1, 1].
func Shape(v float64) float64 {
	if math.Abs(v) < Deadband {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// FromVector converts a polar deflection (magnitude in [0, 1], heading in
// radians with 0 pointing forward) into pitch and roll percentages scaled
// to max. The magnitude passes through Shape first, so a barely touched
// stick stays centered.
func FromVector(r, theta float64, max int) (pitch, roll int) {
	r = Shape(r)
	pitch = int(math.Round(r * math.Cos(theta) * float64(max)))
	roll = int(math.Round(r * math.Sin(theta) * float64(max)))
	return drone.Clamp(pitch, max), drone.Clamp(roll, max)
}
