package drone

import (
	"time"

	"gobot.io/x/gobot/v2/platforms/dji/tello"
)

// Telemetry is a point-in-time snapshot of the drone's reported state.
type Telemetry struct {
	Battery       int // percent
	BatteryLow    bool
	Flying        bool
	Hovering      bool
	Height        float64 // meters above the takeoff point
	GroundSpeed   float64 // m/s
	FlightTime    time.Duration
	WifiStrength  int // percent
	WifiDisturb   int // interference, percent
	LightStrength int
	Updated       time.Time
}

// withFlightData folds an SDK flight-data event into the snapshot.
func (t Telemetry) withFlightData(fd *tello.FlightData, now time.Time) Telemetry {
	t.Battery = int(fd.BatteryPercentage)
	t.BatteryLow = fd.BatteryLow
	t.Flying = fd.Flying
	t.Hovering = fd.DroneHover
	t.Height = heightMeters(fd.Height)
	t.GroundSpeed = speedMS(fd.GroundSpeed)
	t.FlightTime = flightTime(fd.FlyTime)
	t.Updated = now
	return t
}

// withWifiData folds an SDK WiFi quality event into the snapshot.
func (t Telemetry) withWifiData(wd *tello.WifiData, now time.Time) Telemetry {
	t.WifiStrength = int(wd.Strength)
	t.WifiDisturb = int(wd.Disturb)
	t.Updated = now
	return t
}

// withLight folds an SDK light strength event into the snapshot.
func (t Telemetry) withLight(strength int8, now time.Time) Telemetry {
	t.LightStrength = int(strength)
	t.Updated = now
	return t
}

// heightMeters converts the SDK's decimeter height reading to meters.
func heightMeters(dm int16) float64 {
	return float64(dm) / 10
}

// speedMS converts the SDK's dm/s speed reading to m/s.
func speedMS(dms int16) float64 {
	return float64(dms) / 10
}

// flightTime converts the SDK's 0.1s flight time ticks to a duration.
func flightTime(ticks int16) time.Duration {
	return time.Duration(ticks) * 100 * time.Millisecond
}
