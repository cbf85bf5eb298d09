package drone

import (
	"math"
	"testing"
	"time"

	"gobot.io/x/gobot/v2/platforms/dji/tello"
)

func TestTelemetryWithFlightData(t *testing.T) {
	now := time.Now()
	fd := &tello.FlightData{
		BatteryPercentage: 87,
		BatteryLow:        false,
		Flying:            true,
		DroneHover:        true,
		Height:            12,  // decimeters
		GroundSpeed:       25,  // dm/s
		FlyTime:           450, // 0.1s ticks
	}

	got := Telemetry{}.withFlightData(fd, now)

	if got.Battery != 87 {
		t.Errorf("Battery = %d, want 87", got.Battery)
	}
	if math.Abs(got.Height-1.2) > 0.001 {
		t.Errorf("Height = %f, want 1.2", got.Height)
	}
	if math.Abs(got.GroundSpeed-2.5) > 0.001 {
		t.Errorf("GroundSpeed = %f, want 2.5", got.GroundSpeed)
	}
	if got.FlightTime != 45*time.Second {
		t.Errorf("FlightTime = %s, want 45s", got.FlightTime)
	}
	if !got.Flying || !got.Hovering {
		t.Errorf("Flying = %v, Hovering = %v, want both true", got.Flying, got.Hovering)
	}
	if !got.Updated.Equal(now) {
		t.Errorf("Updated = %s, want %s", got.Updated, now)
	}
}

func TestTelemetryWithWifiData(t *testing.T) {
	now := time.Now()
	got := Telemetry{}.withWifiData(&tello.WifiData{Strength: 90, Disturb: 5}, now)

	if got.WifiStrength != 90 {
		t.Errorf("WifiStrength = %d, want 90", got.WifiStrength)
	}
	if got.WifiDisturb != 5 {
		t.Errorf("WifiDisturb = %d, want 5", got.WifiDisturb)
	}
	if !got.Updated.Equal(now) {
		t.Errorf("Updated = %s, want %s", got.Updated, now)
	}
}

func TestTelemetryWithLight(t *testing.T) {
	got := Telemetry{}.withLight(3, time.Now())
	if got.LightStrength != 3 {
		t.Errorf("LightStrength = %d, want 3", got.LightStrength)
	}
}

func TestTelemetryKeepsOtherFields(t *testing.T) {
	// A WiFi update must not wipe flight data recorded earlier.
	base := Telemetry{Battery: 50, Flying: true}
	got := base.withWifiData(&tello.WifiData{Strength: 80}, time.Now())

	if got.Battery != 50 {
		t.Errorf("Battery = %d, want 50", got.Battery)
	}
	if !got.Flying {
		t.Error("Flying was cleared by a WiFi update")
	}
}

func TestUnitConversions(t *testing.T) {
	heights := []struct {
		dm       int16
		expected float64
	}{
		{0, 0},     // on the ground
		{12, 1.2},  // 12 dm -> 1.2 m
		{-3, -0.3}, // below takeoff point
	}
	for _, tt := range heights {
		if got := heightMeters(tt.dm); math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("heightMeters(%d) = %f, want %f", tt.dm, got, tt.expected)
		}
	}

	if got := speedMS(25); math.Abs(got-2.5) > 0.001 {
		t.Errorf("speedMS(25) = %f, want 2.5", got)
	}

	if got := flightTime(10); got != time.Second {
		t.Errorf("flightTime(10) = %s, want 1s", got)
	}
}
