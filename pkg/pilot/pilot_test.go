package pilot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gwillem/tello-rc/pkg/drone"
)

// fakeCraft records calls so the loop can be tested without a drone.
type fakeCraft struct {
	mu       sync.Mutex
	sticks   []drone.Sticks
	takeoffs int
	lands    int
	hovers   int
	flips    []drone.FlipDirection
	fast     []bool
	tm       drone.Telemetry
}

func (f *fakeCraft) TakeOff() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.takeoffs++
	return nil
}

func (f *fakeCraft) Land() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lands++
	return nil
}

func (f *fakeCraft) Hover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hovers++
}

func (f *fakeCraft) SetSticks(s drone.Sticks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sticks = append(f.sticks, s)
	return nil
}

func (f *fakeCraft) Flip(d drone.FlipDirection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flips = append(f.flips, d)
	return nil
}

func (f *fakeCraft) SetFast(v bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fast = append(f.fast, v)
	return nil
}

func (f *fakeCraft) Telemetry() drone.Telemetry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tm
}

func (f *fakeCraft) lastSticks() drone.Sticks {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sticks) == 0 {
		return drone.Sticks{}
	}
	return f.sticks[len(f.sticks)-1]
}

func (f *fakeCraft) landCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lands
}

func TestNudgeClamps(t *testing.T) {
	craft := &fakeCraft{}
	c := NewController(craft, Config{Step: 30, MaxStick: 50})

	c.Nudge(drone.Pitch, 1)
	if got := c.Sticks().Pitch; got != 30 {
		t.Errorf("pitch after one nudge = %d, want 30", got)
	}

	c.Nudge(drone.Pitch, 1)
	if got := c.Sticks().Pitch; got != 50 { // clamped at max
		t.Errorf("pitch after two nudges = %d, want 50", got)
	}

	c.Nudge(drone.Pitch, -1)
	if got := c.Sticks().Pitch; got != 20 {
		t.Errorf("pitch after back nudge = %d, want 20", got)
	}

	if last := craft.lastSticks(); last.Pitch != 20 {
		t.Errorf("craft got pitch %d, want 20", last.Pitch)
	}
}

func TestCenterZeroes(t *testing.T) {
	craft := &fakeCraft{}
	c := NewController(craft, Config{})

	c.Nudge(drone.Roll, 1)
	c.Nudge(drone.Throttle, -1)
	c.Center()

	if !c.Sticks().IsZero() {
		t.Errorf("sticks after Center = %+v, want zero", c.Sticks())
	}
	if craft.hovers != 1 {
		t.Errorf("hovers = %d, want 1", craft.hovers)
	}
}

func TestTakeOffSkippedWhileFlying(t *testing.T) {
	craft := &fakeCraft{}
	craft.tm.Flying = true
	c := NewController(craft, Config{})

	c.TakeOff()
	if craft.takeoffs != 0 {
		t.Errorf("takeoffs = %d, want 0 while already flying", craft.takeoffs)
	}

	craft.tm.Flying = false
	c.TakeOff()
	if craft.takeoffs != 1 {
		t.Errorf("takeoffs = %d, want 1", craft.takeoffs)
	}
}

func TestFlipNeedsFlight(t *testing.T) {
	craft := &fakeCraft{}
	c := NewController(craft, Config{})

	c.Flip(drone.FlipFront)
	if len(craft.flips) != 0 {
		t.Error("flip sent while grounded")
	}

	craft.tm.Flying = true
	c.Flip(drone.FlipFront)
	if len(craft.flips) != 1 || craft.flips[0] != drone.FlipFront {
		t.Errorf("flips = %v, want [front]", craft.flips)
	}
}

func TestTickPushesState(t *testing.T) {
	craft := &fakeCraft{}
	craft.tm = drone.Telemetry{Battery: 80}
	c := NewController(craft, Config{})

	c.Nudge(drone.Roll, 1)
	c.tick()

	select {
	case s := <-c.States():
		if s.Sticks.Roll != 10 {
			t.Errorf("state roll = %d, want 10", s.Sticks.Roll)
		}
		if s.Telemetry.Battery != 80 {
			t.Errorf("state battery = %d, want 80", s.Telemetry.Battery)
		}
	default:
		t.Fatal("no state sent")
	}
}

func TestSendStateKeepsNewest(t *testing.T) {
	c := NewController(&fakeCraft{}, Config{})

	c.sendState(State{Sticks: drone.Sticks{Roll: 1}})
	c.sendState(State{Sticks: drone.Sticks{Roll: 2}})
	c.sendState(State{Sticks: drone.Sticks{Roll: 3}})

	s := <-c.States()
	if s.Sticks.Roll != 3 {
		t.Errorf("got state with roll %d, want newest (3)", s.Sticks.Roll)
	}
}

func TestShutdownLandsWhenFlying(t *testing.T) {
	craft := &fakeCraft{}
	craft.tm.Flying = true
	c := NewController(craft, Config{})

	c.Nudge(drone.Throttle, 1)
	c.shutdown()

	if craft.lands != 1 {
		t.Errorf("lands = %d, want 1", craft.lands)
	}
	if last := craft.lastSticks(); !last.IsZero() {
		t.Errorf("sticks not centered on shutdown: %+v", last)
	}
	if !c.Sticks().IsZero() {
		t.Errorf("controller sticks not reset: %+v", c.Sticks())
	}
}

func TestShutdownSkipsLandWhenGrounded(t *testing.T) {
	craft := &fakeCraft{}
	c := NewController(craft, Config{})

	c.shutdown()
	if craft.lands != 0 {
		t.Error("landed a grounded drone")
	}
}

func TestLowBatteryWarnsOnce(t *testing.T) {
	craft := &fakeCraft{}
	craft.tm = drone.Telemetry{Battery: 10}
	c := NewController(craft, Config{})

	c.tick()
	c.tick()

	warnings := 0
drain:
	for {
		select {
		case msg := <-c.Logs():
			if strings.Contains(msg, "LOW BATTERY") {
				warnings++
			}
		default:
			break drain
		}
	}

	if warnings != 1 {
		t.Errorf("low battery warnings = %d, want 1", warnings)
	}
}

func TestStartLandsOnCancel(t *testing.T) {
	craft := &fakeCraft{}
	craft.tm.Flying = true
	c := NewController(craft, Config{Hz: 100})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}

	if craft.landCount() == 0 {
		t.Error("cancel did not land the drone")
	}
	if last := craft.lastSticks(); !last.IsZero() {
		t.Errorf("sticks not centered after cancel: %+v", last)
	}
}
