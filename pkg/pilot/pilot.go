// Package pilot provides keyboard-style flight control on top of a drone
// handle: an incremental stick model plus the control loop that feeds it
// to the drone.
package pilot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gwillem/tello-rc/pkg/drone"
)

// LowBattery is the charge percentage at or below which the loop warns.
const LowBattery = 15

// Craft is the part of the drone handle the controller drives.
// *drone.Drone satisfies it.
type Craft interface {
	TakeOff() error
	Land() error
	Hover()
	SetSticks(drone.Sticks) error
	Flip(drone.FlipDirection) error
	SetFast(bool) error
	Telemetry() drone.Telemetry
}

// State represents the current state of the flight loop.
type State struct {
	Sticks    drone.Sticks
	Telemetry drone.Telemetry
	Fast      bool
	Timestamp time.Time
}

// Config holds configuration for the controller.
type Config struct {
	Hz       int          // control loop frequency
	Step     int          // stick change per nudge
	MaxStick int          // clamp for every axis
	Fast     bool         // start in fast (sport) mode
	Debug    *slog.Logger // optional debug log, may be nil
}

// Controller manages the flight control loop.
type Controller struct {
	craft    Craft
	hz       int
	stepSize int
	max      int
	debug    *slog.Logger

	mu      sync.Mutex
	sticks  drone.Sticks
	fast    bool
	running bool
	warned  bool

	stateCh chan State
	logCh   chan string
}

// NewController creates a new flight controller.
func NewController(craft Craft, cfg Config) *Controller {
	if cfg.Hz <= 0 {
		cfg.Hz = 20
	}
	if cfg.Step <= 0 {
		cfg.Step = 10
	}
	if cfg.MaxStick <= 0 || cfg.MaxStick > 100 {
		cfg.MaxStick = 100
	}

	return &Controller{
		craft:    craft,
		hz:       cfg.Hz,
		stepSize: cfg.Step,
		max:      cfg.MaxStick,
		fast:     cfg.Fast,
		debug:    cfg.Debug,
		stateCh:  make(chan State, 1),
		logCh:    make(chan string, 10),
	}
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// Step returns the stick change applied per nudge.
func (c *Controller) Step() int {
	return c.stepSize
}

// Sticks returns the current stick deflections.
func (c *Controller) Sticks() drone.Sticks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sticks
}

func (c *Controller) log(format string, args ...any) {
	if c.debug != nil {
		c.debug.Debug(fmt.Sprintf(format, args...))
	}
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Nudge shifts one axis by the configured step in the given direction and
// pushes the result to the drone. The axis is clamped to the configured
// maximum after every change.
func (c *Controller) Nudge(axis drone.Axis, dir int) {
	step := c.stepSize
	if dir < 0 {
		step = -step
	}

	c.mu.Lock()
	v := drone.Clamp(c.sticks.Value(axis)+step, c.max)
	c.sticks = c.sticks.WithValue(axis, v)
	s := c.sticks
	c.mu.Unlock()

	if err := c.craft.SetSticks(s); err != nil {
		c.log("Stick error: %v", err)
	}
}

// Center zeroes all sticks so the drone hovers in place.
func (c *Controller) Center() {
	c.mu.Lock()
	c.sticks = drone.Sticks{}
	c.mu.Unlock()

	c.craft.Hover()
	c.log("Hover")
}

// TakeOff launches the drone unless it is already flying.
func (c *Controller) TakeOff() {
	if c.craft.Telemetry().Flying {
		c.log("Already flying")
		return
	}
	c.log("Taking off")
	if err := c.craft.TakeOff(); err != nil {
		c.log("Take off error: %v", err)
	}
}

// Land zeroes the sticks and brings the drone down.
func (c *Controller) Land() {
	c.mu.Lock()
	c.sticks = drone.Sticks{}
	c.mu.Unlock()

	c.log("Landing")
	if err := c.craft.Land(); err != nil {
		c.log("Land error: %v", err)
	}
}

// Flip performs a stunt. Ignored while the drone is not flying.
func (c *Controller) Flip(dir drone.FlipDirection) {
	if !c.craft.Telemetry().Flying {
		c.log("Flip ignored: not flying")
		return
	}
	c.log("Flip: %s", dir)
	if err := c.craft.Flip(dir); err != nil {
		c.log("Flip error: %v", err)
	}
}

// ToggleFast switches between slow and fast flight mode.
func (c *Controller) ToggleFast() {
	c.mu.Lock()
	c.fast = !c.fast
	fast := c.fast
	c.mu.Unlock()

	if err := c.craft.SetFast(fast); err != nil {
		c.log("Mode error: %v", err)
		return
	}
	if fast {
		c.log("Fast mode on")
	} else {
		c.log("Fast mode off")
	}
}

// Start begins the flight control loop.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	fast := c.fast
	c.mu.Unlock()

	if err := c.craft.SetFast(fast); err != nil {
		c.log("Warning: failed to set flight mode: %v", err)
	}
	c.log("Flight control started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Controller) tick() {
	c.mu.Lock()
	s := c.sticks
	fast := c.fast
	c.mu.Unlock()

	// Re-push the sticks every tick so a lost packet cannot stall an axis.
	if err := c.craft.SetSticks(s); err != nil {
		c.log("Stick error: %v", err)
	}

	tm := c.craft.Telemetry()
	c.checkBattery(tm)

	c.sendState(State{
		Sticks:    s,
		Telemetry: tm,
		Fast:      fast,
		Timestamp: time.Now(),
	})
}

// checkBattery warns once while the battery stays low.
func (c *Controller) checkBattery(tm drone.Telemetry) {
	low := tm.BatteryLow || (tm.Battery > 0 && tm.Battery <= LowBattery)

	c.mu.Lock()
	warn := low && !c.warned
	c.warned = low
	c.mu.Unlock()

	if warn {
		c.log("LOW BATTERY: %d%%, land soon", tm.Battery)
	}
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.sticks = drone.Sticks{}
	c.mu.Unlock()

	// Motors are never left running past this point.
	if err := c.craft.SetSticks(drone.Sticks{}); err != nil {
		c.log("Warning: failed to center sticks: %v", err)
	}
	if c.craft.Telemetry().Flying {
		c.log("Landing before exit")
		if err := c.craft.Land(); err != nil {
			c.log("Warning: failed to land: %v", err)
		}
	}
	c.log("Flight control stopped")
}
