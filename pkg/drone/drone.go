package drone

import (
	"fmt"
	"sync"
	"time"

	"gobot.io/x/gobot/v2"
	"gobot.io/x/gobot/v2/platforms/dji/tello"
)

// FlipDirection selects one of the drone's four flip stunts.
type FlipDirection string

const (
	FlipFront FlipDirection = "front"
	FlipBack  FlipDirection = "back"
	FlipLeft  FlipDirection = "left"
	FlipRight FlipDirection = "right"
)

// Drone wraps the SDK driver and its robot lifecycle behind one handle.
// The SDK owns the wire protocol, the UDP session and video reassembly;
// this type only calls its methods and folds its events into telemetry.
type Drone struct {
	driver *tello.Driver
	robot  *gobot.Robot

	mu        sync.RWMutex
	telemetry Telemetry

	connected chan struct{}
	connOnce  sync.Once
}

// Dial connects to the drone and waits until it answers. The machine must
// already be joined to the drone's WiFi network.
func Dial(nc NetworkConfig) (*Drone, error) {
	def := DefaultConfig().Network
	if nc.DroneIP == "" {
		nc.DroneIP = def.DroneIP
	}
	if nc.LocalPort == "" {
		nc.LocalPort = def.LocalPort
	}
	if nc.ConnectTimeout <= 0 {
		nc.ConnectTimeout = def.ConnectTimeout
	}

	d := &Drone{
		driver:    tello.NewDriverWithIP(nc.DroneIP, nc.LocalPort),
		connected: make(chan struct{}),
	}

	// Register handlers before the robot starts so no event is missed.
	handlers := []struct {
		event string
		fn    func(interface{})
	}{
		{tello.ConnectedEvent, d.onConnected},
		{tello.FlightDataEvent, d.onFlightData},
		{tello.WifiDataEvent, d.onWifiData},
		{tello.LightStrengthEvent, d.onLightStrength},
	}
	for _, h := range handlers {
		if err := d.driver.On(h.event, h.fn); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", h.event, err)
		}
	}

	d.robot = gobot.NewRobot("tello",
		[]gobot.Connection{},
		[]gobot.Device{d.driver},
	)
	if err := d.robot.Start(false); err != nil {
		return nil, fmt.Errorf("start driver: %w", err)
	}

	timeout := time.Duration(nc.ConnectTimeout) * time.Second
	select {
	case <-d.connected:
	case <-time.After(timeout):
		d.robot.Stop()
		return nil, fmt.Errorf("no answer from drone at %s within %s", nc.DroneIP, timeout)
	}

	return d, nil
}

// Close halts the driver. The SDK lands the drone as part of Halt, so a
// closed session never leaves the motors running.
func (d *Drone) Close() error {
	return d.robot.Stop()
}

// Telemetry returns the latest telemetry snapshot.
func (d *Drone) Telemetry() Telemetry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.telemetry
}

func (d *Drone) onConnected(interface{}) {
	d.connOnce.Do(func() { close(d.connected) })
}

func (d *Drone) onFlightData(data interface{}) {
	fd, ok := data.(*tello.FlightData)
	if !ok {
		return
	}
	d.mu.Lock()
	d.telemetry = d.telemetry.withFlightData(fd, time.Now())
	d.mu.Unlock()
}

func (d *Drone) onWifiData(data interface{}) {
	wd, ok := data.(*tello.WifiData)
	if !ok {
		return
	}
	d.mu.Lock()
	d.telemetry = d.telemetry.withWifiData(wd, time.Now())
	d.mu.Unlock()
}

func (d *Drone) onLightStrength(data interface{}) {
	strength, ok := data.(int8)
	if !ok {
		return
	}
	d.mu.Lock()
	d.telemetry = d.telemetry.withLight(strength, time.Now())
	d.mu.Unlock()
}

// TakeOff launches the drone.
func (d *Drone) TakeOff() error {
	if err := d.driver.TakeOff(); err != nil {
		return fmt.Errorf("take off: %w", err)
	}
	return nil
}

// Land brings the drone down.
func (d *Drone) Land() error {
	if err := d.driver.Land(); err != nil {
		return fmt.Errorf("land: %w", err)
	}
	return nil
}

// Hover zeroes all sticks so the drone holds position.
func (d *Drone) Hover() {
	d.driver.Hover()
}

// SetSticks pushes the four stick deflections to the drone. The SDK
// expresses each sign as its own method, so values are routed by sign.
func (d *Drone) SetSticks(s Sticks) error {
	if err := setAxis(d.driver.Right, d.driver.Left, s.Roll); err != nil {
		return fmt.Errorf("set roll: %w", err)
	}
	if err := setAxis(d.driver.Forward, d.driver.Backward, s.Pitch); err != nil {
		return fmt.Errorf("set pitch: %w", err)
	}
	if err := setAxis(d.driver.Up, d.driver.Down, s.Throttle); err != nil {
		return fmt.Errorf("set throttle: %w", err)
	}
	if err := setAxis(d.driver.Clockwise, d.driver.CounterClockwise, s.Yaw); err != nil {
		return fmt.Errorf("set yaw: %w", err)
	}
	return nil
}

// setAxis routes a signed percentage onto the SDK method for its sign.
// Zero goes through the positive method to center the axis.
func setAxis(pos, neg func(int) error, v int) error {
	v = Clamp(v, 100)
	if v < 0 {
		return neg(-v)
	}
	return pos(v)
}

// Flip performs one of the drone's flip stunts.
func (d *Drone) Flip(dir FlipDirection) error {
	var err error
	switch dir {
	case FlipFront:
		err = d.driver.FrontFlip()
	case FlipBack:
		err = d.driver.BackFlip()
	case FlipLeft:
		err = d.driver.LeftFlip()
	case FlipRight:
		err = d.driver.RightFlip()
	default:
		return fmt.Errorf("unknown flip direction %q", dir)
	}
	if err != nil {
		return fmt.Errorf("%s flip: %w", dir, err)
	}
	return nil
}

// SetFast switches between fast (sport) and slow flight mode.
func (d *Drone) SetFast(fast bool) error {
	if fast {
		return d.driver.SetFastMode()
	}
	return d.driver.SetSlowMode()
}

// SetExposure sets the camera exposure level (0, 1 or 2).
func (d *Drone) SetExposure(level int) error {
	return d.driver.SetExposure(level)
}

// SetVideoRate sets the camera encoder bit rate by its config name
// ("auto", "1M", "1.5M", "2M", "3M", "4M").
func (d *Drone) SetVideoRate(name string) error {
	return d.driver.SetVideoEncoderRate(videoBitRate(name))
}

// StartVideo asks the drone to (re)start sending video frames. The drone
// stops streaming unless this is re-sent periodically.
func (d *Drone) StartVideo() error {
	return d.driver.StartVideo()
}

// OnVideoFrame registers fn for raw H.264 frames from the camera.
func (d *Drone) OnVideoFrame(fn func(frame []byte)) error {
	return d.driver.On(tello.VideoFrameEvent, func(data interface{}) {
		if frame, ok := data.([]byte); ok {
			fn(frame)
		}
	})
}

// videoBitRate maps a config rate name onto the SDK constant. Unknown
// names fall back to auto.
func videoBitRate(name string) tello.VideoBitRate {
	switch name {
	case "1M":
		return tello.VideoBitRate1M
	case "1.5M":
		return tello.VideoBitRate15M
	case "2M":
		return tello.VideoBitRate2M
	case "3M":
		return tello.VideoBitRate3M
	case "4M":
		return tello.VideoBitRate4M
	default:
		return tello.VideoBitRateAuto
	}
}
