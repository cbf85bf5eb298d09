package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/gwillem/tello-rc/pkg/drone"
	"github.com/gwillem/tello-rc/pkg/pilot"
	"github.com/gwillem/tello-rc/pkg/video"
	"github.com/gwillem/tello-rc/pkg/vision"
)

const (
	staleAfter  = 2 * time.Second // no frames for this long means the feed is stale
	staleRepeat = 5 * time.Second // minimum gap between stale warnings
)

func main() {
	// Parse command-line flags
	var (
		droneIP = flag.String("ip", "", "Drone IP (optional if tello.json exists)")
		port    = flag.String("port", "", "Local UDP port for drone traffic")
		step    = flag.Int("step", 0, "Stick change per keypress (default from tello.json)")
	)
	flag.Parse()

	// Flags override the config file
	cfg, err := drone.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *droneIP != "" {
		cfg.Network.DroneIP = *droneIP
	}
	if *port != "" {
		cfg.Network.LocalPort = *port
	}
	if *step > 0 {
		cfg.Flight.Step = *step
	}

	fmt.Printf("Connecting to %s...\n", cfg.Network.DroneIP)
	d, err := drone.Dial(cfg.Network)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not reach the drone: %v\n", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Join the drone's TELLO-XXXXXX WiFi network first,")
		fmt.Fprintln(os.Stderr, "or specify the address manually with -ip")
		os.Exit(1)
	}
	defer d.Close()

	// ffmpeg turns the raw H.264 stream into frames OpenCV can show
	decoder, err := vision.StartDecoder()
	if err != nil {
		log.Fatalf("Failed to start decoder: %v", err)
	}
	defer decoder.Close()

	feed := video.NewFeed(d)
	if err := feed.Start(cfg.Video.Rate); err != nil {
		log.Fatalf("Failed to start camera: %v", err)
	}
	defer feed.Stop()

	if err := d.SetExposure(0); err != nil {
		log.Printf("Set exposure: %v", err)
	}

	frames := feed.Subscribe(16)
	go func() {
		for frame := range frames {
			if _, err := decoder.Write(frame); err != nil {
				return
			}
		}
	}()

	// Decode in the background so a stalled feed cannot freeze the window
	// or the flight keys.
	decoded := make(chan []byte, 1)
	go func() {
		defer close(decoded)
		for {
			frame, err := decoder.ReadFrame()
			if err != nil {
				return
			}
			select {
			case decoded <- frame:
			default:
				// Viewer is busy, skip the frame
			}
		}
	}()

	// Create controller
	ctrl := pilot.NewController(d, pilot.Config{
		Hz:       cfg.Flight.Hz,
		Step:     cfg.Flight.Step,
		MaxStick: cfg.Flight.MaxStick,
		Fast:     cfg.Flight.Fast,
	})

	// Start controller in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	// Controller log lines go straight to the terminal
	go func() {
		for msg := range ctrl.Logs() {
			fmt.Println(msg)
		}
	}()

	window := gocv.NewWindow("Tello")
	defer window.Close()

	fmt.Println("Keys: w/s pitch, a/d roll, k/j climb, n/m yaw, h hover, t takeoff, l land, q quit")

	lastFrame := time.Now()
	warned := time.Now()

view:
	for {
		select {
		case frame, ok := <-decoded:
			if !ok {
				log.Print("Video stream ended")
				break view
			}
			lastFrame = time.Now()

			img, err := gocv.NewMatFromBytes(vision.FrameHeight, vision.FrameWidth, gocv.MatTypeCV8UC3, frame)
			if err != nil {
				continue
			}
			if img.Empty() {
				img.Close()
				continue
			}

			enhanced := gocv.NewMat()
			vision.Enhance(img, &enhanced)
			window.IMShow(enhanced)
			img.Close()
			enhanced.Close()

		case <-time.After(40 * time.Millisecond):
			// No new frame this cycle; keep the window responsive
		}

		if time.Since(lastFrame) > staleAfter && time.Since(warned) > staleRepeat {
			log.Print("No video frames, check the WiFi link")
			warned = time.Now()
		}

		if done := handleKey(ctrl, window.WaitKey(1)); done {
			break view
		}
	}
}

// handleKey applies one viewer keystroke. Returns true when the session ends.
func handleKey(ctrl *pilot.Controller, key int) bool {
	switch vision.KeyAction(key) {
	case vision.ActionQuit:
		return true
	case vision.ActionTakeOff:
		ctrl.TakeOff()
	case vision.ActionLand:
		ctrl.Land()
	case vision.ActionHover:
		ctrl.Center()
	case vision.ActionPitchForward:
		ctrl.Nudge(drone.Pitch, 1)
	case vision.ActionPitchBack:
		ctrl.Nudge(drone.Pitch, -1)
	case vision.ActionRollLeft:
		ctrl.Nudge(drone.Roll, -1)
	case vision.ActionRollRight:
		ctrl.Nudge(drone.Roll, 1)
	case vision.ActionThrottleUp:
		ctrl.Nudge(drone.Throttle, 1)
	case vision.ActionThrottleDown:
		ctrl.Nudge(drone.Throttle, -1)
	case vision.ActionYawLeft:
		ctrl.Nudge(drone.Yaw, -1)
	case vision.ActionYawRight:
		ctrl.Nudge(drone.Yaw, 1)
	}
	return false
}
