// Package tellorc provides keyboard flight control for the DJI Tello quadcopter.
//
// This is a Go implementation built on the gobot Tello driver, allowing you
// to fly the drone from a terminal cockpit with live telemetry and to watch
// or record the onboard camera.
//
// # Installation
//
//	go install github.com/gwillem/tello-rc/cmd/tello-rc@latest
//
// # Usage
//
// Join the drone's TELLO-XXXXXX WiFi network, then run setup to check the
// link and save flight settings:
//
//	tello-rc setup
//
// Then start flying:
//
//	tello-rc fly
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/tello-rc: CLI with setup, fly and video commands
//   - cmd/tello-info: Standalone link and telemetry check
//   - cmd/tello-cv: OpenCV viewer with flight keys
//   - pkg/drone: Tello connection, sticks, telemetry, and configuration
//   - pkg/pilot: Flight control loop
//   - pkg/video: Camera feed fan-out, player, and recorder
//   - pkg/vision: Frame decoding and image enhancement
package tellorc
