// Package vision decodes the camera stream into OpenCV frames and maps
// viewer keystrokes onto flight actions.
package vision

import (
	"fmt"
	"io"
	"os/exec"
)

// Decoded frame geometry. The drone camera streams 960x720 H.264; ffmpeg
// converts it to packed BGR for OpenCV.
const (
	FrameWidth  = 960
	FrameHeight = 720
	frameDepth  = 3
)

// FrameSize is the byte length of one decoded BGR frame.
const FrameSize = FrameWidth * FrameHeight * frameDepth

// DecoderArgs returns the ffmpeg arguments that turn raw H.264 on stdin
// into raw BGR frames on stdout.
func DecoderArgs() []string {
	return []string{
		"-hwaccel", "auto",
		"-hide_banner", "-loglevel", "quiet",
		"-i", "pipe:0",
		"-pix_fmt", "bgr24",
		"-s", fmt.Sprintf("%dx%d", FrameWidth, FrameHeight),
		"-f", "rawvideo",
		"pipe:1",
	}
}

// Decoder wraps an ffmpeg process that converts the H.264 stream into
// fixed-size BGR frames.
type Decoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
}

// StartDecoder launches ffmpeg for the stream.
func StartDecoder() (*Decoder, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	cmd := exec.Command("ffmpeg", DecoderArgs()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	return &Decoder{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// Write feeds raw H.264 data into the decoder.
func (d *Decoder) Write(p []byte) (int, error) {
	return d.stdin.Write(p)
}

// ReadFrame blocks until one full BGR frame is decoded.
func (d *Decoder) ReadFrame() ([]byte, error) {
	buf := make([]byte, FrameSize)
	if _, err := io.ReadFull(d.stdout, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close shuts the decoder down.
func (d *Decoder) Close() error {
	d.stdin.Close()
	return d.cmd.Wait()
}
