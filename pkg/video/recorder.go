package video

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// Recorder appends raw H.264 video to a timestamped capture file. The
// result plays in VLC, ffplay or mplayer without remuxing.
type Recorder struct {
	f     *os.File
	path  string
	bytes uint64
}

// NewRecorder creates a capture file under dir, or under the working
// directory when dir is empty.
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}

	name := fmt.Sprintf("tello-%s.h264", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}

	return &Recorder{f: f, path: path}, nil
}

// Write appends one frame to the capture file.
func (r *Recorder) Write(frame []byte) (int, error) {
	n, err := r.f.Write(frame)
	r.bytes += uint64(n)
	return n, err
}

// Close flushes and closes the capture file.
func (r *Recorder) Close() error {
	if err := r.f.Sync(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// Path returns the capture file location.
func (r *Recorder) Path() string {
	return r.path
}

// Size returns the bytes written so far in human readable form.
func (r *Recorder) Size() string {
	return humanize.Bytes(r.bytes)
}
