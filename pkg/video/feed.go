// Package video plumbs the drone's raw H.264 camera feed into sinks: an
// external player window, a capture file, or a decoder pipeline.
package video

import (
	"fmt"
	"sync"
	"time"
)

// keepAliveInterval is how often StartVideo is re-sent. The drone stops
// streaming unless it is reminded.
const keepAliveInterval = 500 * time.Millisecond

// Source produces raw H.264 video. *drone.Drone satisfies it.
type Source interface {
	SetVideoRate(name string) error
	StartVideo() error
	OnVideoFrame(fn func(frame []byte)) error
}

// Stats describes the feed since Start.
type Stats struct {
	Frames    uint64
	Bytes     uint64
	Dropped   uint64 // frames discarded because a sink lagged
	LastFrame time.Time
}

// Stale reports whether no frame arrived within the window.
func (s Stats) Stale(now time.Time, window time.Duration) bool {
	if s.LastFrame.IsZero() {
		return true
	}
	return now.Sub(s.LastFrame) > window
}

// Feed subscribes to the camera and fans frames out to sinks. A slow sink
// never blocks the SDK callback: each subscriber has a buffered channel
// and its oldest frame is dropped on overflow.
type Feed struct {
	src       Source
	keepAlive time.Duration

	mu      sync.Mutex
	sinks   []chan []byte
	frames  uint64
	bytes   uint64
	dropped uint64
	last    time.Time
	started bool
	stopped bool
	done    chan struct{}
}

// NewFeed creates a feed for the given source.
func NewFeed(src Source) *Feed {
	return &Feed{
		src:       src,
		keepAlive: keepAliveInterval,
		done:      make(chan struct{}),
	}
}

// Start sets the encoder rate, starts the camera and keeps it streaming.
func (f *Feed) Start(rate string) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return fmt.Errorf("already started")
	}
	f.started = true
	f.mu.Unlock()

	if err := f.src.SetVideoRate(rate); err != nil {
		return fmt.Errorf("set video rate: %w", err)
	}
	if err := f.src.OnVideoFrame(f.publish); err != nil {
		return fmt.Errorf("subscribe video frames: %w", err)
	}
	if err := f.src.StartVideo(); err != nil {
		return fmt.Errorf("start video: %w", err)
	}

	go f.keepAliveLoop()
	return nil
}

func (f *Feed) keepAliveLoop() {
	ticker := time.NewTicker(f.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.src.StartVideo()
		}
	}
}

// Subscribe attaches a sink and returns its frame channel. The channel is
// closed by Stop.
func (f *Feed) Subscribe(buffer int) <-chan []byte {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan []byte, buffer)

	f.mu.Lock()
	if f.stopped {
		close(ch)
	} else {
		f.sinks = append(f.sinks, ch)
	}
	f.mu.Unlock()

	return ch
}

// publish hands one frame to every sink. All sends are non-blocking, so
// holding the lock here keeps Stop and publish mutually exclusive.
func (f *Feed) publish(frame []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}

	f.frames++
	f.bytes += uint64(len(frame))
	f.last = time.Now()

	for _, ch := range f.sinks {
		select {
		case ch <- frame:
		default:
			// Sink is lagging: drop its oldest frame and retry once.
			select {
			case <-ch:
				f.dropped++
			default:
			}
			select {
			case ch <- frame:
			default:
			}
		}
	}
}

// Stop ends the keepalive and closes all sink channels.
func (f *Feed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.stopped = true

	close(f.done)
	for _, ch := range f.sinks {
		close(ch)
	}
	f.sinks = nil
}

// Stats returns the feed counters.
func (f *Feed) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{
		Frames:    f.frames,
		Bytes:     f.bytes,
		Dropped:   f.dropped,
		LastFrame: f.last,
	}
}
