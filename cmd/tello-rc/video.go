package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gwillem/tello-rc/pkg/drone"
	"github.com/gwillem/tello-rc/pkg/video"
)

type VideoCommand struct {
	Record bool `long:"record" description:"Write the stream to a timestamped .h264 capture file"`
	NoPlay bool `long:"no-play" description:"Skip the player window (useful with --record)"`
}

func (c *VideoCommand) Execute(args []string) error {
	cfg, err := drone.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	playerName := cfg.Video.Player
	if c.NoPlay {
		playerName = "none"
	}
	if playerName == "none" && !c.Record {
		return fmt.Errorf("nothing to do: configure a player with 'tello-rc setup' or pass --record")
	}

	fmt.Printf("Connecting to %s...\n", cfg.Network.DroneIP)
	d, err := drone.Dial(cfg.Network)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not reach the drone: %v\n", err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Join the drone's TELLO-XXXXXX WiFi network first, or run 'tello-rc setup'.")
		os.Exit(1)
	}
	defer d.Close()

	feed := video.NewFeed(d)
	if err := feed.Start(cfg.Video.Rate); err != nil {
		return fmt.Errorf("start camera: %w", err)
	}
	defer feed.Stop()

	var wg sync.WaitGroup

	if playerName != "none" {
		player, err := video.StartPlayer(playerName)
		if err != nil {
			if !c.Record {
				return fmt.Errorf("%w (install it or run 'tello-rc setup')", err)
			}
			fmt.Fprintf(os.Stderr, "Recording without a window: %v\n", err)
		} else {
			fmt.Printf("Streaming to %s. Press Ctrl-C to stop.\n", playerName)
			frames := feed.Subscribe(8)
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer player.Close()
				for frame := range frames {
					if _, err := player.Write(frame); err != nil {
						return
					}
				}
			}()
		}
	}

	var rec *video.Recorder
	if c.Record {
		rec, err = video.NewRecorder(cfg.Video.RecordDir)
		if err != nil {
			return fmt.Errorf("start recording: %w", err)
		}
		fmt.Printf("Recording to %s\n", rec.Path())
		frames := feed.Subscribe(16)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for frame := range frames {
				if _, err := rec.Write(frame); err != nil {
					log.Printf("Recording error: %v", err)
					return
				}
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			stats := feed.Stats()
			if stats.Stale(time.Now(), 2*time.Second) {
				fmt.Println("No video frames received, check the WiFi link")
				continue
			}
			fmt.Printf("%d frames, %s", stats.Frames, humanize.Bytes(stats.Bytes))
			if stats.Dropped > 0 {
				fmt.Printf(", %d dropped", stats.Dropped)
			}
			fmt.Println()
		}
	}

	fmt.Println()
	feed.Stop()
	wg.Wait()

	stats := feed.Stats()
	fmt.Printf("Received %d frames (%s)\n", stats.Frames, humanize.Bytes(stats.Bytes))
	if rec != nil {
		if err := rec.Close(); err != nil {
			return fmt.Errorf("close capture: %w", err)
		}
		fmt.Printf("Saved %s (%s)\n", rec.Path(), rec.Size())
	}

	return nil
}
