package video

import (
	"fmt"
	"io"
	"os/exec"
)

// Player pipes raw H.264 video into an external player window.
type Player struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// playerArgs builds the command line for a supported player. Unknown
// binaries are assumed to read raw H.264 from stdin.
func playerArgs(name string) []string {
	switch name {
	case "mplayer":
		return []string{"mplayer", "-fps", "25", "-"}
	case "ffplay":
		return []string{"ffplay", "-fflags", "nobuffer", "-f", "h264", "-i", "pipe:0"}
	default:
		return []string{name, "-"}
	}
}

// StartPlayer launches the named player and returns a sink that writes to
// its stdin.
func StartPlayer(name string) (*Player, error) {
	args := playerArgs(name)
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("video player %q not found: %w", args[0], err)
	}

	cmd := exec.Command(args[0], args[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("player stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", args[0], err)
	}

	return &Player{cmd: cmd, stdin: stdin}, nil
}

// Write sends one frame to the player.
func (p *Player) Write(frame []byte) (int, error) {
	return p.stdin.Write(frame)
}

// Close ends the stream and waits for the player to exit.
func (p *Player) Close() error {
	p.stdin.Close()
	return p.cmd.Wait()
}
