package vision

import (
	"strings"
	"testing"
)

func TestDecoderArgs(t *testing.T) {
	args := strings.Join(DecoderArgs(), " ")

	for _, want := range []string{
		"-i pipe:0",
		"-pix_fmt bgr24",
		"-s 960x720",
		"-f rawvideo",
		"pipe:1",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("decoder args %q missing %q", args, want)
		}
	}
}
