package video

import (
	"strings"
	"testing"
)

func TestPlayerArgs(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"mplayer", "mplayer -fps 25 -"},
		{"ffplay", "ffplay -fflags nobuffer -f h264 -i pipe:0"},
		{"myplayer", "myplayer -"}, // unknown players read stdin
	}

	for _, tt := range tests {
		if got := strings.Join(playerArgs(tt.name), " "); got != tt.expected {
			t.Errorf("playerArgs(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestStartPlayerMissingBinary(t *testing.T) {
	if _, err := StartPlayer("no-such-player-on-any-system"); err == nil {
		t.Error("expected an error for a missing player binary")
	}
}
