package drone

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Network.DroneIP != "192.168.10.1" {
		t.Errorf("DroneIP = %s, want 192.168.10.1", cfg.Network.DroneIP)
	}
	if cfg.Network.LocalPort != "8888" {
		t.Errorf("LocalPort = %s, want 8888", cfg.Network.LocalPort)
	}
	if cfg.Network.ConnectTimeout != 10 {
		t.Errorf("ConnectTimeout = %d, want 10", cfg.Network.ConnectTimeout)
	}
	if cfg.Flight.Hz != 20 {
		t.Errorf("Hz = %d, want 20", cfg.Flight.Hz)
	}
	if cfg.Flight.Step != 10 {
		t.Errorf("Step = %d, want 10", cfg.Flight.Step)
	}
	if cfg.Flight.MaxStick != 100 {
		t.Errorf("MaxStick = %d, want 100", cfg.Flight.MaxStick)
	}
	if cfg.Video.Rate != "auto" {
		t.Errorf("Rate = %s, want auto", cfg.Video.Rate)
	}
	if cfg.Video.Player != "mplayer" {
		t.Errorf("Player = %s, want mplayer", cfg.Video.Player)
	}
}

func TestLoadConfigFromMissing(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}

	// Falls back to defaults so commands work without setup.
	if cfg.Network.DroneIP != "192.168.10.1" {
		t.Errorf("DroneIP = %s, want default", cfg.Network.DroneIP)
	}
	if cfg.Flight.Hz != 20 {
		t.Errorf("Hz = %d, want default 20", cfg.Flight.Hz)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tello.json")

	cfg := DefaultConfig()
	cfg.Network.DroneIP = "192.168.10.2"
	cfg.Flight.Hz = 30
	cfg.Flight.Fast = true
	cfg.Video.Rate = "2M"
	cfg.Video.Player = "ffplay"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}

	if got.Network.DroneIP != "192.168.10.2" {
		t.Errorf("DroneIP = %s, want 192.168.10.2", got.Network.DroneIP)
	}
	if got.Flight.Hz != 30 {
		t.Errorf("Hz = %d, want 30", got.Flight.Hz)
	}
	if !got.Flight.Fast {
		t.Error("Fast = false, want true")
	}
	if got.Video.Rate != "2M" {
		t.Errorf("Rate = %s, want 2M", got.Video.Rate)
	}
	if got.Video.Player != "ffplay" {
		t.Errorf("Player = %s, want ffplay", got.Video.Player)
	}
}

func TestLoadConfigFromPartial(t *testing.T) {
	// Fields absent from the file keep their defaults.
	path := filepath.Join(t.TempDir(), "tello.json")
	if err := os.WriteFile(path, []byte(`{"flight":{"hz":30}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}

	if cfg.Flight.Hz != 30 {
		t.Errorf("Hz = %d, want 30", cfg.Flight.Hz)
	}
	if cfg.Flight.Step != 10 {
		t.Errorf("Step = %d, want default 10", cfg.Flight.Step)
	}
	if cfg.Network.DroneIP != "192.168.10.1" {
		t.Errorf("DroneIP = %s, want default", cfg.Network.DroneIP)
	}
}

func TestLoadConfigFromCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tello.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigFrom(path); err == nil {
		t.Error("corrupt file should error")
	}
}
