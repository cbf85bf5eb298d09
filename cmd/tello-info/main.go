package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/tello-rc/pkg/drone"
)

func main() {
	var (
		droneIP = flag.String("ip", "", "drone IP (default from tello.json)")
		port    = flag.String("port", "", "local UDP port for drone traffic")
		wait    = flag.Duration("wait", 3*time.Second, "how long to sample telemetry")
	)
	flag.Parse()

	fmt.Println("🚁 Tello Link Check")
	fmt.Println("━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	cfg, err := drone.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading %s: %v\n", drone.DefaultConfigFile, err)
		os.Exit(1)
	}
	if *droneIP != "" {
		cfg.Network.DroneIP = *droneIP
	}
	if *port != "" {
		cfg.Network.LocalPort = *port
	}

	fmt.Printf("Connecting to %s...\n", cfg.Network.DroneIP)

	d, err := drone.Dial(cfg.Network)
	if err != nil {
		fmt.Println()
		fmt.Printf("Could not reach the drone: %v\n", err)
		fmt.Println()
		fmt.Println("Power the drone on and wait for the blinking yellow light,")
		fmt.Println("then join its TELLO-XXXXXX WiFi network and try again.")
		os.Exit(1)
	}
	defer d.Close()

	// Let a few telemetry packets arrive before reading
	fmt.Printf("Connected. Sampling telemetry for %s...\n\n", *wait)
	time.Sleep(*wait)

	tm := d.Telemetry()

	if tm.Updated.IsZero() {
		fmt.Println("⚠ Connected but no telemetry received.")
		fmt.Println("  The link may be unstable. Move closer to the drone.")
		os.Exit(1)
	}

	flying := "no"
	if tm.Flying {
		flying = "yes"
	}

	rows := [][]string{
		{"Battery", fmt.Sprintf("%d%%", tm.Battery)},
		{"Height", fmt.Sprintf("%.1f m", tm.Height)},
		{"Ground speed", fmt.Sprintf("%.1f m/s", tm.GroundSpeed)},
		{"Flight time", tm.FlightTime.Round(time.Second).String()},
		{"WiFi signal", fmt.Sprintf("%d%%", tm.WifiStrength)},
		{"Interference", fmt.Sprintf("%d%%", tm.WifiDisturb)},
		{"Light", fmt.Sprintf("%d", tm.LightStrength)},
		{"Flying", flying},
		{"Video rate", cfg.Video.Rate},
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Reading", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return nameStyle
			}
			return cellStyle
		})

	fmt.Println(t.Render())
	fmt.Println()

	if tm.BatteryLow || tm.Battery <= 20 {
		fmt.Printf("⚠ Battery at %d%%. Charge before flying.\n", tm.Battery)
		fmt.Println()
	}

	fmt.Println("Fly with:")
	fmt.Println("  go run ./cmd/tello-rc fly")
}
