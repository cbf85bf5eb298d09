package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/tello-rc/pkg/drone"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

type SetupCommand struct {
	NoProbe bool `long:"no-probe" description:"Save settings without contacting the drone"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Tello Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := drone.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Step 1: Ask for settings
	askSettings(cfg)

	// Step 2: Probe the link, unless skipped
	if !c.NoProbe {
		fmt.Println()
		fmt.Println(subHeaderStyle.Render("━━━ Checking the drone link ━━━"))
		fmt.Println()
		checkLink(cfg)
	}

	// Save final config
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", drone.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start flying with: " + headerStyle.Render("tello-rc fly"))

	return nil
}

func askSettings(cfg *drone.Config) {
	profile := "standard"
	if cfg.Flight.MaxStick > 0 && cfg.Flight.MaxStick <= 50 {
		profile = "gentle"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Drone IP").
				Description("The drone's address on its own WiFi network").
				Value(&cfg.Network.DroneIP),
			huh.NewInput().
				Title("Local UDP port").
				Description("Port this machine listens on for drone traffic").
				Value(&cfg.Network.LocalPort),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Flight profile").
				Description("How far the virtual sticks may deflect").
				Options(
					huh.NewOption("Gentle (sticks capped at 50%)", "gentle"),
					huh.NewOption("Standard (full stick range)", "standard"),
				).
				Value(&profile),
			huh.NewSelect[string]().
				Title("Video player").
				Description("External program that shows the onboard camera").
				Options(
					huh.NewOption("mplayer", "mplayer"),
					huh.NewOption("ffplay", "ffplay"),
					huh.NewOption("none (fly without video)", "none"),
				).
				Value(&cfg.Video.Player),
			huh.NewSelect[string]().
				Title("Video bit rate").
				Options(
					huh.NewOption("auto", "auto"),
					huh.NewOption("1 Mbit/s", "1M"),
					huh.NewOption("1.5 Mbit/s", "1.5M"),
					huh.NewOption("2 Mbit/s", "2M"),
					huh.NewOption("3 Mbit/s", "3M"),
					huh.NewOption("4 Mbit/s", "4M"),
				).
				Value(&cfg.Video.Rate),
		),
	)

	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	switch profile {
	case "gentle":
		cfg.Flight.MaxStick = 50
	default:
		cfg.Flight.MaxStick = 100
	}
}

func checkLink(cfg *drone.Config) {
	fmt.Printf("Connecting to %s...\n", cfg.Network.DroneIP)
	fmt.Println()

	d, err := drone.Dial(cfg.Network)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not reach the drone: %v\n", err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Power the drone on, wait for the blinking yellow light,")
		fmt.Fprintln(os.Stderr, "join its TELLO-XXXXXX WiFi network and run setup again.")
		os.Exit(1)
	}
	defer d.Close()

	// Run link check TUI
	model := newLinkModel(d)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running link check: %v\n", err)
		os.Exit(1)
	}

	lm := finalModel.(linkModel)
	fmt.Println()
	switch {
	case lm.samples == 0 || lm.cur.Updated.IsZero():
		fmt.Println(warnStyle.Render("No telemetry received. The link may be unstable."))
	case lm.cur.Battery <= 20:
		fmt.Printf("⚠ Battery at %d%%. Charge before a longer flight.\n", lm.cur.Battery)
	default:
		fmt.Println(successStyle.Render("Link looks good."))
	}
}

// Link check TUI model
type linkModel struct {
	drone    *drone.Drone
	cur      drone.Telemetry
	minWifi  int
	maxWifi  int
	samples  int
	quitting bool
}

type tickMsg time.Time

func newLinkModel(d *drone.Drone) linkModel {
	return linkModel{drone: d}
}

func (m linkModel) Init() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m linkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		// Fold in the latest telemetry sample
		m.cur = m.drone.Telemetry()
		if m.samples == 0 || m.cur.WifiStrength < m.minWifi {
			m.minWifi = m.cur.WifiStrength
		}
		if m.cur.WifiStrength > m.maxWifi {
			m.maxWifi = m.cur.WifiStrength
		}
		m.samples++
		return m, tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}

	return m, nil
}

func (m linkModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	// Table styles
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableNameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableBadStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := [][]string{
		{"Battery", fmt.Sprintf("%d%%", m.cur.Battery)},
		{"WiFi signal", fmt.Sprintf("%d%% (min %d, max %d)", m.cur.WifiStrength, m.minWifi, m.maxWifi)},
		{"Interference", fmt.Sprintf("%d%%", m.cur.WifiDisturb)},
		{"Light", fmt.Sprintf("%d", m.cur.LightStrength)},
		{"Height", fmt.Sprintf("%.1f m", m.cur.Height)},
		{"Samples", fmt.Sprintf("%d", m.samples)},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Reading", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return tableNameStyle
			}
			switch row {
			case 0: // battery
				if m.cur.Battery <= 20 {
					return tableBadStyle
				}
				return tableGoodStyle
			case 1: // wifi signal
				if m.cur.WifiStrength < 50 {
					return tableBadStyle
				}
				return tableGoodStyle
			default:
				return tableCellStyle
			}
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Walk around with the drone to watch the signal. Press Enter when done"))

	return sb.String()
}
