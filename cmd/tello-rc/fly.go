package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/tello-rc/pkg/drone"
	"github.com/gwillem/tello-rc/pkg/pilot"
	"github.com/gwillem/tello-rc/pkg/video"
)

type FlyCommand struct {
	Hz      int  `long:"hz" env:"TELLO_HZ" description:"Control loop frequency (default from tello.json)"`
	NoVideo bool `long:"no-video" description:"Fly without the live video window"`
	Debug   bool `long:"debug" description:"Append JSON debug records to tello-rc.log"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	statusHeight = 1 // telemetry line
	footerHeight = 7 // log box height
	helpHeight   = 1 // key reference line
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border

	staleAfter  = 2 * time.Second // no frames for this long means the feed is stale
	staleRepeat = 5 * time.Second // minimum gap between stale warnings
)

// Axis colors - distinct colors for each stick axis
var axisColors = map[drone.Axis]string{
	drone.Roll:     "196", // red
	drone.Pitch:    "226", // yellow
	drone.Throttle: "46",  // green
	drone.Yaw:      "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

type flyModel struct {
	ctrl        *pilot.Controller
	feed        *video.Feed // nil when flying without video
	chart       *streamlinechart.Model
	width       int      // terminal width
	height      int      // terminal height
	logs        []string // last N log messages
	quitting    bool
	last        pilot.State // most recent controller state
	staleWarned time.Time   // last time the stale feed warning fired
}

func (m *flyModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg pilot.State
type logMsg string

func waitForState(ctrl *pilot.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *pilot.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *flyModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - statusHeight - footerHeight - helpHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *flyModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialFlyModel(ctrl *pilot.Controller, feed *video.Feed) flyModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-100, 100),
	)

	// Set up data set styles for each axis
	for _, axis := range drone.AllAxes() {
		color := axisColors[axis]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(axis), runes.ThinLineStyle, style)
	}

	return flyModel{
		ctrl:        ctrl,
		feed:        feed,
		chart:       &chart,
		staleWarned: time.Now(), // grace period before the first stale warning
	}
}

func (m flyModel) Init() tea.Cmd {
	// Start listening for state and log updates
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m flyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "t":
			m.ctrl.TakeOff()
		case "l":
			m.ctrl.Land()
		case " ", "h":
			m.ctrl.Center()
		case "f":
			m.ctrl.ToggleFast()
		case "w", "up":
			m.ctrl.Nudge(drone.Pitch, 1)
		case "s", "down":
			m.ctrl.Nudge(drone.Pitch, -1)
		case "a", "left":
			m.ctrl.Nudge(drone.Roll, -1)
		case "d", "right":
			m.ctrl.Nudge(drone.Roll, 1)
		case "k":
			m.ctrl.Nudge(drone.Throttle, 1)
		case "j":
			m.ctrl.Nudge(drone.Throttle, -1)
		case "n":
			m.ctrl.Nudge(drone.Yaw, -1)
		case "m":
			m.ctrl.Nudge(drone.Yaw, 1)
		case "1":
			m.ctrl.Flip(drone.FlipFront)
		case "2":
			m.ctrl.Flip(drone.FlipBack)
		case "3":
			m.ctrl.Flip(drone.FlipLeft)
		case "4":
			m.ctrl.Flip(drone.FlipRight)
		}
		return m, nil

	case stateMsg:
		state := pilot.State(msg)
		m.last = state
		for _, axis := range drone.AllAxes() {
			m.chart.PushDataSet(string(axis), float64(state.Sticks.Value(axis)))
		}
		m.chart.DrawAll()
		m.checkFeed()
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

// checkFeed raises a log warning when the video feed stops delivering frames.
func (m *flyModel) checkFeed() {
	if m.feed == nil {
		return
	}
	now := time.Now()
	if !m.feed.Stats().Stale(now, staleAfter) {
		return
	}
	if now.Sub(m.staleWarned) < staleRepeat {
		return
	}
	m.addLog(fmt.Sprintf("[%s] No video frames, check the WiFi link", now.Format("15:04:05")))
	m.staleWarned = now
}

func (m flyModel) View() string {
	if m.quitting {
		return "Flight ended.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Tello Fly"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Telemetry
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 't' to take off")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	// Key reference
	sb.WriteString(statusStyle.Render("w/s pitch  a/d roll  k/j climb  n/m yaw  space hover  t takeoff  l land  f fast  1-4 flips  q quit"))
	sb.WriteString("\n")

	return sb.String()
}

func (m flyModel) renderStatus() string {
	tm := m.last.Telemetry
	parts := []string{
		fmt.Sprintf("Battery %d%%", tm.Battery),
		fmt.Sprintf("WiFi %d%%", tm.WifiStrength),
		fmt.Sprintf("Height %.1fm", tm.Height),
		fmt.Sprintf("Flight %s", tm.FlightTime.Round(time.Second)),
	}
	if m.last.Fast {
		parts = append(parts, "FAST")
	}
	if tm.Flying {
		parts = append(parts, "AIRBORNE")
	} else {
		parts = append(parts, "GROUNDED")
	}

	line := strings.Join(parts, "  ")
	if tm.BatteryLow || (tm.Battery > 0 && tm.Battery <= pilot.LowBattery) {
		return alertStyle.Render(line)
	}
	return statusStyle.Render(line)
}

func renderLegend() string {
	var items []string
	for _, axis := range drone.AllAxes() {
		color := axisColors[axis]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(axis)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *FlyCommand) Execute(args []string) error {
	// Load config
	cfg, err := drone.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if c.Hz > 0 {
		cfg.Flight.Hz = c.Hz
	}

	var debug *slog.Logger
	if c.Debug {
		logger, closeLog, err := openDebugLog(debugLogFile)
		if err != nil {
			log.Fatalf("Failed to open debug log: %v", err)
		}
		defer closeLog()
		debug = logger
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

	// Camera feed to the external player, when one is configured. Video
	// trouble never blocks the flight itself.
	var feed *video.Feed
	if !c.NoVideo && cfg.Video.Player != "none" {
		player, err := video.StartPlayer(cfg.Video.Player)
		if err != nil {
			fmt.Fprintf(os.Stderr, "No video window: %v (install it or run 'tello-rc setup')\n", err)
		} else {
			feed = video.NewFeed(d)
			if err := feed.Start(cfg.Video.Rate); err != nil {
				fmt.Fprintf(os.Stderr, "No video window: %v\n", err)
				player.Close()
				feed = nil
			} else {
				defer feed.Stop()
				frames := feed.Subscribe(8)
				go func() {
					defer player.Close()
					for frame := range frames {
						if _, err := player.Write(frame); err != nil {
							return
						}
					}
				}()
			}
		}
	}

	// Create controller
	ctrl := pilot.NewController(d, pilot.Config{
		Hz:       cfg.Flight.Hz,
		Step:     cfg.Flight.Step,
		MaxStick: cfg.Flight.MaxStick,
		Fast:     cfg.Flight.Fast,
		Debug:    debug,
	})

	// Start controller in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	// Run TUI
	p := tea.NewProgram(initialFlyModel(ctrl, feed), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
