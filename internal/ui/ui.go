// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galilean/internal/events"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/state"
	"github.com/litescript/ls-galilean/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSystem ViewMode = iota
	ViewEvents

	numViews = 2
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic state updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// scanDoneMsg carries a finished upcoming-events scan.
	scanDoneMsg struct {
		result state.ScanResult
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state    *state.Manager
	scanOpts events.Options
	spot     export.Feature

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string // most recent live transition
	animTick  int

	// Sub-models
	system SystemModel
	events EventsModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, scanOpts events.Options, spot export.Feature) Model {
	return Model{
		state:    stateMgr,
		scanOpts: scanOpts,
		spot:     spot,
		viewMode: ViewSystem,
		system:   NewSystemModel(spot),
		events:   NewEventsModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return TickMsg(time.Now()) },
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.viewMode = ViewSystem
		case "2", "e":
			m.viewMode = ViewEvents
		case "tab":
			m.viewMode = (m.viewMode + 1) % numViews

		// Clock control
		case "]":
			cmds = append(cmds, m.shiftClock(time.Hour))
		case "[":
			cmds = append(cmds, m.shiftClock(-time.Hour))
		case "}":
			cmds = append(cmds, m.shiftClock(24*time.Hour))
		case "{":
			cmds = append(cmds, m.shiftClock(-24*time.Hour))
		case "n":
			m.state.ResetTime()
			m.statusMsg = ""
			cmds = append(cmds, m.refresh())

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo and tabs take 5 lines, footer 2
		contentHeight := msg.Height - 8
		m.system = m.system.SetSize(msg.Width, contentHeight)
		m.events = m.events.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd(m.state.RefreshInterval()), m.refresh())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case scanDoneMsg:
		m.state.SetScan(msg.result)
		m.syncSnapshot()

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// refresh advances the state to the displayed time, pushes the new snapshot
// to the views and starts a scan if the cached one is stale.
func (m *Model) refresh() tea.Cmd {
	if live := m.state.Tick(); len(live) > 0 {
		last := live[len(live)-1]
		m.statusMsg = last.Time.Local().Format("15:04") + " " + last.Description()
	}
	m.syncSnapshot()

	now := m.state.Now()
	if m.state.NeedsScan(now) && m.state.BeginScan() {
		m.snapshot.Scanning = true
		return m.scanCmd(now)
	}
	return nil
}

func (m *Model) shiftClock(d time.Duration) tea.Cmd {
	m.state.SetTime(m.state.Now().Add(d))
	m.statusMsg = ""
	return m.refresh()
}

func (m *Model) syncSnapshot() {
	m.snapshot = m.state.Snapshot()
	m.system = m.system.UpdateData(m.snapshot)
	m.events = m.events.UpdateData(m.snapshot)
}

// scanCmd runs the upcoming-events scan off the UI goroutine.
func (m Model) scanCmd(start time.Time) tea.Cmd {
	opts := m.scanOpts
	window := m.state.ScanWindow()
	return func() tea.Msg {
		began := time.Now()
		evs, err := events.Scan(context.Background(), start, window, opts)
		return scanDoneMsg{result: state.ScanResult{
			Start:    start,
			End:      start.Add(window),
			Events:   evs,
			Err:      err,
			Duration: time.Since(began),
		}}
	}
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSystem:
		m.system, cmd = m.system.Update(msg)
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSystem:
		content = m.system.View()
	case ViewEvents:
		content = m.events.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	title := "  ◉ ·  ·   ·    LS-GALILEAN"

	var b strings.Builder
	b.WriteString("\n")

	runes := []rune(title)
	for col, r := range runes {
		color := gradientColor(col, 0, len(runes), 1)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(r)))
	}
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Jupiter's Galilean moons · v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient:
// amber through orange to a banded red-brown.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(max(width, 1))
	yRatio := float64(row) / float64(max(height, 1))

	// Amber (#F5C16C) -> Orange (#E8833A) -> Red-brown (#B5523B)
	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 245 + t*(232-245)
		g = 193 + t*(131-193)
		b = 108 + t*(58-108)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 232 + t*(181-232)
		g = 131 + t*(82-131)
		b = 58 + t*(59-58)
	}

	// Vertical fade: brighter at top
	f := 1.0 - (yRatio * 0.5)
	clamp := func(v float64) int {
		return min(max(int(v*f), 0), 255)
	}

	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] System", "[2] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E8833A")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E8833A"))
	simStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C16C")).Bold(true)

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case !m.snapshot.HasData:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Computing positions...")
	case m.snapshot.Scanning:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Scanning upcoming events...")
	case m.snapshot.Simulated:
		status = simStyle.Render("SIMULATED") + dimStyle.Render(" n: back to now")
	default:
		status = accentStyle.Render("●") + dimStyle.Render(" live")
	}

	var help string
	switch m.viewMode {
	case ViewEvents:
		help = dimStyle.Render("↑↓/pgup/pgdn: scroll | [ ]: ±1h | { }: ±1d | tab: switch view")
	default:
		help = dimStyle.Render("[ ]: ±1h | { }: ±1d | n: now | tab: switch view | q: quit")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + accentStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Second
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 245, 205, 150
		case dist <= 3:
			r8, g8, b8 = 210, 160, 110
		case dist <= 5:
			r8, g8, b8 = 170, 125, 90
		default:
			r8, g8, b8 = 130, 100, 80
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(string(r)))
	}

	return result.String()
}
