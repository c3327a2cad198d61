package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/state"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("223")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	diskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("173"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// stateStyles colors each observation state.
var stateStyles = map[ephem.State]lipgloss.Style{
	ephem.Visible:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	ephem.Transiting:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	ephem.HiddenBehindDisk: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	ephem.FarSideClear:     lipgloss.NewStyle().Foreground(lipgloss.Color("109")),
	ephem.FarSideEclipsed:  lipgloss.NewStyle().Foreground(lipgloss.Color("61")),
}

// minStripWidth keeps the disk and Callisto's orbit legible.
const minStripWidth = 41

// SystemModel shows the current geometry and a one-line sky strip.
type SystemModel struct {
	width    int
	height   int
	spot     export.Feature
	snapshot state.Snapshot
}

// NewSystemModel creates a system view tracking the given surface feature.
func NewSystemModel(spot export.Feature) SystemModel {
	return SystemModel{spot: spot}
}

// SetSize updates the view size.
func (m SystemModel) SetSize(width, height int) SystemModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m SystemModel) UpdateData(snapshot state.Snapshot) SystemModel {
	m.snapshot = snapshot
	return m
}

// Update handles messages.
func (m SystemModel) Update(msg tea.Msg) (SystemModel, tea.Cmd) {
	return m, nil
}

// View renders the system view.
func (m SystemModel) View() string {
	if !m.snapshot.HasData {
		return "Computing positions...\n"
	}

	exp := export.System(m.snapshot.System, m.spot)

	var b strings.Builder
	b.WriteString(m.renderGeometry(exp))
	b.WriteString("\n")
	b.WriteString(m.renderStrip())
	b.WriteString("\n")
	b.WriteString(m.renderMoonTable(exp))
	b.WriteString("\n")
	b.WriteString(m.renderRedSpot(exp))
	return b.String()
}

func (m SystemModel) renderGeometry(exp *export.SystemExport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Jupiter"))
	b.WriteString(dimStyle.Render("  " + exp.Time.Local().Format("Mon 2006-01-02 15:04:05 MST")))
	b.WriteString("\n")

	b.WriteString(rowStyle.Render(fmt.Sprintf("  Distance %.4f AU   Light time %s   Phase %+.2f°   De %+.2f°",
		exp.EarthJupiterAU, lightTime(exp.EarthJupiterAU), exp.PhaseAngle, exp.SubEarthLatitude)))
	b.WriteString("\n")
	b.WriteString(rowStyle.Render(fmt.Sprintf("  Central meridian  I %6.1f°   II %6.1f°",
		exp.System1Longitude, exp.System2Longitude)))
	b.WriteString("\n")

	return b.String()
}

// lightTime returns the one-way light travel time for a distance in AU.
func lightTime(au float64) time.Duration {
	return time.Duration(au * 499.004784 * float64(time.Second)).Round(time.Second)
}

func (m SystemModel) renderStrip() string {
	width := max(m.width-4, minStripWidth)
	if width%2 == 0 {
		width--
	}
	strip := export.Strip(m.snapshot.System, width)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sky"))
	b.WriteString(dimStyle.Render("  east ← → west, as seen from Earth"))
	b.WriteString("\n  ")
	for _, r := range strip {
		switch r {
		case '(', ')', '=':
			b.WriteString(diskStyle.Render(string(r)))
		case '*':
			b.WriteString(errorStyle.Render(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m SystemModel) renderMoonTable(exp *export.SystemExport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Moons"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-9s %-11s %8s %8s %9s  %-14s",
		"Moon", "State", "x", "y", "Distance", "Shadow")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, mo := range exp.Moons {
		x, y := "-", "-"
		if mo.Position != nil {
			x = fmt.Sprintf("%+.2f", mo.Position.X)
			y = fmt.Sprintf("%+.2f", mo.Position.Y)
		}
		shadow := "-"
		if mo.Shadow != nil {
			shadow = fmt.Sprintf("on disk %+.2f", mo.Shadow.X)
		}

		style, ok := stateStyles[mo.State]
		if !ok {
			style = rowStyle
		}
		b.WriteString("  ")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-9s ", mo.Moon)))
		b.WriteString(style.Render(fmt.Sprintf("%-11s", mo.State)))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %8s %8s %9.2f  %-14s", x, y, mo.Distance, shadow)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m SystemModel) renderRedSpot(exp *export.SystemExport) string {
	label := fmt.Sprintf("Great Red Spot (%.1f° System %s)", exp.RedSpot.LongitudeDeg, exp.RedSpot.System)
	if !exp.RedSpot.Visible || exp.RedSpot.X == nil {
		return titleStyle.Render("Red Spot") + "  " + dimStyle.Render(label+": far side") + "\n"
	}
	where := fmt.Sprintf("x %+.2f", *exp.RedSpot.X)
	if x := *exp.RedSpot.X; x > -0.1 && x < 0.1 {
		where += ", on the central meridian"
	}
	return titleStyle.Render("Red Spot") + "  " + rowStyle.Render(label+": "+where) + "\n"
}
