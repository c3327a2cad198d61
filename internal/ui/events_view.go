package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galilean/internal/events"
	"github.com/litescript/ls-galilean/internal/state"
)

var (
	compoundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	pastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// EventsModel lists the upcoming-events scan and recent live transitions in
// a scrollable viewport.
type EventsModel struct {
	width    int
	height   int
	loc      *time.Location
	viewport viewport.Model
	snapshot state.Snapshot
}

// NewEventsModel creates a new events view. Times are shown in local time.
func NewEventsModel() EventsModel {
	return EventsModel{
		loc:      time.Local,
		viewport: viewport.New(80, 20),
	}
}

// SetSize updates the viewport size.
func (m EventsModel) SetSize(width, height int) EventsModel {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height, 3)
	return m
}

// UpdateData updates the model with new data and re-renders the list.
func (m EventsModel) UpdateData(snapshot state.Snapshot) EventsModel {
	m.snapshot = snapshot
	m.viewport.SetContent(m.renderContent())
	return m
}

// Update handles scrolling.
func (m EventsModel) Update(msg tea.Msg) (EventsModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "home", "g":
			m.viewport.GotoTop()
			return m, nil
		case "end", "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the events view.
func (m EventsModel) View() string {
	return m.viewport.View()
}

func (m EventsModel) renderContent() string {
	var b strings.Builder

	scan := m.snapshot.Scan
	switch {
	case scan == nil && m.snapshot.Scanning:
		b.WriteString(titleStyle.Render("Upcoming events"))
		b.WriteString("\n  Scanning...\n")
	case scan == nil:
		b.WriteString(titleStyle.Render("Upcoming events"))
		b.WriteString("\n  No scan yet.\n")
	case scan.Err != nil:
		b.WriteString(titleStyle.Render("Upcoming events"))
		b.WriteString("\n  ")
		b.WriteString(errorStyle.Render("Scan failed: " + scan.Err.Error()))
		b.WriteString("\n")
	default:
		hours := int(scan.End.Sub(scan.Start).Hours())
		b.WriteString(titleStyle.Render(events.Header(hours)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  from %s (%s)",
			scan.Start.In(m.loc).Format(events.TimeLayout), scan.Duration.Round(time.Millisecond))))
		b.WriteString("\n")
		if len(scan.Events) == 0 {
			b.WriteString("  No events.\n")
		}
		now := m.snapshot.System.Time
		for _, e := range scan.Events {
			b.WriteString(m.renderEvent(e, e.Time.Before(now)))
		}
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Live transitions"))
	b.WriteString("\n")
	if len(m.snapshot.Events) == 0 {
		b.WriteString(dimStyle.Render("  None since start."))
		b.WriteString("\n")
	}
	// Newest first
	for i := len(m.snapshot.Events) - 1; i >= 0; i-- {
		b.WriteString(m.renderEvent(m.snapshot.Events[i], false))
	}

	return b.String()
}

func (m EventsModel) renderEvent(e events.Event, past bool) string {
	var b strings.Builder
	if e.Compound != nil {
		b.WriteString("  ")
		b.WriteString(compoundStyle.Render(e.Compound.String() + ":"))
		b.WriteString("\n")
	}
	line := fmt.Sprintf("  %s: %s", e.Time.In(m.loc).Format(events.TimeLayout), e.Description())
	if past {
		b.WriteString(pastStyle.Render(line))
	} else {
		b.WriteString(rowStyle.Render(line))
	}
	b.WriteString("\n")
	return b.String()
}
