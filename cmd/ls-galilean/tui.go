package main

import (
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-galilean/internal/state"
	"github.com/litescript/ls-galilean/internal/ui"
)

// runTUI starts the interactive viewer, or prints a one-shot summary when
// stdout is not a terminal.
func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd.OutOrStdout()) {
		a.logger.Debug("stdout is not a terminal, printing summary")
		now := a.newNowCmd()
		now.SetOut(cmd.OutOrStdout())
		return now.RunE(now, nil)
	}

	mgr := state.NewManager(state.Config{
		MaxEvents:                    50,
		RefreshInterval:              a.cfg.UIRefresh(),
		ScanWindow:                   time.Duration(a.cfg.UI.EventHours) * time.Hour,
		RescanAfter:                  time.Hour,
		SuppressEclipsedReappearance: a.cfg.Scan.SuppressEclipsedReappearance,
	})
	if !a.at.IsZero() {
		mgr.SetTime(a.at)
	}

	// The alternate screen owns the terminal.
	a.logger.SetOutput(io.Discard)

	model := ui.New(mgr, a.cfg.ScanOptions(), a.redSpot())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
