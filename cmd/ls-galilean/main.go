// Command ls-galilean shows the positions of Jupiter's Galilean moons and
// predicts their transits, eclipses, occultations and shadow transits.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-galilean/internal/astro"
	"github.com/litescript/ls-galilean/internal/config"
	"github.com/litescript/ls-galilean/internal/logging"
)

// defaultStripWidth is used when stdout is not a terminal.
const defaultStripWidth = 81

// app carries the state shared by all subcommands.
type app struct {
	// Persistent flags
	cfgPath  string
	logLevel string
	timeFlag string

	cfg    *config.Config
	logger *logging.Logger
	at     time.Time // zero means now
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ls-galilean",
		Short: "Jupiter's Galilean moons in your terminal",
		Long: `ls-galilean computes where Io, Europa, Ganymede and Callisto appear
around Jupiter and when they transit, disappear, reappear or cast shadows
on the planet.

Run without arguments to start the interactive viewer.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides the config file")
	pf.StringVar(&a.timeFlag, "time", "", `show the system at this UTC time instead of now ("2024-01-02 13:45" or RFC 3339)`)

	root.AddCommand(
		a.newNowCmd(),
		a.newEventsCmd(),
		a.newSpotCmd(),
		a.newServeCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, builds the logger and resolves --time.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.New(logging.ParseLevel(level))
	a.logger.SetOutput(cmd.ErrOrStderr())

	if a.timeFlag != "" {
		t, err := astro.ParseTime(a.timeFlag)
		if err != nil {
			return err
		}
		a.at = t
	}
	a.logger.Debug("config loaded from %q, time %s", a.cfgPath, a.now().Format(time.RFC3339))
	return nil
}

// now returns the --time instant, or the current time.
func (a *app) now() time.Time {
	if !a.at.IsZero() {
		return a.at
	}
	return time.Now().UTC()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// stripWidth picks an odd strip width that fits the terminal behind w.
func stripWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultStripWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols < 21 {
		return defaultStripWidth
	}
	if cols%2 == 0 {
		cols--
	}
	return cols
}
