package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-galilean/internal/api"
	"github.com/litescript/ls-galilean/internal/astro"
	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/version"
)

// redSpot returns the configured Great Red Spot feature.
func (a *app) redSpot() export.Feature {
	return export.Feature{LongitudeDeg: a.cfg.RedSpot.Longitude, System: a.cfg.RedSpotSystem()}
}

func (a *app) newNowCmd() *cobra.Command {
	var (
		asJSON bool
		out    string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the current state of the system",
		Long: `Prints a summary table of Jupiter's geometry and each moon's state,
followed by a one-line strip with east on the left. Use --time for another
instant and --json for machine-readable output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			snap := ephem.Compute(a.now())
			exp := export.System(snap, a.redSpot())
			if asJSON {
				if err := exp.WriteJSON(w); err != nil {
					return fmt.Errorf("write JSON: %w", err)
				}
				return nil
			}

			if width <= 0 {
				width = stripWidth(w)
			}
			export.WriteSummaryTable(w, exp)
			fmt.Fprintln(w)
			return export.WriteStrip(w, snap, width)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of text")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().IntVar(&width, "width", 0, "strip width in columns (default: terminal width)")
	return cmd
}

func (a *app) newEventsCmd() *cobra.Command {
	var (
		start    string
		hours    int
		interval time.Duration
		asJSON   bool
		utc      bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming moon events",
		Long: `Scans forward from --start (default --time or now) and lists every
disappearance, reappearance, transit, eclipse and shadow transit. Instants
with more than one transit or shadow on the disk are annotated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := a.now()
			if start != "" {
				t, err := astro.ParseTime(start)
				if err != nil {
					return err
				}
				from = t
			}
			if !cmd.Flags().Changed("hours") {
				hours = a.cfg.Scan.Hours
			}
			if hours < 0 {
				return fmt.Errorf("%w: hours must not be negative", events.ErrInvalidInput)
			}

			opts := a.cfg.ScanOptions()
			if cmd.Flags().Changed("interval") {
				opts.Interval = interval
			}
			scanner, err := events.NewScanner(opts, nil)
			if err != nil {
				return err
			}

			span := time.Duration(hours) * time.Hour
			began := time.Now()
			evs, err := scanner.Scan(cmd.Context(), from, span)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			a.logger.Debug("scanned %s in %v: %d events", events.FormatSpan(hours), time.Since(began).Round(time.Millisecond), len(evs))

			w := cmd.OutOrStdout()
			if asJSON {
				return export.Events(from, span, opts.Interval, evs).WriteJSON(w)
			}
			loc := time.Local
			if utc {
				loc = time.UTC
			}
			return events.WriteReport(w, hours, evs, loc)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "scan start time (default: --time or now)")
	cmd.Flags().IntVar(&hours, "hours", 24, "hours to scan (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", events.DefaultInterval, "sampling interval (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of text")
	cmd.Flags().BoolVar(&utc, "utc", false, "show times in UTC instead of local time")
	return cmd
}

func (a *app) newSpotCmd() *cobra.Command {
	var (
		longitude float64
		system    string
		hours     int
	)

	cmd := &cobra.Command{
		Use:   "spot",
		Short: "Show the Great Red Spot and its central meridian transits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feature := a.redSpot()
			if cmd.Flags().Changed("longitude") {
				feature.LongitudeDeg = longitude
			}
			if cmd.Flags().Changed("system") {
				sys, err := ephem.ParseSystem(system)
				if err != nil {
					return err
				}
				feature.System = sys
			}
			if hours < 0 {
				return errors.New("hours must not be negative")
			}
			return writeSpot(cmd.OutOrStdout(), a.now(), feature, hours)
		},
	}

	cmd.Flags().Float64Var(&longitude, "longitude", 0, "feature longitude in degrees (default from config)")
	cmd.Flags().StringVar(&system, "system", "", "longitude system, I or II (default from config)")
	cmd.Flags().IntVar(&hours, "hours", 24, "hours to search for transits")
	return cmd
}

func writeSpot(w io.Writer, at time.Time, f export.Feature, hours int) error {
	snap := ephem.Compute(at)
	fmt.Fprintf(w, "Feature at %.1f° System %s, %s\n", f.LongitudeDeg, f.System, at.UTC().Format(events.TimeLayout))
	fmt.Fprintf(w, "Central meridian: System %s %.1f°\n", f.System, snap.Longitude(f.System).Deg())

	if x, ok := ephem.FeatureX(snap, f.LongitudeDeg, f.System); ok {
		fmt.Fprintf(w, "Position: x %+.2f\n", x)
	} else {
		fmt.Fprintln(w, "Position: far side")
	}

	transits := ephem.MeridianTransits(at, time.Duration(hours)*time.Hour, f.LongitudeDeg, f.System)
	fmt.Fprintf(w, "\nTransits in the next %s:\n", events.FormatSpan(hours))
	if len(transits) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}
	for _, t := range transits {
		if _, err := fmt.Fprintf(w, "  %s\n", t.UTC().Round(time.Minute).Format(events.TimeLayout)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve snapshots, event scans and a websocket feed over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := api.OptionsFromConfig(a.cfg)
			if addr != "" {
				opts.Addr = addr
			}
			if !a.at.IsZero() {
				a.logger.Warn("--time is ignored by serve")
			}
			return api.NewServer(opts, a.logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (a *app) newConfigCmd() *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write != "" {
				if err := a.cfg.Save(write); err != nil {
					return err
				}
				a.logger.Info("wrote %s", write)
				return nil
			}
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&write, "write", "", "save the effective configuration to this file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ls-galilean v%s\n", version.Version)
			return err
		},
	}
}
