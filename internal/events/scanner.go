package events

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-galilean/internal/ephem"
)

// Scan input errors. All of them match ErrInvalidInput with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid scan input")
	ErrInvalidDuration = fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	ErrInvalidInterval = fmt.Errorf("%w: interval must be positive", ErrInvalidInput)
	ErrInvalidLookback = fmt.Errorf("%w: lookback must not be negative", ErrInvalidInput)
)

const (
	DefaultInterval  = time.Minute
	DefaultLookback  = 30 * time.Minute
	DefaultBatchSize = 512
)

// Options controls sampling.
type Options struct {
	// Interval between samples.
	Interval time.Duration
	// Lookback is how far before start sampling begins, so that state at
	// start is known. Events inside the lookback are not reported.
	Lookback time.Duration
	// Workers bounds how many samples are computed concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// BatchSize is the number of samples computed per batch.
	// Zero means DefaultBatchSize.
	BatchSize int
	// SuppressEclipsedReappearance hides "reappears" when a moon comes out
	// from behind the disk straight into Jupiter's shadow.
	SuppressEclipsedReappearance bool
}

// DefaultOptions returns one-minute sampling with a 30 minute lookback.
func DefaultOptions() Options {
	return Options{
		Interval:                     DefaultInterval,
		Lookback:                     DefaultLookback,
		SuppressEclipsedReappearance: true,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Interval <= 0 {
		return ErrInvalidInterval
	}
	if o.Lookback < 0 {
		return ErrInvalidLookback
	}
	return nil
}

// Recorder receives scan statistics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordScan(samples int, evs []Event, elapsed time.Duration)
}

// Scanner produces event logs.
type Scanner struct {
	opts     Options
	recorder Recorder
}

// NewScanner creates a scanner. rec may be nil.
func NewScanner(opts Options, rec Recorder) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Scanner{opts: opts, recorder: rec}, nil
}

// Options returns the effective options.
func (s *Scanner) Options() Options {
	return s.opts
}

// Scan is a convenience wrapper around NewScanner and Scanner.Scan.
func Scan(ctx context.Context, start time.Time, duration time.Duration, opts Options) ([]Event, error) {
	s, err := NewScanner(opts, nil)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, start, duration)
}

// Scan reports the events in [start, start+duration) in chronological order.
// Sampling starts Lookback before start. Snapshots are computed in parallel
// batches; events are derived serially in time order.
func (s *Scanner) Scan(ctx context.Context, start time.Time, duration time.Duration) ([]Event, error) {
	if duration < 0 {
		return nil, ErrInvalidDuration
	}
	log := []Event{}
	if duration == 0 {
		return log, nil
	}

	began := time.Now()
	first := start.Add(-s.opts.Lookback)
	total := int((duration + s.opts.Lookback + s.opts.Interval - 1) / s.opts.Interval)
	tracker := NewTracker(s.opts.SuppressEclipsedReappearance)

	for offset := 0; offset < total; offset += s.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(s.opts.BatchSize, total-offset)
		batch, err := s.observeBatch(ctx, first, offset, n)
		if err != nil {
			return nil, err
		}
		for i := range batch {
			at := s.sampleTime(first, offset+i)
			evs := tracker.Step(at, batch[i])
			if at.Before(start) {
				continue
			}
			log = append(log, evs...)
		}
	}

	if s.recorder != nil {
		s.recorder.RecordScan(total, log, time.Since(began))
	}
	return log, nil
}

func (s *Scanner) sampleTime(first time.Time, i int) time.Time {
	return first.Add(time.Duration(i) * s.opts.Interval)
}

func (s *Scanner) observeBatch(ctx context.Context, first time.Time, offset, n int) ([][ephem.NumMoons]ephem.Observation, error) {
	batch := make([][ephem.NumMoons]ephem.Observation, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch[i] = ephem.ObserveAll(ephem.Compute(s.sampleTime(first, offset+i)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("observing samples: %w", err)
	}
	return batch, nil
}
