// Package pipeline wires the rename stages together: path resolution, photo
// filtering, capture-date extraction, captioning, target-name planning, and
// execution. Files are processed strictly sequentially and every per-file
// error is converted into a tagged outcome so one bad file never aborts the
// batch.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sbonar/photorename/internal/caption"
	"github.com/sbonar/photorename/internal/namer"
	"github.com/sbonar/photorename/internal/photo"
	"github.com/sbonar/photorename/internal/resolver"
)

// ErrNoInput is returned when none of the supplied paths resolved to a file.
// It is the only condition that fails the whole run.
var ErrNoInput = errors.New("no valid input paths resolved")

// Status tags a per-file outcome.
type Status int

const (
	StatusRenamed Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result for a single file.
type Outcome struct {
	Source string
	Target string // set when a rename was planned
	Status Status
	Reason string // skip or failure reason, empty for renamed
}

// Summary aggregates outcomes for the end-of-run report.
type Summary struct {
	Renamed int
	Skipped int
	Failed  int
}

// Count returns a summary of the given outcomes.
func Count(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusRenamed:
			s.Renamed++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Options configures a run.
type Options struct {
	Recursive bool
	DryRun    bool
	Confirm   bool
}

// Runner executes the rename pipeline for one batch of input paths.
type Runner struct {
	adapter *caption.Adapter
	opts    Options
	out     io.Writer
	in      *bufio.Reader
}

// New creates a Runner that reports to stdout and reads confirmations from
// stdin.
func New(adapter *caption.Adapter, opts Options) *Runner {
	return NewWithIO(adapter, opts, os.Stdout, os.Stdin)
}

// NewWithIO creates a Runner with explicit report and confirmation streams.
func NewWithIO(adapter *caption.Adapter, opts Options, out io.Writer, in io.Reader) *Runner {
	return &Runner{adapter: adapter, opts: opts, out: out, in: bufio.NewReader(in)}
}

// Run processes the supplied paths and returns the per-file outcomes in
// report order. It returns ErrNoInput when nothing resolved; individual file
// failures are outcomes, not errors.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Outcome, error) {
	files, inputErrs := resolver.Resolve(paths, r.opts.Recursive)

	var outcomes []Outcome
	for _, err := range inputErrs {
		var inputErr *resolver.InputError
		outcome := Outcome{Status: StatusFailed, Reason: err.Error()}
		if errors.As(err, &inputErr) {
			outcome.Source = inputErr.Path
			outcome.Reason = fmt.Sprintf("input error: %v", inputErr.Err)
		}
		outcomes = append(outcomes, outcome)
		r.report(outcome)
	}

	if len(files) == 0 {
		if len(outcomes) > 0 {
			r.printSummary(Count(outcomes))
		}
		return outcomes, ErrNoInput
	}

	plans, planOutcomes := r.plan(ctx, files)
	for _, o := range planOutcomes {
		outcomes = append(outcomes, o)
		r.report(o)
	}

	for _, plan := range plans {
		outcome := r.execute(plan)
		outcomes = append(outcomes, outcome)
		r.report(outcome)
	}

	r.printSummary(Count(outcomes))
	return outcomes, nil
}

// plan builds a RenamePlan for every processable photo, isolating per-file
// failures as outcomes. Collision suffixes are assigned in first-seen order,
// so planning is deterministic for a fixed input ordering.
func (r *Runner) plan(ctx context.Context, files []string) ([]namer.Plan, []Outcome) {
	planner := namer.NewPlanner()

	var plans []namer.Plan
	var outcomes []Outcome

	for _, path := range files {
		if !photo.IsPhoto(path) {
			outcomes = append(outcomes, Outcome{
				Source: path,
				Status: StatusSkipped,
				Reason: "not a photo",
			})
			continue
		}

		date, source, err := photo.CaptureDate(path)
		if err != nil {
			outcomes = append(outcomes, Outcome{
				Source: path,
				Status: StatusFailed,
				Reason: fmt.Sprintf("filesystem error: %v", err),
			})
			continue
		}

		phrase, err := r.adapter.Describe(ctx, path)
		if err != nil {
			// The capture date computed above is discarded with the file.
			outcomes = append(outcomes, Outcome{
				Source: path,
				Status: StatusFailed,
				Reason: fmt.Sprintf("captioning error: %v", err),
			})
			continue
		}

		token := namer.Token(phrase)
		if token == "" {
			outcomes = append(outcomes, Outcome{
				Source: path,
				Status: StatusFailed,
				Reason: "captioning error: caption produced no usable token",
			})
			continue
		}

		plan, err := planner.Plan(path, photo.FormatDate(date), token)
		if err != nil {
			outcomes = append(outcomes, Outcome{
				Source: path,
				Status: StatusFailed,
				Reason: err.Error(),
			})
			continue
		}

		if plan.Target == path {
			outcomes = append(outcomes, Outcome{
				Source: path,
				Status: StatusSkipped,
				Reason: "already named",
			})
			continue
		}

		log.Debug().
			Str("source", path).
			Str("target", plan.Target).
			Str("date_source", source).
			Str("caption", phrase).
			Msg("Rename planned")

		plans = append(plans, plan)
	}

	return plans, outcomes
}

// report prints the human-readable line for one outcome.
func (r *Runner) report(o Outcome) {
	switch {
	case o.Status == StatusRenamed:
		fmt.Fprintf(r.out, "renamed  %s -> %s\n", filepath.Base(o.Source), filepath.Base(o.Target))
	case o.Target != "":
		fmt.Fprintf(r.out, "%s  %s -> %s (%s)\n", o.Status, filepath.Base(o.Source), filepath.Base(o.Target), o.Reason)
	case o.Source != "":
		fmt.Fprintf(r.out, "%s  %s (%s)\n", o.Status, filepath.Base(o.Source), o.Reason)
	default:
		fmt.Fprintf(r.out, "%s  (%s)\n", o.Status, o.Reason)
	}
}

// printSummary prints the end-of-run counts.
func (r *Runner) printSummary(s Summary) {
	fmt.Fprintf(r.out, "\nRenamed: %d  Skipped: %d  Failed: %d\n", s.Renamed, s.Skipped, s.Failed)
}
