package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sbonar/photorename/internal/namer"
)

// execute applies a single plan, honoring dry-run and per-file confirmation.
// Planned targets never collide (the planner guarantees uniqueness), so
// execution order only affects report order.
func (r *Runner) execute(plan namer.Plan) Outcome {
	if r.opts.DryRun {
		return Outcome{
			Source: plan.Source,
			Target: plan.Target,
			Status: StatusSkipped,
			Reason: "dry-run",
		}
	}

	if r.opts.Confirm && !r.confirm(plan) {
		return Outcome{
			Source: plan.Source,
			Target: plan.Target,
			Status: StatusSkipped,
			Reason: "user declined",
		}
	}

	if err := os.Rename(plan.Source, plan.Target); err != nil {
		log.Warn().Err(err).Str("source", plan.Source).Msg("Rename failed")
		return Outcome{
			Source: plan.Source,
			Target: plan.Target,
			Status: StatusFailed,
			Reason: fmt.Sprintf("filesystem error: %v", err),
		}
	}

	return Outcome{
		Source: plan.Source,
		Target: plan.Target,
		Status: StatusRenamed,
	}
}

// confirm asks the user to acknowledge one planned rename. Anything other
// than an explicit yes declines.
func (r *Runner) confirm(plan namer.Plan) bool {
	fmt.Fprintf(r.out, "rename %s -> %s? [y/N] ", filepath.Base(plan.Source), filepath.Base(plan.Target))

	input, err := r.in.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read confirmation, declining")
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
