package namer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxSuffixAttempts bounds the collision suffix search. Exceeding it marks
// the file failed instead of looping unbounded.
const maxSuffixAttempts = 10000

// ErrCollisionExhausted is returned when no free target name was found
// within the suffix range.
var ErrCollisionExhausted = errors.New("collision suffix range exhausted")

// Plan is a proposed rename. It has no filesystem effect until executed.
type Plan struct {
	Source string
	Target string
	// Suffix is the numeric disambiguator appended to the target name,
	// 0 when the base name was free.
	Suffix int
}

// Planner composes target filenames of the form
// <date>_<token>_<originalStem><ext> in the source file's directory and
// resolves collisions deterministically. A target collides when it already
// exists on disk (and is not the source itself) or was claimed by an earlier
// plan in the same run; collisions get numeric suffixes _1, _2, ... before
// the extension, assigned in first-seen order. A stem that already starts
// with the same date and token keeps its name, so re-running over renamed
// files is idempotent as long as their captions are stable.
type Planner struct {
	claimed map[string]string // target path -> source path that owns it
}

// NewPlanner creates a planner for a single run.
func NewPlanner() *Planner {
	return &Planner{claimed: make(map[string]string)}
}

// Plan computes the target path for source given its formatted capture date
// and caption token.
func (p *Planner) Plan(source, date, token string) (Plan, error) {
	dir := filepath.Dir(source)
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	baseName := fmt.Sprintf("%s_%s_%s", date, token, stem)
	if strings.HasPrefix(stem, date+"_"+token+"_") {
		// The file already carries this date and token from an earlier
		// run; keep its name instead of compounding the stem.
		baseName = stem
	}

	for n := 0; n <= maxSuffixAttempts; n++ {
		name := baseName
		if n > 0 {
			name = fmt.Sprintf("%s_%d", baseName, n)
		}
		target := filepath.Join(dir, name+ext)

		if !p.available(source, target) {
			continue
		}

		p.claimed[target] = source
		if n > 0 {
			log.Debug().
				Str("source", source).
				Str("target", target).
				Int("suffix", n).
				Msg("Resolved filename collision")
		}
		return Plan{Source: source, Target: target, Suffix: n}, nil
	}

	return Plan{}, ErrCollisionExhausted
}

// available reports whether target can be claimed for source.
func (p *Planner) available(source, target string) bool {
	if owner, ok := p.claimed[target]; ok && owner != source {
		return false
	}
	if target == source {
		// Renaming a file onto its own name is a no-op, not a collision.
		return true
	}
	if _, err := os.Lstat(target); err == nil {
		return false
	}
	return true
}
