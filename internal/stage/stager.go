// Package stage implements input staging for samsort: waiting for the
// input BAM to appear on the filesystem and resolving it to the absolute
// form the mount builder needs.
//
// On shared filesystems the input file is often still being copied into
// place by the job framework when the wrapper starts, so existence is
// polled with a bounded retry loop rather than checked once. The loop is
// the only blocking wait in the whole program and is bounded by a fixed
// attempt count — there is no retry anywhere else.
package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// Stager polls for input file existence with a bounded retry loop.
//
// The struct fields exist so tests can shrink the interval; production
// callers use NewStager, which applies the one-second, ten-attempt policy.
type Stager struct {
	// Attempts is the number of existence checks before giving up.
	Attempts int

	// Interval is the pause between consecutive checks. No pause follows
	// the final check.
	Interval time.Duration
}

// NewStager creates a Stager with the standard staging policy:
// ten attempts, one second apart.
func NewStager(attempts int, interval time.Duration) *Stager {
	if attempts <= 0 {
		attempts = 10
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Stager{Attempts: attempts, Interval: interval}
}

// WaitForInput blocks until the input file exists or the attempt budget
// is exhausted. The context is honored between polls so a cancelled run
// does not sit out the remaining sleep.
//
// Returns a CLIError with ExitGeneralError if the file never appears;
// the message includes the attempt count and total wait so the failure
// is actionable from scheduler logs alone.
func (s *Stager) WaitForInput(ctx context.Context, path string) error {
	for attempt := 1; attempt <= s.Attempts; attempt++ {
		if _, err := os.Stat(path); err == nil {
			return nil
		}

		// Skip the sleep after the last check — the budget is attempts,
		// not attempts plus one trailing pause.
		if attempt == s.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("staging of input file %q interrupted", path), ctx.Err())
		case <-time.After(s.Interval):
		}
	}

	return model.NewCLIError(model.ExitGeneralError,
		fmt.Sprintf("input file %q not found after %d attempts (%s total)",
			path, s.Attempts, time.Duration(s.Attempts-1)*s.Interval))
}

// Resolve converts a staged input path to its absolute form and verifies
// it is a regular file, not a directory. The absolute path anchors bind
// mount construction, which cannot work with paths relative to a working
// directory the container never sees.
func (s *Stager) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to resolve input path %q", path), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to stat input file %q", abs), err)
	}
	if info.IsDir() {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("input path %q is a directory, expected a BAM file", abs))
	}

	return abs, nil
}
