package config

import (
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// Environment variable names recognized by samsort. Each flag has an
// identically named lowercase environment variable which, when set
// non-empty, takes precedence over the command-line value. This inverted
// precedence (environment over flag) matches the job-submission platforms
// the wrapper integrates with: the platform injects parameter values into
// the job environment and expects them to win over any baked-in defaults
// in the app wrapper's argument list.
const (
	EnvInput      = "input"
	EnvSortOrder  = "sort_order"
	EnvOutput     = "output"
	EnvExecMethod = "exec_method"
	EnvExecInit   = "exec_init"

	// EnvJobID is set by the job-submission platform when the wrapper
	// runs inside a managed job. Its presence switches base directory
	// resolution from the executable's install location to the job's
	// working directory.
	EnvJobID = "AGAVE_JOB_ID"
)

// ApplyEnvOverrides overlays environment variable values onto a parsed
// SortConfig. Only set, non-empty variables override; everything else
// keeps the flag (or default) value. The enum fields are overridden as
// raw strings here — parsing and validation happen afterward, so a bad
// value in the environment fails exactly like a bad flag value.
func ApplyEnvOverrides(cfg *model.SortConfig) {
	if v := os.Getenv(EnvInput); v != "" {
		cfg.Input = v
	}
	if v := os.Getenv(EnvSortOrder); v != "" {
		cfg.SortOrder = model.SortOrder(v)
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv(EnvExecMethod); v != "" {
		cfg.ExecMethod = model.ExecMethod(v)
	}
	if v := os.Getenv(EnvExecInit); v != "" {
		cfg.ExecInit = v
	}
}

// BaseDir returns the directory used to locate the settings file and to
// anchor any relative path resolution.
//
// Outside a managed job, this is the directory containing the samsort
// executable, so a settings file installed next to the binary is found
// regardless of where the user invokes it from. Inside a managed job
// (EnvJobID set), the platform stages all job inputs into the job's
// working directory, so the working directory is used instead.
func BaseDir() string {
	if os.Getenv(EnvJobID) != "" {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
	}

	exe, err := os.Executable()
	if err != nil {
		// Executable path unavailable (rare; e.g. deleted binary on some
		// platforms). Fall back to the working directory.
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			return cwd
		}
		return "."
	}
	return filepath.Dir(exe)
}
