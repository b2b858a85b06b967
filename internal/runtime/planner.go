package runtime

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// Planner resolves the requested execution method to a concrete backend.
//
// The probe functions are fields so tests can substitute fakes; NewPlanner
// wires the real ones (exec.LookPath and the Docker daemon probe).
type Planner struct {
	// LookPath reports whether a binary is on the search path.
	// Defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// ProbeDocker verifies that a Docker daemon is reachable.
	// Defaults to ProbeDockerDaemon.
	ProbeDocker func(ctx context.Context) error
}

// NewPlanner creates a Planner backed by the host's real search path and
// Docker daemon.
func NewPlanner() *Planner {
	return &Planner{
		LookPath:    exec.LookPath,
		ProbeDocker: ProbeDockerDaemon,
	}
}

// Resolve validates the requested method against the profile's supported
// set and, for "auto", probes the host for the profile's backend.
//
// The returned method is always concrete (never ExecAuto). All failures
// are CLIErrors with ExitGeneralError, raised before any filesystem
// mutation — directory creation happens strictly after planning.
func (p *Planner) Resolve(ctx context.Context, profile model.Profile, requested model.ExecMethod) (model.ExecMethod, error) {
	// Membership check first: requesting the other profile's backend is a
	// configuration error, not a detection failure.
	if !profile.Supports(requested) {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("exec method %q is not supported by the %s profile (valid: %s)",
				requested.String(), profile.Name, formatMethods(profile.SupportedMethods())))
	}

	if requested != model.ExecAuto {
		// An explicit backend request is taken at face value: the user (or
		// the job platform) asserts the runtime is present. Failure surfaces
		// at invocation time with the runtime's own diagnostics.
		return requested, nil
	}

	if err := p.probeBackend(ctx, profile.Backend); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("exec method auto-detection failed: %s runtime not available", profile.Backend.String()),
			err)
	}

	return profile.Backend, nil
}

// probeBackend checks for the presence of a single container runtime.
// Singularity is a plain binary — a search path hit is sufficient.
// Docker additionally needs a reachable daemon, so the binary check is
// followed by a daemon ping via the Docker SDK.
func (p *Planner) probeBackend(ctx context.Context, backend model.ExecMethod) error {
	switch backend {
	case model.ExecSingularity:
		if _, err := p.LookPath("singularity"); err != nil {
			return fmt.Errorf("singularity binary not found on PATH: %w", err)
		}
		return nil

	case model.ExecDocker:
		if _, err := p.LookPath("docker"); err != nil {
			return fmt.Errorf("docker binary not found on PATH: %w", err)
		}
		return p.ProbeDocker(ctx)

	default:
		return fmt.Errorf("no probe defined for exec method %q", backend.String())
	}
}

// formatMethods renders a supported-method set for diagnostics,
// e.g. "singularity, auto".
func formatMethods(methods []model.ExecMethod) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m.String()
	}
	return out
}
