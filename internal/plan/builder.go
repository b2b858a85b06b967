// Package plan constructs the container invocation for a samsort run as
// a structured descriptor: a bind-mount list, an argument vector, and
// stdout/stderr redirection targets.
//
// The descriptor is handed directly to a process-spawning runner — there
// is no shell evaluation of an assembled command string anywhere, which
// removes quoting and injection concerns entirely. Paths containing
// spaces or shell metacharacters are ordinary argv elements. The only
// place quoting appears is Render, which produces a POSIX-quoted literal
// of the command for logs.
package plan

import (
	"fmt"
	"path"

	"mvdan.cc/sh/v3/syntax"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// MountSpec maps a host directory to a fixed in-container mount point.
type MountSpec struct {
	// HostDir is the absolute host directory to bind into the container.
	HostDir string

	// ContainerDir is the mount point inside the container.
	ContainerDir string
}

// String renders the mount in the "host:container" form both Docker (-v)
// and Singularity (-B) accept.
func (m MountSpec) String() string {
	return m.HostDir + ":" + m.ContainerDir
}

// Invocation is the complete execution plan for one container run.
// It is built once, executed once, and discarded with the process.
type Invocation struct {
	// Dirs lists host directories to create (idempotently) before the
	// container starts, in order.
	Dirs []string

	// Mounts is the structured record of all bind mounts. The same
	// mounts appear flag-encoded inside Argv; this list exists for
	// diagnostics and tests.
	Mounts []MountSpec

	// Argv is the fully assembled argument vector, starting with the
	// container runtime binary. It is passed to os/exec verbatim.
	Argv []string

	// Stdout is the host file receiving the container's standard output
	// (the sorted BAM).
	Stdout string

	// Stderr is the host file receiving the container's standard error
	// (the samtools log).
	Stderr string
}

// Render returns a POSIX shell-quoted literal of the invocation,
// including the redirections, for logging. The rendered string is never
// executed; it exists so failures in scheduler logs show the exact
// command that ran.
func (inv *Invocation) Render() string {
	out := RenderArgv(inv.Argv)
	if inv.Stdout != "" {
		out += " > " + quoteArg(inv.Stdout)
	}
	if inv.Stderr != "" {
		out += " 2> " + quoteArg(inv.Stderr)
	}
	return out
}

// RenderArgv returns a POSIX shell-quoted literal of an argument vector.
// Shared by Invocation.Render and the command runner's per-stage failure
// messages.
func RenderArgv(argv []string) string {
	out := ""
	for i, arg := range argv {
		if i > 0 {
			out += " "
		}
		out += quoteArg(arg)
	}
	return out
}

// quoteArg shell-quotes a single argument for display. syntax.Quote only
// fails on strings no shell can represent (embedded NUL); those fall
// back to the raw string since this output is informational.
func quoteArg(arg string) string {
	quoted, err := syntax.Quote(arg, syntax.LangPOSIX)
	if err != nil {
		return arg
	}
	return quoted
}

// Builder assembles container invocations from resolved paths. The
// image and mount points come from the site settings; the builder has
// no filesystem or environment access of its own.
type Builder struct {
	// Image is the samtools container image reference.
	Image string

	// InputMount is the in-container mount point of the input directory.
	InputMount string

	// OutputMount is the in-container mount point of the output directory.
	OutputMount string
}

// NewBuilder creates a Builder for the given image and mount points.
func NewBuilder(image, inputMount, outputMount string) *Builder {
	return &Builder{
		Image:       image,
		InputMount:  inputMount,
		OutputMount: outputMount,
	}
}

// SortArgs builds the in-container samtools argument vector for the
// standard sort invocation.
//
// The queryname-sort flag (-n) is present exactly when the requested
// order is queryname. The temp-file prefix (-T) points into the mounted
// _tmp directory so sort spill files land on the output volume, not in
// the container's writable layer. Output goes to stdout (-O bam, no -o),
// which the runner redirects to the result file.
func (b *Builder) SortArgs(paths model.ResolvedPaths, order model.SortOrder) []string {
	args := []string{"samtools", "sort"}
	if order == model.SortQueryname {
		args = append(args, "-n")
	}
	args = append(args,
		"-O", "bam",
		"-T", path.Join(b.OutputMount, "_tmp", paths.OutputBase),
		path.Join(b.InputMount, paths.InputName),
	)
	return args
}

// Build wraps an in-container argument vector with the backend invocation
// for the resolved exec method: runtime binary, bind mounts, and image
// reference. extraMounts carries template-derived mounts (see
// ExpandRunArgs) and may be nil.
//
// method must be concrete; passing ExecAuto is a programming error and
// is rejected.
func (b *Builder) Build(method model.ExecMethod, paths model.ResolvedPaths, containerArgs []string, extraMounts []MountSpec) (*Invocation, error) {
	mounts := []MountSpec{
		{HostDir: paths.InputDir, ContainerDir: b.InputMount},
		{HostDir: paths.OutputDir, ContainerDir: b.OutputMount},
	}
	mounts = append(mounts, extraMounts...)

	var argv []string
	switch method {
	case model.ExecSingularity:
		// singularity exec -B host:ctr ... docker://image <args>
		argv = []string{"singularity", "exec"}
		for _, m := range mounts {
			argv = append(argv, "-B", m.String())
		}
		argv = append(argv, "docker://"+b.Image)
		argv = append(argv, containerArgs...)

	case model.ExecDocker:
		// docker run --rm -v host:ctr ... image <args>
		argv = []string{"docker", "run", "--rm"}
		for _, m := range mounts {
			argv = append(argv, "-v", m.String())
		}
		argv = append(argv, b.Image)
		argv = append(argv, containerArgs...)

	default:
		return nil, fmt.Errorf("cannot build invocation for unresolved exec method %q", method.String())
	}

	return &Invocation{
		Dirs:   paths.Dirs(),
		Mounts: mounts,
		Argv:   argv,
		Stdout: paths.OutputFile,
		Stderr: paths.StderrLog,
	}, nil
}
