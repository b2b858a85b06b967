// Package runner executes samsort invocation plans: creating the output
// directories, spawning the container process with its redirections, and
// evaluating the optional exec-init shell snippet.
//
// Commands run through os/exec with explicit argument vectors — plans are
// never flattened to a string and re-parsed by a shell. Pipelines are
// explicit stage lists; every stage's exit status is inspected after the
// whole pipeline drains, so a failure in an intermediate stage is
// reported even when the terminal stage exits cleanly.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mmr-tortoise/samsort/internal/model"
	"github.com/mmr-tortoise/samsort/internal/plan"
)

// PrepareDirs creates the plan's host directories, in order. Creation is
// idempotent: existing directories are not an error. This is the first
// filesystem mutation of a run and happens only after validation,
// staging, and execution planning have all succeeded.
func PrepareDirs(dirs []string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to create directory %q", dir), err)
		}
	}
	return nil
}

// Run executes a single-stage invocation plan: the container command with
// stdout redirected to the result file and stderr to the log file.
//
// A non-zero container exit code is propagated verbatim inside the
// returned CLIError, so schedulers observe the same code samtools (or
// the runtime) produced.
func Run(ctx context.Context, inv *plan.Invocation) error {
	stdout, err := os.Create(inv.Stdout)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create output file %q", inv.Stdout), err)
	}
	defer func() { _ = stdout.Close() }()

	stderr, err := os.Create(inv.Stderr)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create log file %q", inv.Stderr), err)
	}
	defer func() { _ = stderr.Close() }()

	return RunPipeline(ctx, [][]string{inv.Argv}, stdout, stderr)
}

// RunPipeline executes a sequence of commands connected stdin-to-stdout,
// like a shell pipeline, and checks EVERY stage's exit status — the
// equivalent of inspecting the full PIPESTATUS array rather than only
// the terminal stage's code.
//
// The terminal stage's stdout goes to the stdout writer; every stage's
// stderr goes to the stderr writer. All stages are waited on even after
// a failure is known, so no child is left unreaped.
//
// On failure, the returned CLIError carries the FIRST failing stage's
// exit code and a message naming the stage index and its literal
// (shell-quoted) command.
func RunPipeline(ctx context.Context, stages [][]string, stdout, stderr io.Writer) error {
	if len(stages) == 0 {
		return model.NewCLIError(model.ExitGeneralError, "empty pipeline")
	}

	cmds := make([]*exec.Cmd, len(stages))
	for i, argv := range stages {
		if len(argv) == 0 {
			return model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("pipeline stage %d is empty", i))
		}
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stderr = stderr
		cmds[i] = cmd
	}

	// Wire the pipes: each stage's stdout feeds the next stage's stdin,
	// and the terminal stage writes to the caller's stdout target.
	for i := 0; i < len(cmds)-1; i++ {
		pipe, err := cmds[i].StdoutPipe()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to create pipe after stage %d", i), err)
		}
		cmds[i+1].Stdin = pipe
	}
	cmds[len(cmds)-1].Stdout = stdout

	// Start all stages. If one fails to start, kill the already-started
	// ones so nothing is orphaned, then report the start failure.
	for i, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			for j := 0; j < i; j++ {
				_ = cmds[j].Process.Kill()
				_ = cmds[j].Wait()
			}
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to start pipeline stage %d (%s)", i, plan.RenderArgv(stages[i])), err)
		}
	}

	// Wait for every stage in order and record each exit status.
	// Wait must run for all stages before any status is judged, both to
	// reap the children and to let the pipeline drain.
	statuses := make([]int, len(cmds))
	for i, cmd := range cmds {
		if err := cmd.Wait(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				statuses[i] = exitErr.ExitCode()
			} else {
				// Wait failed for a non-exit reason (e.g. I/O error on the
				// pipe). Record a generic failure code for this stage.
				statuses[i] = int(model.ExitGeneralError)
			}
		}
	}

	for i, status := range statuses {
		if status != 0 {
			return model.NewCLIError(model.ExitCode(status),
				fmt.Sprintf("pipeline stage %d failed with exit code %d: %s",
					i, status, plan.RenderArgv(stages[i])))
		}
	}

	return nil
}
