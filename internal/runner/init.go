package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// RunInit evaluates the --exec_init shell snippet. An empty snippet is a
// no-op. A non-zero exit status aborts the run with that status, the
// same contract as every other stage.
//
// The snippet is interpreted in-process with mvdan.cc/sh rather than
// handed to /bin/sh, which keeps behavior identical across hosts
// (including ones where sh is dash, busybox, or absent) and avoids
// re-quoting the user's string through another shell layer. The snippet
// inherits the samsort process environment and stdio, so init commands
// like `module load singularity` can print diagnostics normally.
func RunInit(ctx context.Context, script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "exec_init")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			"failed to parse exec init command", err)
	}

	sh, err := interp.New(
		interp.StdIO(os.Stdin, os.Stdout, os.Stderr),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			"failed to create exec init interpreter", err)
	}

	if err := sh.Run(ctx, prog); err != nil {
		// interp reports a non-zero script exit as an exit status error;
		// propagate that code verbatim.
		if status, ok := interp.IsExitStatus(err); ok {
			return model.NewCLIError(model.ExitCode(status),
				fmt.Sprintf("exec init command failed with exit code %d", status))
		}
		return model.WrapCLIError(model.ExitGeneralError,
			"exec init command failed", err)
	}

	return nil
}
