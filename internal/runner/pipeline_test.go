package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/samsort/internal/model"
	"github.com/mmr-tortoise/samsort/internal/plan"
)

// TestRunPipeline_Success verifies a healthy two-stage pipeline: data
// flows between stages and the terminal stage's stdout reaches the
// output writer.
func TestRunPipeline_Success(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := RunPipeline(context.Background(), [][]string{
		{"echo", "chr1\tchr2"},
		{"cat"},
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "chr1\tchr2\n", stdout.String())
	assert.Empty(t, stderr.String())
}

// TestRunPipeline_IntermediateStageFailure is the PIPESTATUS contract:
// "false | true" must fail with stage 0's exit code even though the
// terminal stage exits cleanly.
func TestRunPipeline_IntermediateStageFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := RunPipeline(context.Background(), [][]string{
		{"false"},
		{"true"},
	}, &stdout, &stderr)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(1), cliErr.Code)
	assert.Contains(t, err.Error(), "stage 0")
	assert.Contains(t, err.Error(), "false", "failure message should include the literal command")
}

// TestRunPipeline_ExitCodePropagation verifies that arbitrary exit codes
// survive unchanged — the wrapper's contract is verbatim propagation.
func TestRunPipeline_ExitCodePropagation(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := RunPipeline(context.Background(), [][]string{
		{"sh", "-c", "exit 7"},
	}, &stdout, &stderr)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(7), cliErr.Code)
}

// TestRunPipeline_FirstFailureWins verifies that when multiple stages
// fail, the lowest-indexed failure is reported.
func TestRunPipeline_FirstFailureWins(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := RunPipeline(context.Background(), [][]string{
		{"sh", "-c", "exit 3"},
		{"sh", "-c", "cat >/dev/null; exit 5"},
	}, &stdout, &stderr)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(3), cliErr.Code)
	assert.Contains(t, err.Error(), "stage 0")
}

// TestRunPipeline_StartFailure verifies the diagnostics when a stage's
// binary does not exist at all.
func TestRunPipeline_StartFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := RunPipeline(context.Background(), [][]string{
		{"/nonexistent/samsort-no-such-binary"},
	}, &stdout, &stderr)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "failed to start")
}

// TestRunPipeline_Empty rejects a pipeline with no stages.
func TestRunPipeline_Empty(t *testing.T) {
	err := RunPipeline(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "empty pipeline")
}

// TestRun_Redirections verifies the single-stage plan execution path:
// stdout lands in the result file, stderr in the log file.
func TestRun_Redirections(t *testing.T) {
	dir := t.TempDir()
	inv := &plan.Invocation{
		Argv:   []string{"sh", "-c", "echo sorted; echo progress >&2"},
		Stdout: filepath.Join(dir, "a.bam"),
		Stderr: filepath.Join(dir, "a-samtools-sort.stderr"),
	}

	require.NoError(t, Run(context.Background(), inv))

	out, err := os.ReadFile(inv.Stdout)
	require.NoError(t, err)
	assert.Equal(t, "sorted\n", string(out))

	log, err := os.ReadFile(inv.Stderr)
	require.NoError(t, err)
	assert.Equal(t, "progress\n", string(log))
}

// TestRun_FailurePropagatesCode verifies that Run carries the container
// command's exit code out through the CLIError.
func TestRun_FailurePropagatesCode(t *testing.T) {
	dir := t.TempDir()
	inv := &plan.Invocation{
		Argv:   []string{"sh", "-c", "exit 42"},
		Stdout: filepath.Join(dir, "a.bam"),
		Stderr: filepath.Join(dir, "a.stderr"),
	}

	err := Run(context.Background(), inv)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(42), cliErr.Code)
}

// TestPrepareDirs verifies idempotent nested directory creation.
func TestPrepareDirs(t *testing.T) {
	base := t.TempDir()
	dirs := []string{
		filepath.Join(base, "out"),
		filepath.Join(base, "out", "_log"),
		filepath.Join(base, "out", "_tmp"),
	}

	require.NoError(t, PrepareDirs(dirs))
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Second call must succeed on existing directories.
	assert.NoError(t, PrepareDirs(dirs))
}
