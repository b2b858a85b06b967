package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// TestRunInit_Empty verifies that an empty or blank init snippet is a
// no-op rather than an error.
func TestRunInit_Empty(t *testing.T) {
	assert.NoError(t, RunInit(context.Background(), ""))
	assert.NoError(t, RunInit(context.Background(), "   \n"))
}

// TestRunInit_Success runs a snippet with real side effects to confirm
// the interpreter executes it, not merely parses it.
func TestRunInit_Success(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "initialized")

	err := RunInit(context.Background(), "echo ready > "+marker)
	require.NoError(t, err)

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "ready\n", string(content))
}

// TestRunInit_ShellConstructs verifies that ordinary shell constructs
// (variables, conditionals) work — the snippet is a full shell script,
// not a single argv.
func TestRunInit_ShellConstructs(t *testing.T) {
	err := RunInit(context.Background(), `x=5; if [ "$x" -eq 5 ]; then true; else exit 9; fi`)
	assert.NoError(t, err)
}

// TestRunInit_ExitStatusPropagated verifies that the snippet's exit
// status is carried into the CLIError verbatim.
func TestRunInit_ExitStatusPropagated(t *testing.T) {
	err := RunInit(context.Background(), "exit 5")

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(5), cliErr.Code)
	assert.Contains(t, err.Error(), "exit code 5")
}

// TestRunInit_SyntaxError verifies that an unparsable snippet fails with
// the general error code before anything executes.
func TestRunInit_SyntaxError(t *testing.T) {
	err := RunInit(context.Background(), "if then fi (")

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "parse")
}
