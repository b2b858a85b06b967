package model

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSortOrder_String verifies that SortOrder values produce the expected
// string representations for CLI output and command construction.
func TestSortOrder_String(t *testing.T) {
	assert.Equal(t, "coordinate", SortCoordinate.String())
	assert.Equal(t, "queryname", SortQueryname.String())
}

// TestParseSortOrder verifies string-to-order conversion,
// including case normalization and error cases.
func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
		hasError bool
	}{
		{"coordinate", SortCoordinate, false},
		{"queryname", SortQueryname, false},
		{"Coordinate", SortCoordinate, false}, // case insensitive
		{"QUERYNAME", SortQueryname, false},   // case insensitive
		{"position", "", true},                // unknown value
		{"", "", true},                        // empty string
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSortOrder(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestParseExecMethod verifies string-to-method conversion.
func TestParseExecMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected ExecMethod
		hasError bool
	}{
		{"auto", ExecAuto, false},
		{"singularity", ExecSingularity, false},
		{"docker", ExecDocker, false},
		{"Auto", ExecAuto, false}, // case insensitive
		{"podman", "", true},      // unsupported runtime
		{"", "", true},            // empty string
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseExecMethod(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestProfile_Supports checks the per-profile supported method sets:
// each profile accepts exactly its own backend plus "auto".
func TestProfile_Supports(t *testing.T) {
	assert.True(t, SingularityProfile.Supports(ExecSingularity))
	assert.True(t, SingularityProfile.Supports(ExecAuto))
	assert.False(t, SingularityProfile.Supports(ExecDocker))

	assert.True(t, DockerProfile.Supports(ExecDocker))
	assert.True(t, DockerProfile.Supports(ExecAuto))
	assert.False(t, DockerProfile.Supports(ExecSingularity))
}

// TestProfile_SupportedMethods verifies the advertised method sets used
// in diagnostics.
func TestProfile_SupportedMethods(t *testing.T) {
	assert.Equal(t, []ExecMethod{ExecSingularity, ExecAuto}, SingularityProfile.SupportedMethods())
	assert.Equal(t, []ExecMethod{ExecDocker, ExecAuto}, DockerProfile.SupportedMethods())
}

// TestSortConfig_Validate checks required-field and enum validation.
func TestSortConfig_Validate(t *testing.T) {
	valid := SortConfig{
		Input:      "/data/a.bam",
		SortOrder:  SortCoordinate,
		Output:     "/out/a",
		ExecMethod: ExecAuto,
	}
	assert.NoError(t, valid.Validate())

	missingInput := valid
	missingInput.Input = ""
	assert.ErrorContains(t, missingInput.Validate(), "--input")

	missingOutput := valid
	missingOutput.Output = ""
	assert.ErrorContains(t, missingOutput.Validate(), "--output")

	badOrder := valid
	badOrder.SortOrder = "position"
	assert.ErrorContains(t, badOrder.Validate(), "sort order")

	badMethod := valid
	badMethod.ExecMethod = "podman"
	assert.ErrorContains(t, badMethod.Validate(), "exec method")
}

// TestDerivePaths_DirectoryLayout verifies the directory output convention:
// --output /out/a yields /out/a/a.bam, with logs and temp space inside
// the output directory.
func TestDerivePaths_DirectoryLayout(t *testing.T) {
	paths, err := DerivePaths(LayoutDirectory, "/data/a.bam", "/out/a")
	require.NoError(t, err)

	assert.Equal(t, "/data/a.bam", paths.InputAbs)
	assert.Equal(t, "/data", paths.InputDir)
	assert.Equal(t, "a.bam", paths.InputName)
	assert.Equal(t, "/out/a", paths.OutputDir)
	assert.Equal(t, "a", paths.OutputBase)
	assert.Equal(t, "/out/a/a.bam", paths.OutputFile)
	assert.Equal(t, "/out/a/_log", paths.LogDir)
	assert.Equal(t, "/out/a/_tmp", paths.TmpDir)
	assert.Equal(t, "/out/a/_log/a-samtools-sort.stderr", paths.StderrLog)
}

// TestDerivePaths_FileLayout verifies the literal-file output convention:
// --output names the result file and _log/_tmp live under its parent.
func TestDerivePaths_FileLayout(t *testing.T) {
	paths, err := DerivePaths(LayoutFile, "/data/sample.bam", "/results/sorted.bam")
	require.NoError(t, err)

	assert.Equal(t, "/results/sorted.bam", paths.OutputFile)
	assert.Equal(t, "/results", paths.OutputDir)
	assert.Equal(t, "sorted", paths.OutputBase)
	assert.Equal(t, "/results/_log", paths.LogDir)
	assert.Equal(t, "/results/_tmp", paths.TmpDir)
	assert.Equal(t, "/results/_log/sorted-samtools-sort.stderr", paths.StderrLog)
}

// TestDerivePaths_RelativeOutput checks that a relative output path is
// resolved against the process working directory.
func TestDerivePaths_RelativeOutput(t *testing.T) {
	paths, err := DerivePaths(LayoutDirectory, "/data/a.bam", "out")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(paths.OutputDir),
		"relative output should be resolved to an absolute path")
}

// TestDerivePaths_RejectsRelativeInput verifies the absolute-input
// precondition established by the input stager.
func TestDerivePaths_RejectsRelativeInput(t *testing.T) {
	_, err := DerivePaths(LayoutDirectory, "a.bam", "/out/a")
	assert.ErrorContains(t, err, "absolute")
}

// TestResolvedPaths_Dirs verifies the directory creation list in order.
func TestResolvedPaths_Dirs(t *testing.T) {
	paths, err := DerivePaths(LayoutDirectory, "/data/a.bam", "/out/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"/out/a", "/out/a/_log", "/out/a/_tmp"}, paths.Dirs())
}

// TestCLIError verifies message formatting, exit code carriage, and
// error unwrapping.
func TestCLIError(t *testing.T) {
	base := errors.New("boom")

	wrapped := WrapCLIError(ExitGeneralError, "staging failed", base)
	assert.Equal(t, ExitGeneralError, wrapped.Code)
	assert.Equal(t, "staging failed: boom", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base), "Unwrap should expose the underlying error")

	plain := NewCLIError(ExitUnknownFlag, "unknown flag: --frobnicate")
	assert.Equal(t, ExitUnknownFlag, plain.Code)
	assert.Equal(t, "unknown flag: --frobnicate", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

// TestCLIError_PropagatedCode checks that arbitrary container exit codes
// survive the round trip through CLIError unchanged.
func TestCLIError_PropagatedCode(t *testing.T) {
	err := NewCLIError(ExitCode(137), "samtools sort was killed")
	assert.Equal(t, 137, int(err.Code))
}
