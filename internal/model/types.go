package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SortOrder represents the requested BAM sort order, matching the two
// orderings samtools sort supports.
type SortOrder string

const (
	// SortCoordinate sorts alignments by reference sequence and position.
	// This is the samtools default and the default for samsort as well.
	SortCoordinate SortOrder = "coordinate"

	// SortQueryname sorts alignments by read (query) name.
	// This maps to the samtools sort -n flag.
	SortQueryname SortOrder = "queryname"
)

// String returns the string representation of SortOrder.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI messages and logs.
func (s SortOrder) String() string {
	return string(s)
}

// IsValid checks whether the SortOrder value is one of the
// predefined valid orderings.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortCoordinate, SortQueryname:
		return true
	default:
		return false
	}
}

// ParseSortOrder converts a string to a SortOrder.
// Returns an error if the string does not match any valid ordering.
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(s))
	if !order.IsValid() {
		return "", fmt.Errorf("invalid sort order: %q (valid: coordinate, queryname)", s)
	}
	return order, nil
}

// ExecMethod represents the requested container execution method.
// Each tool profile supports exactly two values: its own backend name
// and "auto", which probes the host for the backend at runtime.
type ExecMethod string

const (
	// ExecAuto asks samsort to probe the host for the profile's container
	// runtime. Detection is one-shot: if the runtime is not found, the run
	// aborts rather than falling back to another backend.
	ExecAuto ExecMethod = "auto"

	// ExecSingularity runs samtools inside a Singularity container.
	ExecSingularity ExecMethod = "singularity"

	// ExecDocker runs samtools inside a Docker container.
	ExecDocker ExecMethod = "docker"
)

// String returns the string representation of ExecMethod.
func (m ExecMethod) String() string {
	return string(m)
}

// IsValid checks whether the ExecMethod value is one of the
// predefined valid methods.
func (m ExecMethod) IsValid() bool {
	switch m {
	case ExecAuto, ExecSingularity, ExecDocker:
		return true
	default:
		return false
	}
}

// ParseExecMethod converts a string to an ExecMethod.
// Returns an error if the string does not match any valid method.
// Note that membership in a specific profile's supported set is checked
// separately by the execution planner.
func ParseExecMethod(s string) (ExecMethod, error) {
	method := ExecMethod(strings.ToLower(s))
	if !method.IsValid() {
		return "", fmt.Errorf("invalid exec method: %q (valid: auto, singularity, docker)", s)
	}
	return method, nil
}

// OutputLayout represents the output naming convention of a tool profile.
// The two wrapper variants differ only in backend and in this convention,
// so the layout is modeled explicitly rather than being implied by the
// backend.
type OutputLayout string

const (
	// LayoutDirectory treats --output as a directory. The sorted BAM is
	// written inside it as <base>.bam, where <base> is the directory's
	// own base name. Log and temp directories live inside the output
	// directory (_log, _tmp).
	LayoutDirectory OutputLayout = "directory"

	// LayoutFile treats --output as the literal result file path.
	// Log and temp directories (_log, _tmp) are created under the
	// output file's parent directory.
	LayoutFile OutputLayout = "file"
)

// String returns the string representation of OutputLayout.
func (l OutputLayout) String() string {
	return string(l)
}

// IsValid checks whether the OutputLayout value is one of the
// predefined valid layouts.
func (l OutputLayout) IsValid() bool {
	switch l {
	case LayoutDirectory, LayoutFile:
		return true
	default:
		return false
	}
}

// Profile describes a tool profile: the container backend it drives and
// the output convention it follows. The two predefined profiles mirror
// the two original wrapper variants.
type Profile struct {
	// Name is the profile identifier, also used as the subcommand name.
	Name string

	// Backend is the concrete container runtime this profile invokes.
	// It is always a concrete method (never ExecAuto).
	Backend ExecMethod

	// Layout is the output naming convention for this profile.
	Layout OutputLayout
}

// SingularityProfile runs samtools sort under Singularity and writes the
// result into an output directory.
var SingularityProfile = Profile{
	Name:    "singularity",
	Backend: ExecSingularity,
	Layout:  LayoutDirectory,
}

// DockerProfile runs samtools sort under Docker and writes the result to
// the exact file path given as --output.
var DockerProfile = Profile{
	Name:    "docker",
	Backend: ExecDocker,
	Layout:  LayoutFile,
}

// SupportedMethods returns the set of exec methods this profile accepts.
// Each profile supports exactly its own backend plus "auto".
func (p Profile) SupportedMethods() []ExecMethod {
	return []ExecMethod{p.Backend, ExecAuto}
}

// Supports reports whether the given method is a member of this profile's
// supported set.
func (p Profile) Supports(method ExecMethod) bool {
	return method == p.Backend || method == ExecAuto
}

// SortConfig is the invocation configuration for a single samsort run.
// It is built once from parsed flags plus environment overrides and is
// immutable thereafter — later stages read it but never mutate it.
type SortConfig struct {
	// Input is the path to the BAM file to sort, as given by the user.
	// May be relative; the input stager resolves it to an absolute path.
	Input string

	// SortOrder is the requested alignment ordering.
	SortOrder SortOrder

	// Output is the output location. Its interpretation depends on the
	// profile's OutputLayout (directory vs. literal file).
	Output string

	// ExecMethod is the requested execution method, possibly ExecAuto.
	ExecMethod ExecMethod

	// ExecInit is an optional shell snippet evaluated before detection
	// and container invocation (e.g. "module load singularity" on HPC
	// submit hosts). Empty means no-op.
	ExecInit string
}

// Validate checks the required fields of a SortConfig.
// Enum values are expected to have been parsed already; this method
// guards the fields that have no parse step (input and output paths).
func (c *SortConfig) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("missing required value: --input")
	}
	if c.Output == "" {
		return fmt.Errorf("missing required value: --output")
	}
	if !c.SortOrder.IsValid() {
		return fmt.Errorf("invalid sort order: %q", string(c.SortOrder))
	}
	if !c.ExecMethod.IsValid() {
		return fmt.Errorf("invalid exec method: %q", string(c.ExecMethod))
	}
	return nil
}

// stderrSuffix is the fixed suffix of the per-run stderr log file.
// The full log name is "<base>-samtools-sort.stderr".
const stderrSuffix = "-samtools-sort.stderr"

// ResolvedPaths holds all derived absolute paths for a run. It is computed
// once after validation and staging, and read-only afterward.
//
// The Dirs method lists the directories that must be created before the
// container is invoked; nothing in this struct performs filesystem
// mutation itself.
type ResolvedPaths struct {
	// InputAbs is the absolute path of the staged input BAM.
	InputAbs string

	// InputDir is the host directory containing the input BAM. This is
	// the directory that gets bind-mounted into the container.
	InputDir string

	// InputName is the input's base file name, including extension.
	InputName string

	// OutputDir is the host directory that receives the sorted output.
	// For LayoutDirectory this is the --output directory itself; for
	// LayoutFile it is the output file's parent.
	OutputDir string

	// OutputFile is the absolute path of the sorted BAM result.
	OutputFile string

	// OutputBase is the base name (without .bam extension) used to name
	// the stderr log and the samtools temp file prefix.
	OutputBase string

	// LogDir is the directory receiving the stderr log file.
	LogDir string

	// TmpDir is the samtools temporary-file directory.
	TmpDir string

	// StderrLog is the absolute path of the stderr log file,
	// "<LogDir>/<OutputBase>-samtools-sort.stderr".
	StderrLog string
}

// Dirs returns the directories that must exist before the container runs,
// in creation order. Directory creation is idempotent (MkdirAll), so the
// list may contain paths that already exist.
func (p ResolvedPaths) Dirs() []string {
	return []string{p.OutputDir, p.LogDir, p.TmpDir}
}

// DerivePaths computes the full set of resolved paths for a run.
//
// inputAbs must already be absolute (the input stager guarantees this).
// output is the raw --output value; it is resolved to an absolute path
// here so that relative outputs behave consistently regardless of the
// caller's working directory.
//
// For LayoutDirectory, output names the result directory and the result
// file is "<output>/<base>.bam" where <base> is the directory's own base
// name. For LayoutFile, output names the result file literally and the
// base is its file name without the .bam extension.
func DerivePaths(layout OutputLayout, inputAbs, output string) (ResolvedPaths, error) {
	if !filepath.IsAbs(inputAbs) {
		return ResolvedPaths{}, fmt.Errorf("input path must be absolute, got %q", inputAbs)
	}

	outAbs, err := filepath.Abs(output)
	if err != nil {
		return ResolvedPaths{}, fmt.Errorf("failed to resolve output path %q: %w", output, err)
	}

	paths := ResolvedPaths{
		InputAbs:  inputAbs,
		InputDir:  filepath.Dir(inputAbs),
		InputName: filepath.Base(inputAbs),
	}

	switch layout {
	case LayoutDirectory:
		// The output directory's own name doubles as the result base name:
		// --output /out/a produces /out/a/a.bam.
		paths.OutputDir = outAbs
		paths.OutputBase = filepath.Base(outAbs)
		paths.OutputFile = filepath.Join(outAbs, paths.OutputBase+".bam")

	case LayoutFile:
		// The output path is the literal result file. The base name drops
		// the extension so the log file reads naturally: --output /out/a.bam
		// logs to _log/a-samtools-sort.stderr.
		paths.OutputFile = outAbs
		paths.OutputDir = filepath.Dir(outAbs)
		paths.OutputBase = strings.TrimSuffix(filepath.Base(outAbs), filepath.Ext(outAbs))

	default:
		return ResolvedPaths{}, fmt.Errorf("invalid output layout: %q", string(layout))
	}

	paths.LogDir = filepath.Join(paths.OutputDir, "_log")
	paths.TmpDir = filepath.Join(paths.OutputDir, "_tmp")
	paths.StderrLog = filepath.Join(paths.LogDir, paths.OutputBase+stderrSuffix)

	return paths, nil
}
