// Package model defines the domain types and value objects for the
// samsort CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (SortConfig, ResolvedPaths, Profile, the SortOrder and
// ExecMethod enums) are built once per run and treated as immutable by
// every later stage — there is no persistent state.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling,
// including verbatim propagation of container command exit codes.
package model
