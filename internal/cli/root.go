// Package cli implements the cobra-based CLI commands for samsort.
//
// Each tool profile (singularity, docker) is a subcommand defined in its
// own file. This file defines the root command, the global flag, and the
// single process-exit boundary that translates errors into exit codes.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// verbose enables detailed tracing output for debugging. It is bound to
// a persistent flag on the root command, which makes it available to
// every subcommand automatically.
var verbose bool

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and the global flag. Actual functionality is provided by the
// profile subcommands (singularity, docker).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "samsort",
		Short: "Containerized samtools sort wrapper",
		Long: `samsort stages a BAM file, runs samtools sort inside a container
(Singularity or Docker), and writes the sorted output plus logs to a
designated location.

The sorting itself is delegated to the samtools binary in a biocontainers
image; samsort handles input staging, runtime detection, bind mount
construction, output redirection, and exit code propagation.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner scheduler logs.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Errors are formatted once, at the Execute boundary.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Flag parse errors carry dedicated exit codes: 3 for an unrecognized
	// flag, 2 for any other command-line syntax error. The distinction
	// lets job frameworks separate "wrong wrapper version" (unknown flag)
	// from "malformed job template" (syntax).
	rootCmd.SetFlagErrorFunc(flagError)

	// Register the profile subcommands. Each is defined in its own file
	// (singularity.go, docker.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewSingularityCommand())
	rootCmd.AddCommand(NewDockerCommand())

	return rootCmd
}

// flagError maps a cobra/pflag parse error to a CLIError with the
// appropriate exit code. pflag does not expose typed errors, so the
// classification keys off its stable message prefixes.
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		return model.WrapCLIError(model.ExitUnknownFlag, "unrecognized flag", err)
	}
	return model.WrapCLIError(model.ExitUsageError, "invalid command line", err)
}

// Execute runs the root command and handles exit codes.
// This is the single exit boundary called from main.go: every
// termination path, success or failure, passes through here and logs
// its numeric exit code, giving uniform observability regardless of
// which stage failed.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		logExit(model.ExitSuccess)
		return
	}

	// CLIErrors carry their own exit codes, including container exit
	// codes propagated verbatim; anything else defaults to 1.
	code := model.ExitGeneralError
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		code = cliErr.Code
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	logExit(code)
	os.Exit(int(code))
}

// logExit writes the final exit code to stderr. This is the uniform
// last line of every run, mirroring what schedulers capture from the
// wrapper regardless of outcome.
func logExit(code model.ExitCode) {
	fmt.Fprintf(os.Stderr, "samsort: exit code %d\n", int(code))
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled. Used throughout the CLI for trace output that helps users
// understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
