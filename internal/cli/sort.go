// sort.go implements the shared orchestration behind both profile
// subcommands. The profiles differ only in container backend and output
// convention (see model.Profile); everything else — staging, validation,
// init evaluation, runtime detection, plan construction, and execution —
// is identical and lives here.
//
// Orchestration steps:
//  1. Assemble the run configuration from flags and environment overrides
//  2. Load site settings (image, mount points, staging policy)
//  3. Validate required fields and enumerated values
//  4. Stage the input (bounded existence poll, absolute path resolution)
//  5. Evaluate the exec-init snippet
//  6. Resolve the execution method (explicit or auto-detected)
//  7. Derive output paths and build the invocation plan
//  8. Create output/log/temp directories
//  9. Run the container and propagate its exit code
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/samsort/internal/config"
	"github.com/mmr-tortoise/samsort/internal/model"
	"github.com/mmr-tortoise/samsort/internal/plan"
	"github.com/mmr-tortoise/samsort/internal/runner"
	"github.com/mmr-tortoise/samsort/internal/runtime"
	"github.com/mmr-tortoise/samsort/internal/stage"
)

// sortFlags holds the flag values for a profile subcommand.
// These are bound to cobra flags in registerSortFlags.
type sortFlags struct {
	input      string // --input: BAM file to sort
	sortOrder  string // --sort_order: coordinate or queryname
	output     string // --output: output directory or file (profile-dependent)
	execMethod string // --exec_method: auto or the profile's backend
	execInit   string // --exec_init: shell snippet evaluated before the run
	run        string // --run: run-command template (docker profile only)
}

// registerSortFlags binds the flag set shared by both profiles.
// The flag names are part of the wrapper's external contract and must
// not change: job templates reference them literally, and each has an
// identically named lowercase environment variable override.
func registerSortFlags(cmd *cobra.Command, flags *sortFlags) {
	cmd.Flags().StringVar(&flags.input, "input", "", "BAM file to sort (required)")
	cmd.Flags().StringVar(&flags.sortOrder, "sort_order", "coordinate", "Sort order: coordinate or queryname")
	cmd.Flags().StringVar(&flags.output, "output", "", "Output location (required)")
	cmd.Flags().StringVar(&flags.execMethod, "exec_method", "auto", "Execution method: auto or the profile's backend")
	cmd.Flags().StringVar(&flags.execInit, "exec_init", "", "Shell snippet evaluated before the run (e.g. module load)")
}

// runSort is the main orchestration function shared by the profile
// subcommands. Control flows strictly forward: no stage loops back, and
// the first error aborts the run with its exit code.
func runSort(ctx context.Context, profile model.Profile, flags *sortFlags) error {
	// Step 1: Assemble the configuration. Environment variables override
	// flag values (see config.ApplyEnvOverrides for why the precedence is
	// inverted), after which the config is immutable.
	cfg := model.SortConfig{
		Input:      flags.input,
		SortOrder:  model.SortOrder(flags.sortOrder),
		Output:     flags.output,
		ExecMethod: model.ExecMethod(flags.execMethod),
		ExecInit:   flags.execInit,
	}
	config.ApplyEnvOverrides(&cfg)

	// Step 2: Load site settings from the base directory (executable's
	// install dir, or the job working directory under a job framework).
	baseDir := config.BaseDir()
	settings, err := config.LoadSettings(baseDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load settings", err)
	}
	VerboseLog("Settings loaded (base dir %s, image %s)", baseDir, settings.Image)

	// Step 3: Validate before touching anything. Enum values are parsed
	// here (rather than after staging) so a malformed job template fails
	// immediately instead of after a ten-second staging poll.
	order, method, err := validateConfig(&cfg)
	if err != nil {
		return err
	}

	// Step 4: Stage the input.
	stager := stage.NewStager(settings.StageAttempts, settings.StageInterval())
	VerboseLog("Waiting for input %q (%d attempts, %s apart)...", cfg.Input, stager.Attempts, stager.Interval)
	if err := stager.WaitForInput(ctx, cfg.Input); err != nil {
		return err
	}
	inputAbs, err := stager.Resolve(cfg.Input)
	if err != nil {
		return err
	}
	VerboseLog("Input staged: %s", inputAbs)

	// Step 5: Evaluate the exec-init snippet (no-op when empty).
	if err := runner.RunInit(ctx, cfg.ExecInit); err != nil {
		return err
	}

	// Step 6: Resolve the execution method. Membership in the profile's
	// supported set is checked first; "auto" then probes the host.
	planner := runtime.NewPlanner()
	resolved, err := planner.Resolve(ctx, profile, method)
	if err != nil {
		return err
	}
	VerboseLog("Execution method resolved: %s", resolved)

	// Step 7: Derive paths and build the invocation plan.
	paths, err := model.DerivePaths(profile.Layout, inputAbs, cfg.Output)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to derive output paths", err)
	}

	builder := plan.NewBuilder(settings.Image, settings.InputMount, settings.OutputMount)

	containerArgs := builder.SortArgs(paths, order)
	var extraMounts []plan.MountSpec
	if flags.run != "" {
		// The run-command template replaces the default sort invocation
		// inside the container; its ^-marked host paths get per-argument
		// mounts alongside the standard input/output mounts.
		containerArgs, extraMounts, err = plan.ExpandRunArgs(flags.run)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid run-command template", err)
		}
	}

	inv, err := builder.Build(resolved, paths, containerArgs, extraMounts)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to build invocation", err)
	}

	// Step 8: First filesystem mutation of the run.
	if err := runner.PrepareDirs(inv.Dirs); err != nil {
		return err
	}

	// Step 9: Run the container. The rendered literal goes to the
	// verbose trace so failures in scheduler logs show the exact command.
	VerboseLog("Running: %s", inv.Render())
	if err := runner.Run(ctx, inv); err != nil {
		return err
	}

	fmt.Printf("Sorted BAM written to %s\n", inv.Stdout)
	fmt.Printf("samtools log written to %s\n", inv.Stderr)
	return nil
}

// validateConfig parses the enumerated values, normalizes them back into
// the config, and checks the required fields. All failures map to exit
// code 1, before any side effects. After this returns, the config is
// final and no later stage mutates it.
func validateConfig(cfg *model.SortConfig) (model.SortOrder, model.ExecMethod, error) {
	order, err := model.ParseSortOrder(string(cfg.SortOrder))
	if err != nil {
		return "", "", model.WrapCLIError(model.ExitGeneralError, "invalid --sort_order", err)
	}
	cfg.SortOrder = order

	method, err := model.ParseExecMethod(string(cfg.ExecMethod))
	if err != nil {
		return "", "", model.WrapCLIError(model.ExitGeneralError, "invalid --exec_method", err)
	}
	cfg.ExecMethod = method

	if err := cfg.Validate(); err != nil {
		return "", "", model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}

	return order, method, nil
}
