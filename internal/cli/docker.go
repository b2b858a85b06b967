package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// NewDockerCommand creates the docker profile subcommand.
//
// This profile targets workstations and CI hosts running the Docker
// daemon. Unlike the singularity profile, --output names the output
// file itself; _log and _tmp are created as siblings in its parent
// directory. It additionally accepts a --run template for substituting
// a custom command inside the container.
func NewDockerCommand() *cobra.Command {
	flags := &sortFlags{}

	cmd := &cobra.Command{
		Use:   "docker",
		Short: "Sort a BAM file using the Docker runtime",
		Long: `Sort a BAM file with samtools sort inside a Docker container.

The --output flag names the output file to write. samtools diagnostics
go to a _log directory next to it, and sort temporaries to _tmp.

The optional --run flag replaces the default sort invocation with a
custom command template. Arguments prefixed with ^ are treated as host
paths: each is resolved, its directory is bind mounted into the
container, and the argument is rewritten to the in-container path.

Every flag can be overridden by an identically named lowercase
environment variable, which takes precedence over the flag value.`,
		Example: `  samsort docker --input reads.bam --output /results/sorted.bam
  samsort docker --input reads.bam --output sorted.bam \
      --run "samtools view -c ^reads.bam"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd.Context(), model.DockerProfile, flags)
		},
	}

	registerSortFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.run, "run", "", "Run-command template replacing the default sort invocation (^ marks host paths)")

	return cmd
}
