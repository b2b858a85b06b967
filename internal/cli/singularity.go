package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/samsort/internal/model"
)

// NewSingularityCommand creates the singularity profile subcommand.
//
// This profile targets HPC clusters where Singularity is the installed
// container runtime. Its output convention differs from the docker
// profile: --output names a directory, and the sorted BAM is written
// inside it as <basename>.bam next to the _log and _tmp subdirectories.
func NewSingularityCommand() *cobra.Command {
	flags := &sortFlags{}

	cmd := &cobra.Command{
		Use:   "singularity",
		Short: "Sort a BAM file using the Singularity runtime",
		Long: `Sort a BAM file with samtools sort inside a Singularity container.

The --output flag names an output directory. The sorted BAM is written
into it as <dirname>.bam, samtools diagnostics go to _log/, and sort
temporaries to _tmp/.

Every flag can be overridden by an identically named lowercase
environment variable, which takes precedence over the flag value.`,
		Example: `  samsort singularity --input reads.bam --output /results/run42
  samsort singularity --input reads.bam --sort_order queryname --output run42 \
      --exec_init "module load singularity"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd.Context(), model.SingularityProfile, flags)
		},
	}

	registerSortFlags(cmd, flags)

	return cmd
}
