package cmd

import (
	"github.com/lutfia95/pseq/internal/decoy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// generateCmd is for pairing each target with a unique, similar decoy.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Run:   decoy.GenerateCmd,
	Short: "Match each target protein to a unique decoy with similar length and (K+R) content",
	Long: `Match each target protein against a pool of real decoy sequences.

Every target gets at most one decoy, and no decoy is reused. Candidates are
scored by a weighted sum of the length difference and the (K+R) count
difference, searched outward from the target's exact (length, K+R) key up to
the configured windows. Targets with no candidate inside the windows are
reported as unmatched rather than failing the run.

The output is an interleaved target/decoy FASTA plus a TSV summary with
overall totals, one stat line per matched target, and the unmatched targets.`,
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	generateCmd.Flags().StringP("targets", "t", "", "target FASTA file")
	generateCmd.Flags().StringP("decoys", "d", "", "decoy FASTA file (real decoys)")
	generateCmd.Flags().StringP("out-fasta", "o", "", "output FASTA with interleaved target/decoy records")
	generateCmd.Flags().StringP("out-summary", "s", "", "output TSV summary")
	generateCmd.Flags().Int("len-weight", 1, "weight for length difference in scoring")
	generateCmd.Flags().Int("kr-weight", 10, "weight for (K+R) difference in scoring")
	generateCmd.Flags().Int("max-len-window", 2000, "max length search window (aa)")
	generateCmd.Flags().Int("max-kr-window", 2000, "max (K+R) search window (count)")
	generateCmd.Flags().BoolP("verbose", "v", false, "log overall stats to stdout")

	generateCmd.MarkFlagRequired("targets")
	generateCmd.MarkFlagRequired("decoys")

	// bind the matcher settings to viper
	viper.BindPFlag("len-weight", generateCmd.Flags().Lookup("len-weight"))
	viper.BindPFlag("kr-weight", generateCmd.Flags().Lookup("kr-weight"))
	viper.BindPFlag("max-len-window", generateCmd.Flags().Lookup("max-len-window"))
	viper.BindPFlag("max-kr-window", generateCmd.Flags().Lookup("max-kr-window"))
	viper.BindPFlag("verbose", generateCmd.Flags().Lookup("verbose"))

	RootCmd.AddCommand(generateCmd)
}
