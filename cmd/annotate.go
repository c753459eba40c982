package cmd

import (
	"github.com/lutfia95/pseq/internal/decoy"
	"github.com/spf13/cobra"
)

// annotateCmd joins FASTA header metadata into a CSV of protein groups.
var annotateCmd = &cobra.Command{
	Use:                        "annotate",
	Run:                        decoy.AnnotateCmd,
	Short:                      "Annotate a CSV of protein groups with FASTA header metadata (OS, OX, GN, ...)",
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	annotateCmd.Flags().StringP("csv", "c", "", "input CSV with a Protein.Group column")
	annotateCmd.Flags().StringP("fasta", "f", "", "FASTA whose headers carry the metadata")
	annotateCmd.Flags().StringP("out", "o", "", "output CSV file name")

	annotateCmd.MarkFlagRequired("csv")
	annotateCmd.MarkFlagRequired("fasta")

	RootCmd.AddCommand(annotateCmd)
}
