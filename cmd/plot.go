package cmd

import (
	"github.com/lutfia95/pseq/internal/decoy"
	"github.com/spf13/cobra"
)

// plotCmd renders match-quality figures from a generate summary.
var plotCmd = &cobra.Command{
	Use:                        "plot",
	Run:                        decoy.PlotCmd,
	Short:                      "Render match-quality figures from a generate summary TSV",
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	plotCmd.Flags().StringP("summary", "s", "", "summary TSV written by 'pseq generate'")
	plotCmd.Flags().StringP("outdir", "o", "", "output directory for the figures")
	plotCmd.Flags().IntP("top-outliers", "n", 30, "how many worst matches to export and plot")

	plotCmd.MarkFlagRequired("summary")
	plotCmd.MarkFlagRequired("outdir")

	RootCmd.AddCommand(plotCmd)
}
