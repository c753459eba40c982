package decoy

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotCmd is the cobra handler for "pseq plot".
func PlotCmd(cmd *cobra.Command, args []string) {
	summary, err := cmd.Flags().GetString("summary")
	if summary == "" || err != nil {
		cmd.Help()
		stderr.Fatalln("no summary TSV passed")
	}

	outDir, err := cmd.Flags().GetString("outdir")
	if outDir == "" || err != nil {
		cmd.Help()
		stderr.Fatalln("no output directory passed")
	}

	topN, err := cmd.Flags().GetInt("top-outliers")
	if err != nil {
		topN = 30
	}

	if err := PlotSummary(summary, outDir, topN); err != nil {
		stderr.Fatalln(err)
	}
}

// PlotSummary reads a summary TSV back and renders match-quality figures
// into outDir: length and K+R scatters against the identity line,
// difference histograms and CDFs, overall composition totals, the score
// distribution, and the worst matches.
func PlotSummary(summaryPath, outDir string, topN int) error {
	in := osUtil.Open(summaryPath)
	defer simpleUtil.DeferClose(in)

	stats, rows, err := ReadSummary(in)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("summary %s has no matched targets to plot", summaryPath)
	}

	if err = os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %v", err)
	}

	lenDiffs := make([]float64, len(rows))
	krDiffs := make([]float64, len(rows))
	scores := make([]float64, len(rows))
	lenXYs := make(plotter.XYs, len(rows))
	krXYs := make(plotter.XYs, len(rows))
	for i, r := range rows {
		lenDiffs[i] = float64(r.LenDiff)
		krDiffs[i] = float64(r.KrDiff)
		scores[i] = float64(r.Score)
		lenXYs[i] = plotter.XY{X: float64(r.TargetLen), Y: float64(r.DecoyLen)}
		krXYs[i] = plotter.XY{X: float64(r.TargetKR), Y: float64(r.DecoyKR)}
	}

	savers := []func() error{
		func() error {
			return saveScatter(
				filepath.Join(outDir, "01_scatter_target_vs_decoy_len.png"),
				"Target length vs Decoy length", "target_len", "decoy_len", lenXYs,
			)
		},
		func() error {
			return saveHist(
				filepath.Join(outDir, "02_hist_len_diff.png"),
				"Length difference distribution", "len_diff (aa)", lenDiffs,
			)
		},
		func() error {
			return saveCDF(
				filepath.Join(outDir, "03_cdf_len_diff.png"),
				"CDF of length difference", "len_diff (aa)", lenDiffs,
			)
		},
		func() error {
			return saveScatter(
				filepath.Join(outDir, "04_scatter_target_vs_decoy_KR.png"),
				"Target (K+R) vs Decoy (K+R)", "target_KR", "decoy_KR", krXYs,
			)
		},
		func() error {
			return saveHist(
				filepath.Join(outDir, "05_hist_kr_diff.png"),
				"(K+R) difference distribution", "kr_diff (count)", krDiffs,
			)
		},
		func() error {
			return saveCDF(
				filepath.Join(outDir, "06_cdf_kr_diff.png"),
				"CDF of (K+R) difference", "kr_diff (count)", krDiffs,
			)
		},
		func() error {
			return saveCompositionBars(
				filepath.Join(outDir, "08_bar_overall_K_R_totals.png"), stats,
			)
		},
		func() error {
			return saveHist(
				filepath.Join(outDir, "09_hist_score.png"),
				"Score distribution", "score", scores,
			)
		},
		func() error { return saveOutliers(outDir, rows, topN) },
	}
	for _, save := range savers {
		if err = save(); err != nil {
			return err
		}
	}

	return nil
}

// saveScatter renders points plus the x=y identity line.
func saveScatter(path, title, xLabel, yLabel string, xys plotter.XYs) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)

	max := 0.0
	for _, xy := range xys {
		max = math.Max(max, math.Max(xy.X, xy.Y))
	}
	identity, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: max, Y: max}})
	if err != nil {
		return err
	}
	p.Add(identity)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

func saveHist(path, title, xLabel string, values []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), histBins(len(values)))
	if err != nil {
		return err
	}
	p.Add(h)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// saveCDF renders the empirical CDF of values as a post-step line.
func saveCDF(path, title, xLabel string, values []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "CDF"

	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	xys := make(plotter.XYs, len(sorted))
	for i, v := range sorted {
		xys[i] = plotter.XY{X: v, Y: float64(i+1) / float64(len(sorted))}
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.StepStyle = plotter.PostStep
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// saveCompositionBars renders target vs decoy totals for K and for R.
func saveCompositionBars(path string, stats OverallStats) error {
	p := plot.New()
	p.Title.Text = "Overall composition totals (K and R)"
	p.Y.Label.Text = "total count"

	w := vg.Points(24)

	targets, err := plotter.NewBarChart(plotter.Values{
		float64(stats.TotalTargetK), float64(stats.TotalTargetR),
	}, w)
	if err != nil {
		return err
	}
	targets.Offset = -w / 2
	targets.Color = plotutil.Color(0)

	decoys, err := plotter.NewBarChart(plotter.Values{
		float64(stats.TotalDecoyK), float64(stats.TotalDecoyR),
	}, w)
	if err != nil {
		return err
	}
	decoys.Offset = w / 2
	decoys.Color = plotutil.Color(1)

	p.Add(targets, decoys)
	p.Legend.Add("targets", targets)
	p.Legend.Add("decoys", decoys)
	p.Legend.Top = true
	p.NominalX("K", "R")

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// saveOutliers renders the topN worst matches, ordered by
// (kr_diff, len_diff, score) descending, and writes them to a TSV.
func saveOutliers(outDir string, rows []MatchRow, topN int) error {
	worst := append([]MatchRow{}, rows...)
	sort.SliceStable(worst, func(i, j int) bool {
		if worst[i].KrDiff != worst[j].KrDiff {
			return worst[i].KrDiff > worst[j].KrDiff
		}
		if worst[i].LenDiff != worst[j].LenDiff {
			return worst[i].LenDiff > worst[j].LenDiff
		}
		return worst[i].Score > worst[j].Score
	})
	if topN < len(worst) {
		worst = worst[:topN]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d worst matches by (kr_diff, len_diff, score)", len(worst))
	p.Y.Label.Text = "score"

	scores := make(plotter.Values, len(worst))
	names := make([]string, len(worst))
	for i, r := range worst {
		scores[i] = float64(r.Score)
		names[i] = r.TargetName
	}

	bars, err := plotter.NewBarChart(scores, vg.Points(8))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.4

	if err = p.Save(10*vg.Inch, 6*vg.Inch, filepath.Join(outDir, "10_bar_top_outliers_by_score.png")); err != nil {
		return err
	}

	out := osUtil.Create(filepath.Join(outDir, "top_outliers.tsv"))
	defer simpleUtil.DeferClose(out)
	return WriteSummaryRows(out, worst)
}

// histBins mirrors sqrt binning, clamped to [10, 200].
func histBins(n int) int {
	bins := int(math.Sqrt(float64(n)))
	if bins < 10 {
		bins = 10
	}
	if bins > 200 {
		bins = 200
	}
	return bins
}
