package decoy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PlotSummary(t *testing.T) {
	dir := t.TempDir()

	// build a small real summary to plot from
	decoys := []SeqRecord{
		mkRec("d1", 10, 1, 1), mkRec("d2", 12, 2, 1),
		mkRec("d3", 20, 3, 0), mkRec("d4", 8, 0, 2),
	}
	targets := []SeqRecord{
		mkRec("t1", 10, 1, 1), mkRec("t2", 13, 2, 1), mkRec("t3", 21, 2, 1),
	}

	m, err := NewMatcher(decoys, conf(1, 10, 2000, 2000))
	require.NoError(t, err)
	_, rows, unmatched := m.MatchAll(targets)
	require.NotEmpty(t, rows)

	summary := filepath.Join(dir, "summary.tsv")
	f, err := os.Create(summary)
	require.NoError(t, err)
	require.NoError(t, WriteSummary(f, rows, unmatched))
	require.NoError(t, f.Close())

	outDir := filepath.Join(dir, "plots")
	require.NoError(t, PlotSummary(summary, outDir, 2))

	for _, name := range []string{
		"01_scatter_target_vs_decoy_len.png",
		"02_hist_len_diff.png",
		"03_cdf_len_diff.png",
		"04_scatter_target_vs_decoy_KR.png",
		"05_hist_kr_diff.png",
		"06_cdf_kr_diff.png",
		"08_bar_overall_K_R_totals.png",
		"09_hist_score.png",
		"10_bar_top_outliers_by_score.png",
		"top_outliers.tsv",
	} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}

	// the outlier export is capped at the requested count plus its header
	dat, err := os.ReadFile(filepath.Join(outDir, "top_outliers.tsv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(dat)), "\n"), 3)
}
