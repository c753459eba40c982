package decoy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// OverallStats are the run-level totals written to (and read back from) the
// "# overall" section of the summary.
type OverallStats struct {
	TotalTargets int
	Matched      int
	Unmatched    int

	TotalTargetLen int
	TotalDecoyLen  int

	TotalTargetK int
	TotalTargetR int
	TotalDecoyK  int
	TotalDecoyR  int
}

// newOverallStats accumulates totals over the committed rows.
func newOverallStats(rows []MatchRow, unmatched []SeqRecord) (stats OverallStats) {
	stats.TotalTargets = len(rows) + len(unmatched)
	stats.Matched = len(rows)
	stats.Unmatched = len(unmatched)

	for _, r := range rows {
		stats.TotalTargetLen += r.TargetLen
		stats.TotalDecoyLen += r.DecoyLen
		stats.TotalTargetK += r.TargetK
		stats.TotalTargetR += r.TargetR
		stats.TotalDecoyK += r.DecoyK
		stats.TotalDecoyR += r.DecoyR
	}

	return
}

// WritePairs writes each pairing as two interleaved FASTA records, the
// target first and its decoy right after it.
func WritePairs(w io.Writer, pairs []Pair) error {
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, ">%s\n%s\n>%s\n%s\n",
			p.Target.Header, p.Target.Seq,
			p.Decoy.Header, p.Decoy.Seq,
		); err != nil {
			return fmt.Errorf("failed to write pair FASTA: %v", err)
		}
	}

	return nil
}

// WriteSummary writes the three-section TSV summary: run totals, one stat
// line per matched target, and the targets left unmatched.
func WriteSummary(w io.Writer, rows []MatchRow, unmatched []SeqRecord) error {
	bw := bufio.NewWriter(w)
	stats := newOverallStats(rows, unmatched)

	fmt.Fprint(bw, "# overall\n")
	fmt.Fprint(bw, "total_targets\tmatched\tunmatched\t")
	fmt.Fprint(bw, "total_target_len\ttotal_decoy_len\t")
	fmt.Fprint(bw, "total_target_K\ttotal_target_R\t")
	fmt.Fprint(bw, "total_decoy_K\ttotal_decoy_R\n")
	fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		stats.TotalTargets, stats.Matched, stats.Unmatched,
		stats.TotalTargetLen, stats.TotalDecoyLen,
		stats.TotalTargetK, stats.TotalTargetR,
		stats.TotalDecoyK, stats.TotalDecoyR,
	)

	fmt.Fprint(bw, "\n# per_target\n")
	fmt.Fprint(bw, "target_name\tdecoy_name\t")
	fmt.Fprint(bw, "target_len\tdecoy_len\tlen_diff\t")
	fmt.Fprint(bw, "target_K\ttarget_R\ttarget_KR\t")
	fmt.Fprint(bw, "decoy_K\tdecoy_R\tdecoy_KR\tkr_diff\t")
	fmt.Fprint(bw, "score\n")
	for _, r := range rows {
		fmt.Fprintf(bw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.TargetName, r.DecoyName,
			r.TargetLen, r.DecoyLen, r.LenDiff,
			r.TargetK, r.TargetR, r.TargetKR,
			r.DecoyK, r.DecoyR, r.DecoyKR, r.KrDiff,
			r.Score,
		)
	}

	if len(unmatched) > 0 {
		fmt.Fprint(bw, "\n# unmatched_targets\n")
		fmt.Fprint(bw, "target_name\ttarget_len\ttarget_K\ttarget_R\ttarget_KR\n")
		for _, t := range unmatched {
			k := t.Count('K')
			r := t.Count('R')
			fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\n", t.Name(), t.Len(), k, r, k+r)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write the summary: %v", err)
	}

	return nil
}

// WriteSummaryRows writes just the per-target header and rows as TSV, with
// no section markers. Used for the outlier export.
func WriteSummaryRows(w io.Writer, rows []MatchRow) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "target_name\tdecoy_name\t")
	fmt.Fprint(bw, "target_len\tdecoy_len\tlen_diff\t")
	fmt.Fprint(bw, "target_K\ttarget_R\ttarget_KR\t")
	fmt.Fprint(bw, "decoy_K\tdecoy_R\tdecoy_KR\tkr_diff\t")
	fmt.Fprint(bw, "score\n")
	for _, r := range rows {
		fmt.Fprintf(bw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.TargetName, r.DecoyName,
			r.TargetLen, r.DecoyLen, r.LenDiff,
			r.TargetK, r.TargetR, r.TargetKR,
			r.DecoyK, r.DecoyR, r.DecoyKR, r.KrDiff,
			r.Score,
		)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write rows: %v", err)
	}

	return nil
}

// PrintStats logs the run totals to stdout as an aligned table.
func PrintStats(rows []MatchRow, unmatched []SeqRecord) {
	stats := newOverallStats(rows, unmatched)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(writer, "targets\tmatched\tunmatched\ttarget_len\tdecoy_len\ttarget_K+R\tdecoy_K+R\t\n")
	fmt.Fprintf(writer, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		stats.TotalTargets, stats.Matched, stats.Unmatched,
		stats.TotalTargetLen, stats.TotalDecoyLen,
		stats.TotalTargetK+stats.TotalTargetR,
		stats.TotalDecoyK+stats.TotalDecoyR,
	)
	writer.Flush()
}

// ReadSummary parses a summary TSV back into its run totals and per-target
// rows, for plotting.
func ReadSummary(r io.Reader) (stats OverallStats, rows []MatchRow, err error) {
	dat, err := io.ReadAll(r)
	if err != nil {
		return stats, nil, err
	}
	lines := strings.Split(string(dat), "\n")

	overallAt := -1
	perTargetAt := -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case "# overall":
			overallAt = i
		case "# per_target":
			perTargetAt = i
		}
	}

	if overallAt < 0 || overallAt+2 >= len(lines) {
		return stats, nil, fmt.Errorf("summary has no '# overall' section")
	}
	if perTargetAt < 0 || perTargetAt+1 >= len(lines) {
		return stats, nil, fmt.Errorf("summary has no '# per_target' section")
	}

	overall, err := splitInts(lines[overallAt+2], 9)
	if err != nil {
		return stats, nil, fmt.Errorf("failed to parse overall totals: %v", err)
	}
	stats = OverallStats{
		TotalTargets:   overall[0],
		Matched:        overall[1],
		Unmatched:      overall[2],
		TotalTargetLen: overall[3],
		TotalDecoyLen:  overall[4],
		TotalTargetK:   overall[5],
		TotalTargetR:   overall[6],
		TotalDecoyK:    overall[7],
		TotalDecoyR:    overall[8],
	}

	for _, line := range lines[perTargetAt+2:] {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			break
		}

		cols := strings.Split(line, "\t")
		if len(cols) != 13 {
			return stats, nil, fmt.Errorf("malformed per_target line: %q", line)
		}

		nums, err := splitInts(strings.Join(cols[2:], "\t"), 11)
		if err != nil {
			return stats, nil, fmt.Errorf("failed to parse per_target line: %v", err)
		}

		rows = append(rows, MatchRow{
			TargetName: cols[0],
			DecoyName:  cols[1],
			TargetLen:  nums[0],
			DecoyLen:   nums[1],
			LenDiff:    nums[2],
			TargetK:    nums[3],
			TargetR:    nums[4],
			TargetKR:   nums[5],
			DecoyK:     nums[6],
			DecoyR:     nums[7],
			DecoyKR:    nums[8],
			KrDiff:     nums[9],
			Score:      nums[10],
		})
	}

	return stats, rows, nil
}

// splitInts parses a tab-separated line of exactly want integers.
func splitInts(line string, want int) ([]int, error) {
	cols := strings.Split(strings.TrimSpace(line), "\t")
	if len(cols) != want {
		return nil, fmt.Errorf("expected %d columns, got %d", want, len(cols))
	}

	nums := make([]int, len(cols))
	for i, c := range cols {
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}

	return nums, nil
}
