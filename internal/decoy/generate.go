package decoy

import (
	"bufio"
	"fmt"
	"time"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/lutfia95/pseq/config"
	"github.com/spf13/cobra"
)

// GenerateCmd takes a cobra command (with its flags) and runs Generate.
func GenerateCmd(cmd *cobra.Command, args []string) {
	Generate(parseGenerateFlags(cmd), config.New())
}

// Generate is the end to end pipeline: read the target and decoy FASTAs,
// match every target against the pool, and write the interleaved pair FASTA
// plus the TSV summary.
func Generate(fs *Flags, conf *config.Config) (pairs []Pair, rows []MatchRow, unmatched []SeqRecord) {
	start := time.Now()

	stderr.Printf("reading targets: %s\n", fs.targets)
	targets, err := ReadFasta(fs.targets)
	if err != nil {
		stderr.Fatalln(err)
	}

	stderr.Printf("reading decoys: %s\n", fs.decoys)
	decoys, err := ReadFasta(fs.decoys)
	if err != nil {
		stderr.Fatalln(err)
	}

	matcher, err := NewMatcher(decoys, conf)
	if err != nil {
		stderr.Fatalln(err)
	}

	stderr.Printf("matching %d targets against %d decoys\n", len(targets), len(decoys))
	pairs, rows, unmatched = matcher.MatchAll(targets)

	outFasta := osUtil.Create(fs.outFasta)
	defer simpleUtil.DeferClose(outFasta)
	w := bufio.NewWriter(outFasta)
	simpleUtil.CheckErr(WritePairs(w, pairs))
	simpleUtil.CheckErr(w.Flush())

	outSummary := osUtil.Create(fs.outSummary)
	defer simpleUtil.DeferClose(outSummary)
	simpleUtil.CheckErr(WriteSummary(outSummary, rows, unmatched))

	elapsed := time.Since(start)
	stderr.Printf(
		"matched %d of %d targets, wrote %s and %s\n",
		len(pairs), len(targets), fs.outFasta, fs.outSummary,
	)

	if conf.Verbose {
		PrintStats(rows, unmatched)
		fmt.Printf("%s\n\n", elapsed)
	}

	return pairs, rows, unmatched
}
