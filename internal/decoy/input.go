package decoy

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Flags contains parsed cobra flags, like "targets" and "out-fasta", that
// are used by the generate command.
type Flags struct {
	// path to the target FASTA file
	targets string

	// path to the decoy FASTA file (real decoys)
	decoys string

	// path to write the interleaved target/decoy FASTA to
	outFasta string

	// path to write the TSV summary to
	outSummary string
}

// NewFlags makes a new flags object manually. for testing.
func NewFlags(targets, decoys, outFasta, outSummary string) *Flags {
	return &Flags{
		targets:    targets,
		decoys:     decoys,
		outFasta:   outFasta,
		outSummary: outSummary,
	}
}

// parseGenerateFlags gathers the file paths from the generate cobra command.
func parseGenerateFlags(cmd *cobra.Command) *Flags {
	fs := &Flags{}
	var err error

	if fs.targets, err = cmd.Flags().GetString("targets"); fs.targets == "" || err != nil {
		cmd.Help()
		stderr.Fatalln("no target FASTA passed")
	}

	if fs.decoys, err = cmd.Flags().GetString("decoys"); fs.decoys == "" || err != nil {
		cmd.Help()
		stderr.Fatalln("no decoy FASTA passed")
	}

	if fs.outFasta, err = cmd.Flags().GetString("out-fasta"); fs.outFasta == "" || err != nil {
		fs.outFasta = guessOutput(fs.targets, ".mixed.fasta")
	}

	if fs.outSummary, err = cmd.Flags().GetString("out-summary"); fs.outSummary == "" || err != nil {
		fs.outSummary = guessOutput(fs.targets, ".summary.tsv")
	}

	return fs
}

// guessOutput gets an output path from an input path (if no output path is
// specified). It uses the same base name as the input path.
func guessOutput(in, suffix string) (out string) {
	ext := filepath.Ext(in)
	noExt := in[0 : len(in)-len(ext)]
	return noExt + suffix
}

// ReadFasta reads a (multi-)FASTA file, by its path on the local FS, to a
// slice of SeqRecords. Headers are kept verbatim after the ">", sequence
// lines are stripped of whitespace, joined, and uppercased.
func ReadFasta(path string) (records []SeqRecord, err error) {
	if !filepath.IsAbs(path) {
		if path, err = filepath.Abs(path); err != nil {
			return nil, fmt.Errorf("failed to create path to input file: %v", err)
		}
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records = parseFasta(string(dat))

	// opened and parsed the file but found nothing
	if len(records) < 1 {
		return nil, fmt.Errorf("failed to parse any sequences from %s", path)
	}

	return records, nil
}

// parseFasta splits multifasta contents into records. Records with an
// empty sequence are kept: a zero-length sequence is a valid, matchable
// record with key (0, 0).
func parseFasta(contents string) (records []SeqRecord) {
	lines := strings.Split(contents, "\n")

	header := ""
	sawHeader := false
	var seqLines []string

	flush := func() {
		if !sawHeader {
			return
		}
		seq := strings.Join(seqLines, "")
		seq = strings.ReplaceAll(seq, " ", "")
		seq = strings.ReplaceAll(seq, "\t", "")
		records = append(records, SeqRecord{
			Header: header,
			Seq:    strings.ToUpper(seq),
		})
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			flush()
			header = strings.TrimSpace(line[1:])
			sawHeader = true
			seqLines = seqLines[:0]
			continue
		}

		seqLines = append(seqLines, line)
	}
	flush()

	return records
}
