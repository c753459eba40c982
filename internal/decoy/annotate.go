package decoy

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/spf13/cobra"
)

// headerKeyRegex finds UniProt style metadata keys in a FASTA header,
// ex "OS=Escherichia coli OX=83333 GN=thrA".
var headerKeyRegex = regexp.MustCompile(`\b([A-Z]{2})=`)

// metaColumns are appended to the annotated CSV, in this order.
var metaColumns = []string{"OS", "OX", "GN", "AC", "SS", "PC", "protein_name", "seq", "matched_id"}

// headerMeta is the metadata parsed out of one FASTA header.
type headerMeta struct {
	// the record's sequence
	seq string

	// the free-text description before the first KEY= field
	proteinName string

	// KEY= fields, ex meta["OS"] = "Escherichia coli"
	meta map[string]string
}

// parseHeaderMeta splits a header into its free-text protein name and its
// KEY=value fields. The name token itself (first field) is skipped.
func parseHeaderMeta(header string) (proteinName string, meta map[string]string) {
	meta = map[string]string{}
	if header == "" {
		return "", meta
	}

	rest := ""
	if parts := strings.SplitN(header, " ", 2); len(parts) > 1 {
		rest = parts[1]
	}

	keys := headerKeyRegex.FindAllStringSubmatchIndex(rest, -1)
	if len(keys) == 0 {
		return strings.TrimSpace(rest), meta
	}

	proteinName = strings.TrimSpace(rest[:keys[0][0]])
	for i, k := range keys {
		name := rest[k[2]:k[3]]
		valueEnd := len(rest)
		if i+1 < len(keys) {
			valueEnd = keys[i+1][0]
		}
		meta[name] = strings.TrimSpace(rest[k[1]:valueEnd])
	}

	return proteinName, meta
}

// readFastaMeta indexes a FASTA file's header metadata by record name.
func readFastaMeta(path string) (map[string]headerMeta, error) {
	records, err := ReadFasta(path)
	if err != nil {
		return nil, err
	}

	db := make(map[string]headerMeta, len(records))
	for _, rec := range records {
		name, meta := parseHeaderMeta(rec.Header)
		db[rec.Name()] = headerMeta{
			seq:         rec.Seq,
			proteinName: name,
			meta:        meta,
		}
	}

	return db, nil
}

// Annotate joins FASTA header metadata into a CSV. Each CSV row's
// "Protein.Group" column holds semicolon separated IDs; the first ID found
// in the FASTA wins and its metadata columns are appended to the row.
// Returns the Protein.Group values with no FASTA hit.
func Annotate(csvIn io.Reader, fastaPath string, csvOut io.Writer) (notFound []string, err error) {
	db, err := readFastaMeta(fastaPath)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(csvIn)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %v", err)
	}

	groupCol := -1
	existing := map[string]int{}
	for i, name := range header {
		existing[name] = i
		if name == "Protein.Group" {
			groupCol = i
		}
	}
	if groupCol < 0 {
		return nil, fmt.Errorf("CSV has no Protein.Group column")
	}

	// append only the metadata columns the CSV doesn't already have
	outHeader := append([]string{}, header...)
	colAt := map[string]int{}
	for _, c := range metaColumns {
		if i, ok := existing[c]; ok {
			colAt[c] = i
			continue
		}
		colAt[c] = len(outHeader)
		outHeader = append(outHeader, c)
	}

	writer := csv.NewWriter(csvOut)
	if err = writer.Write(outHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %v", err)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %v", err)
		}

		out := make([]string, len(outHeader))
		copy(out, row)

		group := strings.TrimSpace(row[groupCol])
		hitID := firstHitID(group, db)
		if hitID == "" {
			notFound = append(notFound, group)
			for _, c := range metaColumns {
				out[colAt[c]] = ""
			}
		} else {
			hit := db[hitID]
			out[colAt["OS"]] = hit.meta["OS"]
			out[colAt["OX"]] = hit.meta["OX"]
			out[colAt["GN"]] = hit.meta["GN"]
			out[colAt["AC"]] = hit.meta["AC"]
			out[colAt["SS"]] = hit.meta["SS"]
			out[colAt["PC"]] = hit.meta["PC"]
			out[colAt["protein_name"]] = hit.proteinName
			out[colAt["seq"]] = hit.seq
			out[colAt["matched_id"]] = hitID
		}

		if err = writer.Write(out); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %v", err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %v", err)
	}

	return notFound, nil
}

// firstHitID returns the first semicolon separated ID present in the FASTA.
func firstHitID(group string, db map[string]headerMeta) string {
	for _, id := range strings.Split(group, ";") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := db[id]; ok {
			return id
		}
	}

	return ""
}

// AnnotateCmd is the cobra handler for "pseq annotate".
func AnnotateCmd(cmd *cobra.Command, args []string) {
	csvIn, err := cmd.Flags().GetString("csv")
	if csvIn == "" || err != nil {
		cmd.Help()
		stderr.Fatalln("no input CSV passed")
	}

	fasta, err := cmd.Flags().GetString("fasta")
	if fasta == "" || err != nil {
		cmd.Help()
		stderr.Fatalln("no FASTA passed")
	}

	out, err := cmd.Flags().GetString("out")
	if out == "" || err != nil {
		out = guessOutput(csvIn, ".annotated.csv")
	}

	inF := osUtil.Open(csvIn)
	defer simpleUtil.DeferClose(inF)
	outF := osUtil.Create(out)
	defer simpleUtil.DeferClose(outF)

	notFound, err := Annotate(inF, fasta, outF)
	if err != nil {
		stderr.Fatalln(err)
	}

	missing := 0
	for _, group := range notFound {
		if group != "" {
			stderr.Printf("not found: %s\n", group)
			missing++
		}
	}
	stderr.Printf("%d protein groups without a FASTA hit\n", missing)
}
