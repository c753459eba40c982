// Package decoy matches target protein sequences against a pool of decoy
// sequences so each target gets a unique decoy with a similar length and a
// similar lysine+arginine (K+R) count.
package decoy

import "strings"

// SeqRecord is a single FASTA record: the header line (without the leading
// ">") and the residue sequence.
type SeqRecord struct {
	Header string
	Seq    string
}

// Name is the first whitespace-delimited token of the header. For UniProt
// style headers this is the accession, ex "sp|P69905|HBA_HUMAN".
func (r SeqRecord) Name() string {
	if fields := strings.Fields(r.Header); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Len is the number of residues in the sequence.
func (r SeqRecord) Len() int {
	return len(r.Seq)
}

// Count returns the number of occurrences of the residue aa in the sequence.
func (r SeqRecord) Count(aa byte) (count int) {
	for i := 0; i < len(r.Seq); i++ {
		if r.Seq[i] == aa {
			count++
		}
	}
	return
}

// KR is the summed lysine and arginine count of the sequence.
func (r SeqRecord) KR() int {
	return r.Count('K') + r.Count('R')
}
