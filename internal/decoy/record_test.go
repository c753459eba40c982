package decoy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SeqRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  SeqRecord

		wantName string
		wantLen  int
		wantK    int
		wantR    int
	}{
		{
			"uniprot style header",
			SeqRecord{Header: "sp|P0A6F5|CH60_ECOLI 60 kDa chaperonin OS=Escherichia coli", Seq: "MAAKDVKFGR"},
			"sp|P0A6F5|CH60_ECOLI", 10, 2, 1,
		},
		{
			"bare header",
			SeqRecord{Header: "decoy_1", Seq: "KKRR"},
			"decoy_1", 4, 2, 2,
		},
		{
			"empty sequence",
			SeqRecord{Header: "empty one", Seq: ""},
			"empty", 0, 0, 0,
		},
		{
			"no tracked residues",
			SeqRecord{Header: "plain", Seq: "GGGAVL"},
			"plain", 6, 0, 0,
		},
		{
			"empty header",
			SeqRecord{Header: "", Seq: "K"},
			"", 1, 1, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.rec.Name())
			assert.Equal(t, tt.wantLen, tt.rec.Len())
			assert.Equal(t, tt.wantK, tt.rec.Count('K'))
			assert.Equal(t, tt.wantR, tt.rec.Count('R'))
			assert.Equal(t, tt.wantK+tt.wantR, tt.rec.KR())
		})
	}
}
