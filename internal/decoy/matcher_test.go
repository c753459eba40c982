package decoy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lutfia95/pseq/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkRec builds a record with the wanted length, K count, and R count.
func mkRec(name string, length, k, r int) SeqRecord {
	if k+r > length {
		panic("k+r exceeds length")
	}
	return SeqRecord{
		Header: name,
		Seq:    strings.Repeat("A", length-k-r) + strings.Repeat("K", k) + strings.Repeat("R", r),
	}
}

func conf(lenWeight, krWeight, maxLenWindow, maxKrWindow int) *config.Config {
	return &config.Config{
		LenWeight:    lenWeight,
		KrWeight:     krWeight,
		MaxLenWindow: maxLenWindow,
		MaxKrWindow:  maxKrWindow,
	}
}

func Test_NewMatcher_config(t *testing.T) {
	decoys := []SeqRecord{mkRec("d1", 10, 1, 1)}

	tests := []struct {
		name    string
		conf    *config.Config
		wantErr bool
	}{
		{"defaults are valid", conf(1, 10, 2000, 2000), false},
		{"zero len weight", conf(0, 10, 2000, 2000), true},
		{"zero kr weight", conf(1, 0, 2000, 2000), true},
		{"negative weight", conf(-1, 10, 2000, 2000), true},
		{"negative len window", conf(1, 10, -1, 2000), true},
		{"negative kr window", conf(1, 10, 2000, -1), true},
		{"zero windows are valid", conf(1, 10, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatcher(decoys, tt.conf)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_NewMatcher_emptyPool(t *testing.T) {
	m, err := NewMatcher(nil, conf(1, 10, 2000, 2000))
	require.NoError(t, err)

	_, _, unmatched := m.MatchAll([]SeqRecord{mkRec("t1", 10, 1, 1)})
	assert.Len(t, unmatched, 1)
}

func Test_FindBestMatch(t *testing.T) {
	tests := []struct {
		name   string
		decoys []SeqRecord
		conf   *config.Config
		target SeqRecord

		wantOK    bool
		wantDecoy int
		wantScore int
	}{
		{
			// an exact-key decoy must win with score 0 no matter the weights
			"exact key match",
			[]SeqRecord{mkRec("d1", 10, 1, 1), mkRec("d2", 12, 2, 1)},
			conf(1, 10, 2000, 2000),
			mkRec("t1", 10, 1, 1),
			true, 0, 0,
		},
		{
			// 1*5 beats 10*5: the pure length miss wins over the KR miss
			"kr misses cost more than length misses",
			[]SeqRecord{mkRec("d1", 105, 3, 2), mkRec("d2", 95, 5, 5)},
			conf(1, 10, 2000, 2000),
			mkRec("t1", 100, 2, 3),
			true, 0, 5,
		},
		{
			"zero windows allow only exact keys",
			[]SeqRecord{mkRec("d1", 11, 1, 1)},
			conf(1, 10, 0, 0),
			mkRec("t1", 10, 1, 1),
			false, 0, 0,
		},
		{
			"candidate outside both windows",
			[]SeqRecord{mkRec("d1", 20, 4, 4)},
			conf(1, 10, 2, 2),
			mkRec("t1", 10, 1, 1),
			false, 0, 0,
		},
		{
			"zero-length target matches zero-length decoy",
			[]SeqRecord{SeqRecord{Header: "empty", Seq: ""}},
			conf(1, 10, 2000, 2000),
			SeqRecord{Header: "t1", Seq: ""},
			true, 0, 0,
		},
		{
			// both decoys share the key (10, 2): the later insertion wins
			"last inserted wins within a bucket",
			[]SeqRecord{mkRec("d1", 10, 1, 1), mkRec("d2", 10, 2, 0)},
			conf(1, 10, 2000, 2000),
			mkRec("t1", 10, 0, 2),
			true, 1, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.decoys, tt.conf)
			require.NoError(t, err)

			res, ok := m.FindBestMatch(tt.target)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}

			assert.Equal(t, tt.wantDecoy, res.Decoy)
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

// the search alone must not consume the decoy; only Commit does
func Test_FindBestMatch_doesNotCommit(t *testing.T) {
	m, err := NewMatcher([]SeqRecord{mkRec("d1", 10, 1, 1)}, conf(1, 10, 2000, 2000))
	require.NoError(t, err)

	target := mkRec("t1", 10, 1, 1)

	first, ok := m.FindBestMatch(target)
	require.True(t, ok)
	second, ok := m.FindBestMatch(target)
	require.True(t, ok)
	assert.Equal(t, first.Decoy, second.Decoy)

	m.Commit(first)
	_, ok = m.FindBestMatch(target)
	assert.False(t, ok)
}

func Test_MatchAll_uniqueDecoys(t *testing.T) {
	// two identical targets but a single suitable decoy
	m, err := NewMatcher([]SeqRecord{mkRec("d1", 10, 1, 1)}, conf(1, 10, 1, 1))
	require.NoError(t, err)

	targets := []SeqRecord{mkRec("t1", 10, 1, 1), mkRec("t2", 10, 1, 1)}
	pairs, rows, unmatched := m.MatchAll(targets)

	require.Len(t, pairs, 1)
	require.Len(t, unmatched, 1)
	assert.Equal(t, "t1", pairs[0].Target.Name())
	assert.Equal(t, 0, rows[0].Score)
	assert.Equal(t, "t2", unmatched[0].Name())
}

func Test_MatchAll_properties(t *testing.T) {
	var decoys []SeqRecord
	for length := 5; lengthOK(length); length += 3 {
		decoys = append(decoys,
			mkRec(fmt.Sprintf("d%d", len(decoys)), length, length/10, length/20),
			mkRec(fmt.Sprintf("d%d", len(decoys)+1), length, length/15, length/10),
		)
	}
	var targets []SeqRecord
	for length := 4; lengthOK(length); length += 7 {
		targets = append(targets, mkRec(fmt.Sprintf("t%d", len(targets)), length, length/12, length/9))
	}

	c := conf(1, 10, 50, 20)
	m, err := NewMatcher(decoys, c)
	require.NoError(t, err)

	pairs, rows, unmatched := m.MatchAll(targets)

	// conservation: matched and unmatched partition the targets in order
	require.Equal(t, len(targets), len(pairs)+len(unmatched))
	require.Equal(t, len(pairs), len(rows))

	// uniqueness: no decoy appears in two pairings
	seen := map[string]bool{}
	for _, p := range pairs {
		name := p.Decoy.Name()
		assert.False(t, seen[name], "decoy committed twice")
		seen[name] = true
	}

	for i, r := range rows {
		// score correctness
		assert.Equal(t, c.LenWeight*r.LenDiff+c.KrWeight*r.KrDiff, r.Score)
		assert.Equal(t, abs(r.TargetLen-r.DecoyLen), r.LenDiff)
		assert.Equal(t, abs(r.TargetKR-r.DecoyKR), r.KrDiff)

		// window respect
		assert.LessOrEqual(t, r.LenDiff, c.MaxLenWindow)
		assert.LessOrEqual(t, r.KrDiff, c.MaxKrWindow)

		// rows parallel the pairings
		assert.Equal(t, pairs[i].Target.Name(), r.TargetName)
		assert.Equal(t, pairs[i].Decoy.Name(), r.DecoyName)
	}

	// determinism: an identical second run produces identical output
	m2, err := NewMatcher(decoys, c)
	require.NoError(t, err)
	pairs2, rows2, unmatched2 := m2.MatchAll(targets)
	assert.Equal(t, pairs, pairs2)
	assert.Equal(t, rows, rows2)
	assert.Equal(t, unmatched, unmatched2)
}

func lengthOK(length int) bool {
	return length < 200
}

func Test_shellKeys(t *testing.T) {
	tests := []struct {
		name     string
		dL, dKR  int
		wantKeys []bucketKey
	}{
		{
			"origin",
			0, 0,
			[]bucketKey{{10, 2}},
		},
		{
			"length axis only",
			3, 0,
			[]bucketKey{{7, 2}, {13, 2}},
		},
		{
			"kr axis only",
			0, 1,
			[]bucketKey{{10, 1}, {10, 3}},
		},
		{
			// four corners plus the four axis points
			"both deltas",
			2, 1,
			[]bucketKey{
				{8, 1}, {8, 3}, {12, 1}, {12, 3},
				{8, 2}, {12, 2}, {10, 1}, {10, 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := shellKeys(nil, 10, 2, tt.dL, tt.dKR)
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}
