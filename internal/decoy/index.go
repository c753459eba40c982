package decoy

// bucketKey identifies decoys sharing an exact sequence length and an exact
// K+R count.
type bucketKey struct {
	length int
	kr     int
}

// bucketIndex groups decoy pool positions by their exact (length, K+R) key.
// It is built in one pass over the pool and never mutated afterwards: used
// positions stay in their candidate lists and are skipped at query time.
type bucketIndex map[bucketKey][]int

// newBucketIndex indexes every decoy in the pool. Zero-length sequences are
// valid and land in the (0, 0) bucket.
func newBucketIndex(decoys []SeqRecord) bucketIndex {
	index := make(bucketIndex, len(decoys))
	for i, d := range decoys {
		key := bucketKey{length: d.Len(), kr: d.KR()}
		index[key] = append(index[key], i)
	}
	return index
}

// availability tracks which decoy positions have been committed to a
// pairing. A position flips available->used at most once and never reverses.
type availability []bool

func (a availability) used(pos int) bool {
	return a[pos]
}

func (a availability) markUsed(pos int) {
	a[pos] = true
}
