package decoy

import (
	"fmt"

	"github.com/lutfia95/pseq/config"
)

// Matcher assigns each target a distinct decoy from a fixed pool. Matching
// is greedy and order dependent: each target takes the best still-available
// decoy at the moment it is processed, so the pool state left behind by
// earlier targets decides what later targets can see.
type Matcher struct {
	// the decoy pool. positions in this slice are decoy identity
	decoys []SeqRecord

	// scoring weights for the length and K+R deltas
	lenWeight int
	krWeight  int

	// independent search windows around a target's (length, K+R) key
	maxLenWindow int
	maxKrWindow  int

	// positions grouped by exact (length, K+R), built once
	buckets bucketIndex

	// per-position used flags, flipped only by Commit
	used availability
}

// MatchResult is the outcome of one search: the winning pool position, its
// score, and the absolute deltas the score was computed from.
type MatchResult struct {
	Decoy    int
	Score    int
	LenDelta int
	KrDelta  int
}

// Pair couples a target with its committed decoy.
type Pair struct {
	Target SeqRecord
	Decoy  SeqRecord
}

// MatchRow is the finalized per-target stat line written to the summary.
type MatchRow struct {
	TargetName string
	DecoyName  string

	TargetLen int
	DecoyLen  int

	TargetK  int
	TargetR  int
	TargetKR int

	DecoyK  int
	DecoyR  int
	DecoyKR int

	LenDiff int
	KrDiff  int
	Score   int
}

// NewMatcher builds a Matcher over the decoy pool. Both weights must be
// positive: they divide the early-termination bound, so a zero weight would
// silently break pruning rather than disable it. The windows must be
// non-negative. An empty pool is valid (every target comes back unmatched).
func NewMatcher(decoys []SeqRecord, conf *config.Config) (*Matcher, error) {
	if conf.LenWeight < 1 || conf.KrWeight < 1 {
		return nil, fmt.Errorf(
			"weights must be positive integers: len-weight=%d kr-weight=%d",
			conf.LenWeight, conf.KrWeight,
		)
	}

	if conf.MaxLenWindow < 0 || conf.MaxKrWindow < 0 {
		return nil, fmt.Errorf(
			"search windows must be non-negative: max-len-window=%d max-kr-window=%d",
			conf.MaxLenWindow, conf.MaxKrWindow,
		)
	}

	return &Matcher{
		decoys:       decoys,
		lenWeight:    conf.LenWeight,
		krWeight:     conf.KrWeight,
		maxLenWindow: conf.MaxLenWindow,
		maxKrWindow:  conf.MaxKrWindow,
		buckets:      newBucketIndex(decoys),
		used:         make(availability, len(decoys)),
	}, nil
}

// Decoy returns the pool record at position pos.
func (m *Matcher) Decoy(pos int) SeqRecord {
	return m.decoys[pos]
}

// shellKeys appends the candidate keys at exactly (dL, dKR) away from
// (length, kr). Only the corners and axis midpoints of the (dL, dKR)
// rectangle are sampled, up to 8 keys, not every integer point on its
// boundary. Exact bucket keys lying between the sampled points can be
// missed; that incompleteness is intentional and keeps every split O(1).
func shellKeys(keys []bucketKey, length, kr, dL, dKR int) []bucketKey {
	if dL == 0 && dKR == 0 {
		return append(keys, bucketKey{length, kr})
	}

	lens := []int{length}
	if dL > 0 {
		lens = []int{length - dL, length + dL}
	}
	krs := []int{kr}
	if dKR > 0 {
		krs = []int{kr - dKR, kr + dKR}
	}

	for _, l := range lens {
		for _, k := range krs {
			keys = append(keys, bucketKey{l, k})
		}
	}

	if dL > 0 && dKR > 0 {
		keys = append(keys,
			bucketKey{length - dL, kr},
			bucketKey{length + dL, kr},
			bucketKey{length, kr - dKR},
			bucketKey{length, kr + dKR},
		)
	}

	return keys
}

// FindBestMatch searches the pool for the best still-available decoy within
// the configured windows of the target's (length, K+R) key. The search
// expands a combined radius r = dL+dKR outward from the exact key and stops
// early once no larger radius can beat the best score seen. It never flips
// a used flag; the caller commits the winner with Commit.
func (m *Matcher) FindBestMatch(target SeqRecord) (MatchResult, bool) {
	targetLen := target.Len()
	targetKR := target.KR()

	best := MatchResult{}
	found := false

	minWeight := m.lenWeight
	if m.krWeight < minWeight {
		minWeight = m.krWeight
	}

	maxRadius := m.maxLenWindow
	if m.maxKrWindow > maxRadius {
		maxRadius = m.maxKrWindow
	}

	var keys []bucketKey
	for radius := 0; radius <= maxRadius; radius++ {
		dLMin := radius - m.maxKrWindow
		if dLMin < 0 {
			dLMin = 0
		}
		dLMax := radius
		if m.maxLenWindow < dLMax {
			dLMax = m.maxLenWindow
		}

		for dL := dLMin; dL <= dLMax; dL++ {
			dKR := radius - dL
			if dKR < 0 || dKR > m.maxKrWindow {
				continue
			}

			keys = shellKeys(keys[:0], targetLen, targetKR, dL, dKR)
			for _, key := range keys {
				idxs := m.buckets[key]
				if len(idxs) == 0 {
					continue
				}

				// scan last-inserted-first, skipping used entries. the
				// candidate lists are never compacted
				cand := -1
				for j := len(idxs) - 1; j >= 0; j-- {
					if !m.used.used(idxs[j]) {
						cand = idxs[j]
						break
					}
				}
				if cand < 0 {
					continue
				}

				lenDelta := abs(key.length - targetLen)
				krDelta := abs(key.kr - targetKR)
				score := m.lenWeight*lenDelta + m.krWeight*krDelta

				// strict less-than: the earlier-found candidate keeps ties
				if !found || score < best.Score {
					found = true
					best = MatchResult{
						Decoy:    cand,
						Score:    score,
						LenDelta: lenDelta,
						KrDelta:  krDelta,
					}
				}
			}
		}

		// any candidate at radius r' costs at least minWeight*r', so once
		// the finished radius exceeds best/minWeight nothing further out
		// can win
		if found && radius > best.Score/minWeight {
			break
		}
	}

	if !found {
		return MatchResult{}, false
	}
	return best, true
}

// Commit claims the winning decoy so no later target can take it. Must be
// called exactly once per successful search, before the next search.
func (m *Matcher) Commit(res MatchResult) {
	m.used.markUsed(res.Decoy)
}

// MatchAll pairs every target, in input order, with its best available
// decoy. Targets with no decoy inside the windows land in unmatched. The
// three returned lists all preserve input target order, and matched and
// unmatched together partition the targets exactly.
func (m *Matcher) MatchAll(targets []SeqRecord) (pairs []Pair, rows []MatchRow, unmatched []SeqRecord) {
	for _, t := range targets {
		res, ok := m.FindBestMatch(t)
		if !ok {
			unmatched = append(unmatched, t)
			continue
		}
		m.Commit(res)

		d := m.decoys[res.Decoy]
		pairs = append(pairs, Pair{Target: t, Decoy: d})
		rows = append(rows, newMatchRow(t, d, res.Score))
	}

	return pairs, rows, unmatched
}

// newMatchRow derives the full per-residue stat line for a committed pairing.
func newMatchRow(target, decoy SeqRecord, score int) MatchRow {
	targetK := target.Count('K')
	targetR := target.Count('R')
	decoyK := decoy.Count('K')
	decoyR := decoy.Count('R')

	return MatchRow{
		TargetName: target.Name(),
		DecoyName:  decoy.Name(),
		TargetLen:  target.Len(),
		DecoyLen:   decoy.Len(),
		TargetK:    targetK,
		TargetR:    targetR,
		TargetKR:   targetK + targetR,
		DecoyK:     decoyK,
		DecoyR:     decoyR,
		DecoyKR:    decoyK + decoyR,
		LenDiff:    abs(target.Len() - decoy.Len()),
		KrDiff:     abs((targetK + targetR) - (decoyK + decoyR)),
		Score:      score,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
