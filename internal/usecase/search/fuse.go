package search

import (
	"sort"

	"github.com/glyphdex/glyphdex/internal/domain/search/rank"
)

// DefaultRRFK is the Reciprocal Rank Fusion constant (standard value from
// Cormack et al. 2009).
const DefaultRRFK = 60

// fuseRRF merges two candidate rankings via Reciprocal Rank Fusion:
// score(d) = sum of 1/(k + rank_i(d)) over each ranking where d appears.
// The universe is the union of both lists; a candidate present in only one
// list simply contributes a single term. Ties are broken by ascending icon
// id so the merged order is stable across calls.
func fuseRRF(lexical, semantic []rank.Candidate, k int) []rank.Candidate {
	type scored struct {
		cand  rank.Candidate
		score float64
	}

	merged := make(map[int64]*scored, len(lexical)+len(semantic))
	accumulate := func(list []rank.Candidate) {
		for _, c := range list {
			s := 1.0 / float64(k+c.Rank)
			if existing, ok := merged[c.ID]; ok {
				existing.score += s
			} else {
				merged[c.ID] = &scored{cand: c, score: s}
			}
		}
	}
	accumulate(lexical)
	accumulate(semantic)

	fused := make([]*scored, 0, len(merged))
	for _, s := range merged {
		fused = append(fused, s)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].cand.ID < fused[j].cand.ID
	})

	out := make([]rank.Candidate, len(fused))
	for i, s := range fused {
		out[i] = rank.Candidate{ID: s.cand.ID, Key: s.cand.Key, Rank: i + 1}
	}
	return out
}
