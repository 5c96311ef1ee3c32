// Package rank holds the ephemeral candidate type exchanged between the
// rankers and the fusion step. Candidates never leave the search pipeline.
package rank

// Candidate is one entry of a single ranker's output.
type Candidate struct {
	// ID is the internal numeric icon id, the deterministic tie-break key.
	ID int64
	// Key is the store key of the icon document, used for hydration.
	Key string
	// Rank is the 1-based position within the ranker's ordered output.
	Rank int
}
