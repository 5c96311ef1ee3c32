package domain

// Identity is the resolved caller a search quota is tracked against.
// SearchLimit is the per-day allowance; it must be resolvable for every
// authenticated identity — a missing limit record is an auth failure,
// never silently unlimited.
type Identity struct {
	ID          string
	Name        string
	SearchLimit int64
}
