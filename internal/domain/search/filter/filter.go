package filter

import "fmt"

// Well-known filter keys over the icon index.
const (
	KeyCollection = "prefix"
	KeyCategory   = "category"
	KeyLicense    = "license"
)

// Expression is a conjunction of exact tag matches applied inside each
// ranker, before fusion. Filtering after fusion would starve the final
// page whenever the filters are selective and the candidate pool small.
type Expression struct {
	must []Condition
}

// NewExpression creates a filter Expression from tag conditions.
func NewExpression(must ...Condition) Expression {
	return Expression{must: must}
}

// Must returns the conjunction conditions.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Condition is a single exact tag match clause.
type Condition struct {
	key   string
	match string
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }
