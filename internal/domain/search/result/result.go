package result

// Result is a single hydrated search hit.
type Result struct {
	fullName   string
	name       string
	prefix     string
	collection string
	category   string
	tags       []string
}

// New creates a search result.
func New(fullName, name, prefix, collection, category string, tags []string) Result {
	return Result{
		fullName: fullName, name: name, prefix: prefix,
		collection: collection, category: category, tags: tags,
	}
}

// FullName returns the "<prefix>:<name>" icon identifier.
func (r *Result) FullName() string { return r.fullName }

// Name returns the icon name.
func (r *Result) Name() string { return r.name }

// Prefix returns the owning collection prefix.
func (r *Result) Prefix() string { return r.prefix }

// Collection returns the collection display name.
func (r *Result) Collection() string { return r.collection }

// Category returns the icon category.
func (r *Result) Category() string { return r.category }

// Tags returns the icon tags.
func (r *Result) Tags() []string { return r.tags }

// Page carries pagination bookkeeping for a result window.
type Page struct {
	Count      int
	Limit      int
	Offset     int
	HasMore    bool
	NextOffset int
}

// NewPage computes pagination from a limit+1 over-fetched window.
// fetched is the number of rows obtained when asking for limit+1.
func NewPage(fetched, limit, offset int) Page {
	p := Page{Limit: limit, Offset: offset}
	if fetched > limit {
		p.Count = limit
		p.HasMore = true
		p.NextOffset = offset + limit
	} else {
		p.Count = fetched
	}
	return p
}
