package domain

import "encoding/json"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// FilterTerm is the value side of a filter clause. Text and select
// filters carry a single term; a multi-select carries several and means
// membership: the row matches when the column equals any chosen term.
// On the wire a single term is a JSON string, a selection a JSON array.
type FilterTerm struct {
	Terms []string
	List  bool
}

func Term(v string) FilterTerm      { return FilterTerm{Terms: []string{v}} }
func Terms(vs ...string) FilterTerm { return FilterTerm{Terms: vs, List: true} }

// One returns the single term of a non-list value, or "" when empty.
func (t FilterTerm) One() string {
	if len(t.Terms) == 0 {
		return ""
	}
	return t.Terms[0]
}

func (t *FilterTerm) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Term(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*t = Terms(list...)
	return nil
}

func (t FilterTerm) MarshalJSON() ([]byte, error) {
	if t.List {
		return json.Marshal(t.Terms)
	}
	return json.Marshal(t.One())
}

// FilterClause targets one column. Value semantics depend on the column
// kind and shape: substring match for a text term, exact match for a
// boolean term, set membership for a list.
type FilterClause struct {
	Column string     `json:"id"`
	Value  FilterTerm `json:"value"`
}

// SortDirective is one (column, direction) pair. Order matters: the first
// directive is the primary sort key, the rest break ties.
type SortDirective struct {
	Column string `json:"id"`
	Desc   bool   `json:"desc"`
}

// ListingQuery is the structured request the query builder consumes.
// Paginate=false is the "return everything" mode used by exporters and
// list-all callers.
type ListingQuery struct {
	Page     int
	PageSize int
	Search   string
	Filters  []FilterClause
	Sort     []SortDirective
	Paginate bool
}

// Normalize clamps out-of-range pagination values instead of passing them
// through to the store.
func (q *ListingQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
}

func (q ListingQuery) Offset() int { return (q.Page - 1) * q.PageSize }
