package sqlfrag

// Query assembles a SELECT from a base fragment and optional clauses.
// Clauses are emitted in a fixed order regardless of call order:
// base, WHERE, GROUP BY, ORDER BY, LIMIT.
type Query struct {
	base    Fragment
	filters []Fragment
	groupBy Fragment
	orderBy Fragment
	limit   int
}

// NewQuery starts a query from base, typically a SELECT ... FROM ... JOIN
// skeleton without a WHERE clause.
func NewQuery(base Fragment) *Query {
	return &Query{base: base}
}

// Where adds a filter. Filters are AND-ed in the order they were added;
// an empty cond is ignored.
func (q *Query) Where(cond Fragment) *Query {
	q.filters = append(q.filters, cond)
	return q
}

// GroupBy sets the GROUP BY expression list.
func (q *Query) GroupBy(f Fragment) *Query {
	q.groupBy = f
	return q
}

// OrderBy sets the ORDER BY expression list.
func (q *Query) OrderBy(f Fragment) *Query {
	q.orderBy = f
	return q
}

// Limit bounds the result set. n <= 0 leaves the query unbounded.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Build returns the composed statement. It does not modify q, so calling
// it twice yields identical fragments.
func (q *Query) Build() Fragment {
	out := q.base
	if cond := And(q.filters...); !cond.skippable() {
		out = SQL("? WHERE ?", out, cond)
	}
	if !q.groupBy.skippable() {
		out = SQL("? GROUP BY ?", out, q.groupBy)
	}
	if !q.orderBy.skippable() {
		out = SQL("? ORDER BY ?", out, q.orderBy)
	}
	if q.limit > 0 {
		out = SQL("? LIMIT ?", out, q.limit)
	}
	return out
}
