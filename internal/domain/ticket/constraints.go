package ticket

// Option wraps a search constraint value. Constraint fields are tri-state: a
// nil *Option means the field is not a filter at all, while a present Option
// filters on its value. For Assigned, a present Option holding AssignNobody()
// matches tickets explicitly assigned to nobody, which is a different search
// than leaving the field nil.
type Option[T any] struct {
	Value T
}

// Some builds a present constraint.
func Some[T any](v T) *Option[T] {
	return &Option[T]{Value: v}
}

// SearchConstraints carries the independently optional filters of a search.
// All present filters are ANDed. ClosedBy, LastClosedBy and Keywords inspect
// the full action history and can only be evaluated against materialized
// tickets.
type SearchConstraints struct {
	Creator      *Option[Creator]
	Assigned     *Option[Assignment]
	Priority     *Option[Priority]
	Status       *Option[Status]
	ClosedBy     *Option[Creator]
	LastClosedBy *Option[Creator]
	World        *Option[string]
	CreationTime *Option[int64]
	Keywords     *Option[[]string]
}
