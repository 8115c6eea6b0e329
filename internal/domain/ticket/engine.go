package ticket

import "context"

// Kind names a storage backend in configuration and the migrate CLI.
type Kind string

const (
	KindCachedSQLite Kind = "cached_sqlite"
	KindMySQL        Kind = "mysql"
)

// PageResult is the envelope returned by every paginated query.
// ReturnedPage reflects the page actually served after clamping, which may
// differ from the page requested.
type PageResult struct {
	Items        []Ticket
	TotalPages   int
	TotalResults int
	ReturnedPage int
}

// Engine is the backend-agnostic contract for ticket persistence. All
// methods are safe for unbounded concurrent use; they block only on I/O and
// take a context for that reason. Initialize must complete before any other
// call, and no call is valid after Close.
//
// Reads of a missing ticket id return an empty result, never an error.
// Mutations of a missing id return a not-found error; that indicates a
// caller bug and both shipped engines treat it the same way.
type Engine interface {
	// Single-field setters. Each updates exactly one scalar field and has no
	// other side effects; callers append the matching Action separately when
	// they want history.
	SetAssignment(ctx context.Context, id int64, assignment Assignment) error
	SetCreatorUnread(ctx context.Context, id int64, unread bool) error
	SetPriority(ctx context.Context, id int64, priority Priority) error
	SetStatus(ctx context.Context, id int64, status Status) error

	// InsertAction appends one action to an existing ticket's history.
	InsertAction(ctx context.Context, id int64, action Action) error
	// InsertTicket assigns a fresh id, persists the ticket with any actions
	// already attached, and returns the assigned id. Assigned ids are unique
	// and strictly increasing within one engine instance.
	InsertTicket(ctx context.Context, t Ticket) (int64, error)

	// GetTicket returns nil when the id is unknown.
	GetTicket(ctx context.Context, id int64) (*Ticket, error)
	// GetTickets silently omits ids that are not found.
	GetTickets(ctx context.Context, ids []int64) ([]Ticket, error)

	// Paginated aggregates. pageSize == 0 means one page holding everything.
	// Open-ticket listings sort by priority descending then id descending;
	// search results sort by id descending.
	GetOpenTickets(ctx context.Context, page, pageSize int) (PageResult, error)
	GetOpenTicketsAssignedTo(ctx context.Context, page, pageSize int, assignment string, groupAssignments []string) (PageResult, error)
	GetOpenTicketsUnassigned(ctx context.Context, page, pageSize int) (PageResult, error)
	Search(ctx context.Context, constraints SearchConstraints, page, pageSize int) (PageResult, error)

	CountOpenTickets(ctx context.Context) (int64, error)
	CountOpenTicketsAssignedTo(ctx context.Context, assignment string, groupAssignments []string) (int64, error)

	// MassCloseTickets closes every open ticket with id in [lower, upper]
	// and appends one MassClose action to each ticket it closes. Tickets
	// outside the range or already closed are untouched. The range as a
	// whole is not atomic, but each ticket's status change and action are
	// applied together.
	MassCloseTickets(ctx context.Context, lower, upper int64, actor Creator, location ActionLocation) error

	TicketIDsWithUnreadFlag(ctx context.Context) ([]int64, error)
	TicketIDsWithUnreadFlagFor(ctx context.Context, creator Creator) ([]int64, error)
	OpenTicketIDsOwnedBy(ctx context.Context, creator Creator) ([]int64, error)

	// AllTicketIDs enumerates every ticket known to the engine. It exists
	// for the migration procedure.
	AllTicketIDs(ctx context.Context) ([]int64, error)

	Initialize(ctx context.Context) error
	Close() error
}
