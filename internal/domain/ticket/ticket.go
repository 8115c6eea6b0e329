package ticket

import "fmt"

// UnassignedID is the sentinel for a ticket that has not yet been inserted
// into an engine. It must never appear in persisted or returned data.
const UnassignedID int64 = -1

// Priority is the ordered urgency level of a ticket. Levels 1..5 are used
// both for persistence and for sort ordering.
type Priority int8

const (
	PriorityLowest  Priority = 1
	PriorityLow     Priority = 2
	PriorityNormal  Priority = 3
	PriorityHigh    Priority = 4
	PriorityHighest Priority = 5
)

func (p Priority) Level() int8 {
	return int8(p)
}

func (p Priority) IsValid() bool {
	return p >= PriorityLowest && p <= PriorityHighest
}

// PriorityFromLevel decodes a persisted numeric level.
func PriorityFromLevel(level int8) (Priority, error) {
	p := Priority(level)
	if !p.IsValid() {
		return 0, fmt.Errorf("invalid priority level: %d", level)
	}
	return p, nil
}

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	default:
		return fmt.Sprintf("priority(%d)", int8(p))
	}
}

// Status is the open/closed state of a ticket. Persisted by canonical name.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

func (s Status) IsValid() bool {
	return s == StatusOpen || s == StatusClosed
}

func StatusFromName(name string) (Status, error) {
	s := Status(name)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status: %q", name)
	}
	return s, nil
}

// Ticket is the root record for one support request and its full history.
// Tickets are immutable values: every mutation constructs a new Ticket via
// the With* and Append helpers, never modifies one in place. A persisted
// ticket always has at least one action, the opening one.
type Ticket struct {
	ID            int64
	Creator       Creator
	Priority      Priority
	Status        Status
	AssignedTo    Assignment
	CreatorUnread bool
	Actions       []Action
}

// New builds a not-yet-persisted open ticket from its opening action. The
// engine assigns the real ID at insertion time.
func New(creator Creator, opening Action) Ticket {
	return Ticket{
		ID:            UnassignedID,
		Creator:       creator,
		Priority:      PriorityNormal,
		Status:        StatusOpen,
		AssignedTo:    AssignNobody(),
		CreatorUnread: false,
		Actions:       []Action{opening},
	}
}

func (t Ticket) WithID(id int64) Ticket {
	t.ID = id
	return t
}

func (t Ticket) WithPriority(p Priority) Ticket {
	t.Priority = p
	return t
}

func (t Ticket) WithStatus(s Status) Ticket {
	t.Status = s
	return t
}

func (t Ticket) WithAssignment(a Assignment) Ticket {
	t.AssignedTo = a
	return t
}

func (t Ticket) WithUnread(unread bool) Ticket {
	t.CreatorUnread = unread
	return t
}

// Append returns a copy of the ticket with one more action at the end of its
// history. The action slice is copied so the original ticket stays intact.
func (t Ticket) Append(a Action) Ticket {
	actions := make([]Action, len(t.Actions), len(t.Actions)+1)
	copy(actions, t.Actions)
	t.Actions = append(actions, a)
	return t
}

// CreationTime is the timestamp of the opening action, or 0 for a ticket with
// no history yet.
func (t Ticket) CreationTime() int64 {
	if len(t.Actions) == 0 {
		return 0
	}
	return t.Actions[0].Timestamp
}

// CreationWorld is the world of the opening action, when it was made by a
// player.
func (t Ticket) CreationWorld() (string, bool) {
	if len(t.Actions) == 0 {
		return "", false
	}
	return t.Actions[0].Location.World()
}
