// Package mappers converts between domain values and gorm row models. All
// decode paths are strict: a row whose encoding matches no known variant
// yields a decode error instead of being coerced, and engines fail loudly on
// it at load time.
package mappers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/persistence/models"
	"tickethub/internal/shared/errors"
)

const (
	creatorUserPrefix   = "USER."
	creatorConsoleToken = "CONSOLE"

	assignedConsoleToken = "CONSOLE"
)

// Action type names as persisted in the actions table.
const (
	typeOpen             = "OPEN"
	typeComment          = "COMMENT"
	typeAssign           = "ASSIGN"
	typeSetPriority      = "SET_PRIORITY"
	typeReopen           = "REOPEN"
	typeClose            = "CLOSE"
	typeCloseWithComment = "CLOSE_WITH_COMMENT"
	typeMassClose        = "MASS_CLOSE"
)

type TicketMapper struct{}

func NewTicketMapper() TicketMapper {
	return TicketMapper{}
}

// ClosingTypeNames lists the persisted action type names that close a
// ticket, for queries that filter the actions table directly.
func (TicketMapper) ClosingTypeNames() []string {
	return []string{typeClose, typeCloseWithComment, typeMassClose}
}

// CreatorToWire encodes a creator for storage. Placeholder creators have no
// wire form and must never be persisted; attempting to is an error.
func (TicketMapper) CreatorToWire(c ticket.Creator) (string, error) {
	switch {
	case c.IsConsole():
		return creatorConsoleToken, nil
	case c.IsUser():
		id, _ := c.UUID()
		return creatorUserPrefix + id.String(), nil
	default:
		return "", errors.NewInternalError("placeholder creator cannot be persisted", c.String())
	}
}

func (TicketMapper) CreatorFromWire(s string) (ticket.Creator, error) {
	if s == creatorConsoleToken {
		return ticket.NewConsole(), nil
	}
	if raw, ok := strings.CutPrefix(s, creatorUserPrefix); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ticket.Creator{}, errors.NewDecodeError("invalid creator uuid", s)
		}
		return ticket.NewUser(id), nil
	}
	return ticket.Creator{}, errors.NewDecodeError("unknown creator encoding", s)
}

// AssignmentToWire encodes an assignment as the nullable assigned_to column:
// NULL for nobody, a reserved token for the console, the raw name otherwise.
func (TicketMapper) AssignmentToWire(a ticket.Assignment) *string {
	switch {
	case a.IsNobody():
		return nil
	case a.IsConsole():
		s := assignedConsoleToken
		return &s
	default:
		name, _ := a.Name()
		return &name
	}
}

func (TicketMapper) AssignmentFromWire(s *string) ticket.Assignment {
	switch {
	case s == nil:
		return ticket.AssignNobody()
	case *s == assignedConsoleToken:
		return ticket.AssignConsole()
	default:
		return ticket.AssignNamed(*s)
	}
}

func (m TicketMapper) ToModel(t ticket.Ticket) (models.TicketModel, error) {
	creator, err := m.CreatorToWire(t.Creator)
	if err != nil {
		return models.TicketModel{}, err
	}
	return models.TicketModel{
		ID:            t.ID,
		Creator:       creator,
		Priority:      t.Priority.Level(),
		Status:        string(t.Status),
		AssignedTo:    m.AssignmentToWire(t.AssignedTo),
		CreatorUnread: t.CreatorUnread,
	}, nil
}

// ToDomain rebuilds a ticket from its row and its already-decoded actions,
// which must be in timestamp order.
func (m TicketMapper) ToDomain(model models.TicketModel, actions []ticket.Action) (ticket.Ticket, error) {
	creator, err := m.CreatorFromWire(model.Creator)
	if err != nil {
		return ticket.Ticket{}, err
	}
	priority, err := ticket.PriorityFromLevel(model.Priority)
	if err != nil {
		return ticket.Ticket{}, errors.NewDecodeError(err.Error(), fmt.Sprintf("ticket %d", model.ID))
	}
	status, err := ticket.StatusFromName(model.Status)
	if err != nil {
		return ticket.Ticket{}, errors.NewDecodeError(err.Error(), fmt.Sprintf("ticket %d", model.ID))
	}
	return ticket.Ticket{
		ID:            model.ID,
		Creator:       creator,
		Priority:      priority,
		Status:        status,
		AssignedTo:    m.AssignmentFromWire(model.AssignedTo),
		CreatorUnread: model.CreatorUnread,
		Actions:       actions,
	}, nil
}

func (m TicketMapper) ActionToModel(ticketID int64, a ticket.Action) (models.ActionModel, error) {
	actor, err := m.CreatorToWire(a.Actor)
	if err != nil {
		return models.ActionModel{}, err
	}

	name, message, err := m.kindToWire(a.Kind)
	if err != nil {
		return models.ActionModel{}, err
	}

	model := models.ActionModel{
		TicketID:  ticketID,
		Type:      name,
		Creator:   actor,
		Message:   message,
		EpochTime: a.Timestamp,
	}

	if server, ok := a.Location.Server(); ok {
		model.Server = &server
	}
	if world, ok := a.Location.World(); ok {
		model.World = &world
		x, y, z, _ := a.Location.Coordinates()
		model.WorldX, model.WorldY, model.WorldZ = &x, &y, &z
	}

	return model, nil
}

func (m TicketMapper) ActionFromModel(model models.ActionModel) (ticket.Action, error) {
	actor, err := m.CreatorFromWire(model.Creator)
	if err != nil {
		return ticket.Action{}, err
	}

	kind, err := m.kindFromWire(model.Type, model.Message)
	if err != nil {
		return ticket.Action{}, err
	}

	location, err := locationFromModel(model)
	if err != nil {
		return ticket.Action{}, err
	}

	return ticket.Action{
		Kind:      kind,
		Actor:     actor,
		Location:  location,
		Timestamp: model.EpochTime,
	}, nil
}

// kindToWire splits an action kind into its persisted type name and message
// column. Assignments and priority changes carry their payload in the message
// column: the encoded assignment and the decimal level respectively.
func (m TicketMapper) kindToWire(k ticket.ActionKind) (string, *string, error) {
	str := func(s string) *string { return &s }
	switch v := k.(type) {
	case ticket.Open:
		return typeOpen, str(v.Message), nil
	case ticket.Comment:
		return typeComment, str(v.Message), nil
	case ticket.Assign:
		return typeAssign, m.AssignmentToWire(v.Assignment), nil
	case ticket.SetPriority:
		return typeSetPriority, str(strconv.Itoa(int(v.Priority.Level()))), nil
	case ticket.Reopen:
		return typeReopen, nil, nil
	case ticket.CloseWithoutComment:
		return typeClose, nil, nil
	case ticket.CloseWithComment:
		return typeCloseWithComment, str(v.Message), nil
	case ticket.MassClose:
		return typeMassClose, nil, nil
	default:
		return "", nil, errors.NewInternalError(fmt.Sprintf("unhandled action kind %T", k))
	}
}

func (m TicketMapper) kindFromWire(name string, message *string) (ticket.ActionKind, error) {
	requireMessage := func() (string, error) {
		if message == nil {
			return "", errors.NewDecodeError("action is missing its message", name)
		}
		return *message, nil
	}

	switch name {
	case typeOpen:
		msg, err := requireMessage()
		if err != nil {
			return nil, err
		}
		return ticket.Open{Message: msg}, nil
	case typeComment:
		msg, err := requireMessage()
		if err != nil {
			return nil, err
		}
		return ticket.Comment{Message: msg}, nil
	case typeAssign:
		return ticket.Assign{Assignment: m.AssignmentFromWire(message)}, nil
	case typeSetPriority:
		msg, err := requireMessage()
		if err != nil {
			return nil, err
		}
		level, err := strconv.Atoi(msg)
		if err != nil {
			return nil, errors.NewDecodeError("invalid priority payload", msg)
		}
		priority, err := ticket.PriorityFromLevel(int8(level))
		if err != nil {
			return nil, errors.NewDecodeError(err.Error(), msg)
		}
		return ticket.SetPriority{Priority: priority}, nil
	case typeReopen:
		return ticket.Reopen{}, nil
	case typeClose:
		return ticket.CloseWithoutComment{}, nil
	case typeCloseWithComment:
		msg, err := requireMessage()
		if err != nil {
			return nil, err
		}
		return ticket.CloseWithComment{Message: msg}, nil
	case typeMassClose:
		return ticket.MassClose{}, nil
	default:
		return nil, errors.NewDecodeError("unknown action type", name)
	}
}

func locationFromModel(model models.ActionModel) (ticket.ActionLocation, error) {
	server := ""
	hasServer := false
	if model.Server != nil {
		server, hasServer = *model.Server, true
	}

	if model.World == nil {
		return ticket.LocationFromConsole(server, hasServer), nil
	}
	if model.WorldX == nil || model.WorldY == nil || model.WorldZ == nil {
		return ticket.ActionLocation{}, errors.NewDecodeError(
			"player action location is missing coordinates",
			fmt.Sprintf("action %d", model.ActionID),
		)
	}
	return ticket.LocationFromPlayer(server, hasServer, *model.World, *model.WorldX, *model.WorldY, *model.WorldZ), nil
}
