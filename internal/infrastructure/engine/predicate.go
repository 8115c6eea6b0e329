package engine

import (
	"strings"

	"tickethub/internal/domain/ticket"
)

type ticketPredicate func(ticket.Ticket) bool

// compilePredicates turns the present fields of the constraints into one
// predicate each; absent fields contribute nothing. All predicates are ANDed
// by matchesAll. A present Assigned constraint holding AssignNobody matches
// only tickets assigned to nobody, which is distinct from an absent one.
func compilePredicates(c ticket.SearchConstraints) []ticketPredicate {
	var predicates []ticketPredicate

	if c.Status != nil {
		want := c.Status.Value
		predicates = append(predicates, func(t ticket.Ticket) bool { return t.Status == want })
	}
	if c.Priority != nil {
		want := c.Priority.Value
		predicates = append(predicates, func(t ticket.Ticket) bool { return t.Priority == want })
	}
	if c.Creator != nil {
		want := c.Creator.Value
		predicates = append(predicates, func(t ticket.Ticket) bool { return t.Creator.Equal(want) })
	}
	if c.Assigned != nil {
		want := c.Assigned.Value
		predicates = append(predicates, func(t ticket.Ticket) bool { return t.AssignedTo == want })
	}
	if c.CreationTime != nil {
		notBefore := c.CreationTime.Value
		predicates = append(predicates, func(t ticket.Ticket) bool { return t.CreationTime() >= notBefore })
	}
	if c.World != nil {
		want := c.World.Value
		predicates = append(predicates, func(t ticket.Ticket) bool {
			world, ok := t.CreationWorld()
			return ok && world == want
		})
	}
	if c.ClosedBy != nil {
		want := c.ClosedBy.Value
		predicates = append(predicates, func(t ticket.Ticket) bool {
			for _, a := range t.Actions {
				if ticket.IsClosing(a.Kind) && a.Actor.Equal(want) {
					return true
				}
			}
			return false
		})
	}
	if c.LastClosedBy != nil {
		want := c.LastClosedBy.Value
		predicates = append(predicates, func(t ticket.Ticket) bool {
			for i := len(t.Actions) - 1; i >= 0; i-- {
				if ticket.IsClosing(t.Actions[i].Kind) {
					return t.Actions[i].Actor.Equal(want)
				}
			}
			return false
		})
	}
	if c.Keywords != nil {
		keywords := c.Keywords.Value
		predicates = append(predicates, keywordPredicate(keywords))
	}

	return predicates
}

// keywordPredicate matches tickets where every keyword appears, case
// insensitively, as a substring of at least one message-bearing action.
func keywordPredicate(keywords []string) ticketPredicate {
	return func(t ticket.Ticket) bool {
		var messages []string
		for _, a := range t.Actions {
			if msg, ok := ticket.Message(a.Kind); ok {
				messages = append(messages, strings.ToLower(msg))
			}
		}
		for _, keyword := range keywords {
			keyword = strings.ToLower(keyword)
			found := false
			for _, msg := range messages {
				if strings.Contains(msg, keyword) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}

func matchesAll(t ticket.Ticket, predicates []ticketPredicate) bool {
	for _, p := range predicates {
		if !p(t) {
			return false
		}
	}
	return true
}

// fixGroupAssignments turns raw group names into group tokens and appends
// the exact assignment name, producing the full set of assigned_to values an
// assigned-to query matches.
func fixGroupAssignments(assignment string, groupAssignments []string) []string {
	names := make([]string, 0, len(groupAssignments)+1)
	for _, group := range groupAssignments {
		name, _ := ticket.AssignGroup(group).Name()
		names = append(names, name)
	}
	return append(names, assignment)
}
