package engine

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/persistence/models"
)

func (c *Cached) GetOpenTickets(ctx context.Context, page, pageSize int) (ticket.PageResult, error) {
	return c.openListing(page, pageSize, func(t ticket.Ticket) bool {
		return t.Status == ticket.StatusOpen
	})
}

func (c *Cached) GetOpenTicketsAssignedTo(ctx context.Context, page, pageSize int, assignment string, groupAssignments []string) (ticket.PageResult, error) {
	names := fixGroupAssignments(assignment, groupAssignments)
	return c.openListing(page, pageSize, func(t ticket.Ticket) bool {
		return t.Status == ticket.StatusOpen && assignedToAny(t, names)
	})
}

func (c *Cached) GetOpenTicketsUnassigned(ctx context.Context, page, pageSize int) (ticket.PageResult, error) {
	return c.openListing(page, pageSize, func(t ticket.Ticket) bool {
		return t.Status == ticket.StatusOpen && t.AssignedTo.IsNobody()
	})
}

func (c *Cached) openListing(page, pageSize int, match ticketPredicate) (ticket.PageResult, error) {
	var results []ticket.Ticket
	for _, t := range c.snapshot() {
		if match(t) {
			results = append(results, t)
		}
	}
	sortOpenListing(results)
	return paginate(results, page, pageSize), nil
}

func (c *Cached) Search(ctx context.Context, constraints ticket.SearchConstraints, page, pageSize int) (ticket.PageResult, error) {
	predicates := compilePredicates(constraints)
	var results []ticket.Ticket
	for _, t := range c.snapshot() {
		if matchesAll(t, predicates) {
			results = append(results, t)
		}
	}
	sortSearchResults(results)
	return paginate(results, page, pageSize), nil
}

func (c *Cached) CountOpenTickets(ctx context.Context) (int64, error) {
	var count int64
	for _, t := range c.snapshot() {
		if t.Status == ticket.StatusOpen {
			count++
		}
	}
	return count, nil
}

func (c *Cached) CountOpenTicketsAssignedTo(ctx context.Context, assignment string, groupAssignments []string) (int64, error) {
	names := fixGroupAssignments(assignment, groupAssignments)
	var count int64
	for _, t := range c.snapshot() {
		if t.Status == ticket.StatusOpen && assignedToAny(t, names) {
			count++
		}
	}
	return count, nil
}

// MassCloseTickets closes every open ticket in [lower, upper] and stamps each
// with one MassClose action sharing a single timestamp. The map update for a
// ticket applies its status change and action together under the lock.
func (c *Cached) MassCloseTickets(ctx context.Context, lower, upper int64, actor ticket.Creator, location ticket.ActionLocation) error {
	action := ticket.Action{
		Kind:      ticket.MassClose{},
		Actor:     actor,
		Location:  location,
		Timestamp: time.Now().Unix(),
	}
	// Validates the actor is persistable before any ticket is touched.
	template, err := c.mapper.ActionToModel(0, action)
	if err != nil {
		return err
	}

	var closedIDs []int64
	c.mu.Lock()
	for id := lower; id <= upper; id++ {
		t, ok := c.tickets[id]
		if !ok || t.Status != ticket.StatusOpen {
			continue
		}
		c.tickets[id] = t.WithStatus(ticket.StatusClosed).Append(action)
		closedIDs = append(closedIDs, id)
	}
	c.mu.Unlock()

	if len(closedIDs) == 0 {
		return nil
	}

	actionModels := make([]models.ActionModel, len(closedIDs))
	for i, id := range closedIDs {
		actionModels[i] = template
		actionModels[i].TicketID = id
	}

	c.enqueue(func(db *gorm.DB) error {
		return db.Model(&models.TicketModel{}).
			Where("id IN ?", closedIDs).
			Update("status", string(ticket.StatusClosed)).Error
	})
	c.enqueue(func(db *gorm.DB) error {
		return db.Create(&actionModels).Error
	})
	return nil
}

func (c *Cached) TicketIDsWithUnreadFlag(ctx context.Context) ([]int64, error) {
	return c.collectIDs(func(t ticket.Ticket) bool { return t.CreatorUnread }), nil
}

func (c *Cached) TicketIDsWithUnreadFlagFor(ctx context.Context, creator ticket.Creator) ([]int64, error) {
	return c.collectIDs(func(t ticket.Ticket) bool {
		return t.CreatorUnread && t.Creator.Equal(creator)
	}), nil
}

func (c *Cached) OpenTicketIDsOwnedBy(ctx context.Context, creator ticket.Creator) ([]int64, error) {
	return c.collectIDs(func(t ticket.Ticket) bool {
		return t.Status == ticket.StatusOpen && t.Creator.Equal(creator)
	}), nil
}

func (c *Cached) AllTicketIDs(ctx context.Context) ([]int64, error) {
	return c.collectIDs(func(ticket.Ticket) bool { return true }), nil
}

func (c *Cached) collectIDs(match ticketPredicate) []int64 {
	ids := []int64{}
	for _, t := range c.snapshot() {
		if match(t) {
			ids = append(ids, t.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func assignedToAny(t ticket.Ticket, names []string) bool {
	name, ok := t.AssignedTo.Name()
	if !ok {
		return false
	}
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
