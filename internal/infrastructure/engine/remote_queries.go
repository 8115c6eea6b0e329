package engine

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/persistence/models"
)

func (r *Remote) GetOpenTickets(ctx context.Context, page, pageSize int) (ticket.PageResult, error) {
	return r.openListing(ctx, page, pageSize, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", string(ticket.StatusOpen))
	})
}

func (r *Remote) GetOpenTicketsAssignedTo(ctx context.Context, page, pageSize int, assignment string, groupAssignments []string) (ticket.PageResult, error) {
	names := fixGroupAssignments(assignment, groupAssignments)
	return r.openListing(ctx, page, pageSize, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ? AND assigned_to IN ?", string(ticket.StatusOpen), names)
	})
}

func (r *Remote) GetOpenTicketsUnassigned(ctx context.Context, page, pageSize int) (ticket.PageResult, error) {
	return r.openListing(ctx, page, pageSize, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ? AND assigned_to IS NULL", string(ticket.StatusOpen))
	})
}

// openListing resolves the matching id set remotely, materializes those
// tickets, and sorts/pages locally.
func (r *Remote) openListing(ctx context.Context, page, pageSize int, where func(*gorm.DB) *gorm.DB) (ticket.PageResult, error) {
	var ids []int64
	err := where(r.db.WithContext(ctx).Model(&models.TicketModel{})).Pluck("id", &ids).Error
	if err != nil {
		return ticket.PageResult{}, fmt.Errorf("failed to query ticket ids: %w", err)
	}

	tickets, err := r.fetchTickets(ctx, ids)
	if err != nil {
		return ticket.PageResult{}, err
	}
	sortOpenListing(tickets)
	return paginate(tickets, page, pageSize), nil
}

// Search pushes the constraints the remote dialect can express into the id
// query (creator, assignment, status, priority, closed-by) and evaluates the
// rest (last-closed-by, creation time, world, keywords) against the
// materialized tickets, since those need the action history.
func (r *Remote) Search(ctx context.Context, constraints ticket.SearchConstraints, page, pageSize int) (ticket.PageResult, error) {
	tx := r.db.WithContext(ctx).Model(&models.TicketModel{})

	if constraints.Creator != nil {
		wire, err := r.mapper.CreatorToWire(constraints.Creator.Value)
		if err != nil {
			// Placeholder creators never reach storage, so nothing matches.
			return paginate(nil, page, pageSize), nil
		}
		tx = tx.Where("creator = ?", wire)
	}
	if constraints.Assigned != nil {
		if wire := r.mapper.AssignmentToWire(constraints.Assigned.Value); wire == nil {
			tx = tx.Where("assigned_to IS NULL")
		} else {
			tx = tx.Where("assigned_to = ?", *wire)
		}
	}
	if constraints.Status != nil {
		tx = tx.Where("status = ?", string(constraints.Status.Value))
	}
	if constraints.Priority != nil {
		tx = tx.Where("priority = ?", constraints.Priority.Value.Level())
	}
	if constraints.ClosedBy != nil {
		wire, err := r.mapper.CreatorToWire(constraints.ClosedBy.Value)
		if err != nil {
			return paginate(nil, page, pageSize), nil
		}
		tx = tx.Where(
			"id IN (SELECT DISTINCT ticket_id FROM ticket_actions WHERE action_type IN ? AND creator = ?)",
			r.mapper.ClosingTypeNames(), wire,
		)
	}

	var ids []int64
	if err := tx.Pluck("id", &ids).Error; err != nil {
		return ticket.PageResult{}, fmt.Errorf("failed to query ticket ids: %w", err)
	}

	fetched, err := r.fetchTickets(ctx, ids)
	if err != nil {
		return ticket.PageResult{}, err
	}

	remaining := compilePredicates(ticket.SearchConstraints{
		LastClosedBy: constraints.LastClosedBy,
		CreationTime: constraints.CreationTime,
		World:        constraints.World,
		Keywords:     constraints.Keywords,
	})
	var results []ticket.Ticket
	for _, t := range fetched {
		if matchesAll(t, remaining) {
			results = append(results, t)
		}
	}

	sortSearchResults(results)
	return paginate(results, page, pageSize), nil
}

func (r *Remote) CountOpenTickets(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("status = ?", string(ticket.StatusOpen)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return count, nil
}

func (r *Remote) CountOpenTicketsAssignedTo(ctx context.Context, assignment string, groupAssignments []string) (int64, error) {
	names := fixGroupAssignments(assignment, groupAssignments)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("status = ? AND assigned_to IN ?", string(ticket.StatusOpen), names).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assigned open tickets: %w", err)
	}
	return count, nil
}

func (r *Remote) MassCloseTickets(ctx context.Context, lower, upper int64, actor ticket.Creator, location ticket.ActionLocation) error {
	action := ticket.Action{
		Kind:      ticket.MassClose{},
		Actor:     actor,
		Location:  location,
		Timestamp: time.Now().Unix(),
	}
	template, err := r.mapper.ActionToModel(0, action)
	if err != nil {
		return err
	}

	var ids []int64
	err = r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("status = ? AND id BETWEEN ? AND ?", string(ticket.StatusOpen), lower, upper).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to query open tickets in range: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	err = r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("id IN ?", ids).
		Update("status", string(ticket.StatusClosed)).Error
	if err != nil {
		return fmt.Errorf("failed to close tickets in range: %w", err)
	}

	actionModels := make([]models.ActionModel, len(ids))
	for i, id := range ids {
		actionModels[i] = template
		actionModels[i].TicketID = id
	}
	if err := r.db.WithContext(ctx).Create(&actionModels).Error; err != nil {
		return fmt.Errorf("failed to record mass close actions: %w", err)
	}
	return nil
}

func (r *Remote) TicketIDsWithUnreadFlag(ctx context.Context) ([]int64, error) {
	return r.pluckIDs(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("creator_unread = ?", true)
	})
}

func (r *Remote) TicketIDsWithUnreadFlagFor(ctx context.Context, creator ticket.Creator) ([]int64, error) {
	wire, err := r.mapper.CreatorToWire(creator)
	if err != nil {
		return []int64{}, nil
	}
	return r.pluckIDs(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("creator_unread = ? AND creator = ?", true, wire)
	})
}

func (r *Remote) OpenTicketIDsOwnedBy(ctx context.Context, creator ticket.Creator) ([]int64, error) {
	wire, err := r.mapper.CreatorToWire(creator)
	if err != nil {
		return []int64{}, nil
	}
	return r.pluckIDs(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ? AND creator = ?", string(ticket.StatusOpen), wire)
	})
}

func (r *Remote) AllTicketIDs(ctx context.Context) ([]int64, error) {
	return r.pluckIDs(ctx, func(tx *gorm.DB) *gorm.DB { return tx })
}

func (r *Remote) pluckIDs(ctx context.Context, where func(*gorm.DB) *gorm.DB) ([]int64, error) {
	ids := []int64{}
	err := where(r.db.WithContext(ctx).Model(&models.TicketModel{})).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket ids: %w", err)
	}
	return ids, nil
}
