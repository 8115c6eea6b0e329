package engine

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/database"
	"tickethub/internal/infrastructure/persistence/mappers"
	"tickethub/internal/infrastructure/persistence/models"
	sharedConfig "tickethub/internal/shared/config"
	"tickethub/internal/shared/errors"
	"tickethub/internal/shared/logger"
)

// Remote is the networked engine: a thin translation layer from the contract
// to a remote MySQL store with no local cache. Every operation is one or
// more round trips, and concurrent callers observe whatever consistency the
// remote store provides. Aggregate queries resolve the matching id set
// remotely, fetch full rows for exactly that set, and sort/page locally;
// predicates that need the action history are applied after the fetch.
type Remote struct {
	cfg    *sharedConfig.MySQLConfig
	log    logger.Interface
	mapper mappers.TicketMapper
	db     *gorm.DB
}

func NewRemote(cfg *sharedConfig.MySQLConfig, log logger.Interface) *Remote {
	return &Remote{
		cfg:    cfg,
		log:    log.Named("engine.remote"),
		mapper: mappers.NewTicketMapper(),
	}
}

// newRemoteWithDB wires the engine onto an existing connection. Used by
// tests to run the remote query paths against an embedded store.
func newRemoteWithDB(db *gorm.DB, log logger.Interface) *Remote {
	return &Remote{
		log:    log.Named("engine.remote"),
		mapper: mappers.NewTicketMapper(),
		db:     db,
	}
}

// Initialize connects to the remote store and creates the two backing tables
// if absent. An unreachable store fails the call; the owning application
// decides whether to fall back to another backend.
func (r *Remote) Initialize(ctx context.Context) error {
	if r.db == nil {
		db, err := database.OpenMySQL(r.cfg)
		if err != nil {
			return errors.NewConnectivityError("cannot reach ticket database", err.Error())
		}
		r.db = db
	}

	if err := r.db.WithContext(ctx).AutoMigrate(&models.TicketModel{}, &models.ActionModel{}); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *Remote) Close() error {
	return database.Close(r.db)
}

// requireTicket distinguishes a mutation against a missing id, which is a
// caller bug, from an UPDATE that legitimately changed nothing.
func (r *Remote) requireTicket(ctx context.Context, id int64) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TicketModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to look up ticket %d: %w", id, err)
	}
	if count == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", id))
	}
	return nil
}

func (r *Remote) updateField(ctx context.Context, id int64, column string, value interface{}) error {
	if err := r.requireTicket(ctx, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&models.TicketModel{}).Where("id = ?", id).Update(column, value).Error
	if err != nil {
		return fmt.Errorf("failed to update %s of ticket %d: %w", column, id, err)
	}
	return nil
}

func (r *Remote) SetAssignment(ctx context.Context, id int64, assignment ticket.Assignment) error {
	return r.updateField(ctx, id, "assigned_to", r.mapper.AssignmentToWire(assignment))
}

func (r *Remote) SetCreatorUnread(ctx context.Context, id int64, unread bool) error {
	return r.updateField(ctx, id, "creator_unread", unread)
}

func (r *Remote) SetPriority(ctx context.Context, id int64, priority ticket.Priority) error {
	return r.updateField(ctx, id, "priority", priority.Level())
}

func (r *Remote) SetStatus(ctx context.Context, id int64, status ticket.Status) error {
	return r.updateField(ctx, id, "status", string(status))
}

func (r *Remote) InsertAction(ctx context.Context, id int64, action ticket.Action) error {
	model, err := r.mapper.ActionToModel(id, action)
	if err != nil {
		return err
	}
	if err := r.requireTicket(ctx, id); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert action for ticket %d: %w", id, err)
	}
	return nil
}

func (r *Remote) InsertTicket(ctx context.Context, t ticket.Ticket) (int64, error) {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return 0, err
	}
	actionModels := make([]models.ActionModel, 0, len(t.Actions))
	for _, action := range t.Actions {
		am, err := r.mapper.ActionToModel(0, action)
		if err != nil {
			return 0, err
		}
		actionModels = append(actionModels, am)
	}

	// The store assigns the id through its auto-increment column.
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, fmt.Errorf("failed to insert ticket: %w", err)
	}

	if len(actionModels) > 0 {
		for i := range actionModels {
			actionModels[i].TicketID = model.ID
		}
		if err := r.db.WithContext(ctx).Create(&actionModels).Error; err != nil {
			return 0, fmt.Errorf("failed to insert actions for ticket %d: %w", model.ID, err)
		}
	}
	return model.ID, nil
}

func (r *Remote) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	tickets, err := r.fetchTickets(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, nil
	}
	return &tickets[0], nil
}

func (r *Remote) GetTickets(ctx context.Context, ids []int64) ([]ticket.Ticket, error) {
	return r.fetchTickets(ctx, ids)
}

// fetchTickets materializes full tickets, history included, for an id set.
func (r *Remote) fetchTickets(ctx context.Context, ids []int64) ([]ticket.Ticket, error) {
	if len(ids) == 0 {
		return []ticket.Ticket{}, nil
	}

	var ticketRows []models.TicketModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ticketRows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	var actionRows []models.ActionModel
	err := r.db.WithContext(ctx).
		Where("ticket_id IN ?", ids).
		Order("epoch_time ASC, action_id ASC").
		Find(&actionRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch actions: %w", err)
	}

	actionsByTicket := make(map[int64][]ticket.Action, len(ticketRows))
	for _, row := range actionRows {
		action, err := r.mapper.ActionFromModel(row)
		if err != nil {
			return nil, err
		}
		actionsByTicket[row.TicketID] = append(actionsByTicket[row.TicketID], action)
	}

	tickets := make([]ticket.Ticket, 0, len(ticketRows))
	for _, row := range ticketRows {
		t, err := r.mapper.ToDomain(row, actionsByTicket[row.ID])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
