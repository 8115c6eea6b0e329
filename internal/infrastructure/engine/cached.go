// Package engine provides the two ticket storage backends and the procedure
// that migrates the full ticket set between them.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"gorm.io/gorm"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/database"
	"tickethub/internal/infrastructure/persistence/mappers"
	"tickethub/internal/infrastructure/persistence/models"
	sharedConfig "tickethub/internal/shared/config"
	"tickethub/internal/shared/errors"
	"tickethub/internal/shared/goroutine"
	"tickethub/internal/shared/logger"
)

type sqlOp func(db *gorm.DB) error

// Cached is the cache-fronted embedded engine. An in-memory map is the
// authoritative copy: reads never touch the sqlite file, and writes update
// the map synchronously before mirroring to disk through a write-behind
// queue. A single worker drains the queue, so statements reach the file in
// the same order the in-memory map saw them; the file is an
// eventually-consistent durability log, not a read source.
type Cached struct {
	path       string
	queueDepth int
	log        logger.Interface
	mapper     mappers.TicketMapper

	db        *gorm.DB
	mu        sync.RWMutex
	tickets   map[int64]ticket.Ticket
	lastID    atomic.Int64
	writes    chan sqlOp
	drained   chan struct{}
	closeOnce sync.Once
}

func NewCached(cfg *sharedConfig.SQLiteConfig, log logger.Interface) *Cached {
	depth := cfg.WriteQueueDepth
	if depth <= 0 {
		depth = 1000
	}
	return &Cached{
		path:       cfg.Path,
		queueDepth: depth,
		log:        log.Named("engine.cached"),
		mapper:     mappers.NewTicketMapper(),
	}
}

// Initialize opens the sqlite file, creates the schema if absent, loads
// every persisted ticket into the in-memory map, and seeds the id counter
// from the highest persisted id. It does not return until the map is
// authoritative; a row that fails to decode aborts initialization rather
// than loading a corrupted dataset partially.
func (c *Cached) Initialize(ctx context.Context) error {
	db, err := database.OpenSQLite(c.path)
	if err != nil {
		return errors.NewConnectivityError("cannot open ticket store", err.Error())
	}
	c.db = db

	if err := db.WithContext(ctx).AutoMigrate(&models.TicketModel{}, &models.ActionModel{}); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var ticketRows []models.TicketModel
	if err := db.WithContext(ctx).Find(&ticketRows).Error; err != nil {
		return fmt.Errorf("failed to load tickets: %w", err)
	}

	var actionRows []models.ActionModel
	if err := db.WithContext(ctx).Order("epoch_time ASC, action_id ASC").Find(&actionRows).Error; err != nil {
		return fmt.Errorf("failed to load actions: %w", err)
	}

	actionsByTicket := make(map[int64][]ticket.Action, len(ticketRows))
	for _, row := range actionRows {
		action, err := c.mapper.ActionFromModel(row)
		if err != nil {
			return err
		}
		actionsByTicket[row.TicketID] = append(actionsByTicket[row.TicketID], action)
	}

	c.tickets = make(map[int64]ticket.Ticket, len(ticketRows))
	var maxID int64
	for _, row := range ticketRows {
		t, err := c.mapper.ToDomain(row, actionsByTicket[row.ID])
		if err != nil {
			return err
		}
		c.tickets[t.ID] = t
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	c.lastID.Store(maxID)

	c.writes = make(chan sqlOp, c.queueDepth)
	c.drained = make(chan struct{})
	goroutine.SafeGo(c.log, "sqlite-write-behind", c.drainWrites)

	c.log.Infow("cached engine initialized", "tickets", len(c.tickets), "path", c.path)
	return nil
}

// Close drains the write-behind queue and releases the sqlite handle. No
// operation is valid afterwards.
func (c *Cached) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.writes != nil {
			close(c.writes)
			<-c.drained
		}
		err = database.Close(c.db)
	})
	return err
}

func (c *Cached) drainWrites() {
	defer close(c.drained)
	for op := range c.writes {
		if err := op(c.db); err != nil {
			// The caller's write already returned successfully against the
			// in-memory map; the failure can only be surfaced here.
			c.log.Errorw("write-behind statement failed", "error", err)
		}
	}
}

func (c *Cached) enqueue(op sqlOp) {
	c.writes <- op
}

// replace swaps the map entry for id with a copied-and-modified ticket.
func (c *Cached) replace(id int64, fn func(ticket.Ticket) ticket.Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tickets[id]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", id))
	}
	c.tickets[id] = fn(t)
	return nil
}

// snapshot copies the current ticket set out of the map.
func (c *Cached) snapshot() []ticket.Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tickets := make([]ticket.Ticket, 0, len(c.tickets))
	for _, t := range c.tickets {
		tickets = append(tickets, t)
	}
	return tickets
}

func (c *Cached) SetAssignment(ctx context.Context, id int64, assignment ticket.Assignment) error {
	if err := c.replace(id, func(t ticket.Ticket) ticket.Ticket { return t.WithAssignment(assignment) }); err != nil {
		return err
	}
	wire := c.mapper.AssignmentToWire(assignment)
	c.enqueue(func(db *gorm.DB) error {
		return db.Model(&models.TicketModel{}).Where("id = ?", id).Update("assigned_to", wire).Error
	})
	return nil
}

func (c *Cached) SetCreatorUnread(ctx context.Context, id int64, unread bool) error {
	if err := c.replace(id, func(t ticket.Ticket) ticket.Ticket { return t.WithUnread(unread) }); err != nil {
		return err
	}
	c.enqueue(func(db *gorm.DB) error {
		return db.Model(&models.TicketModel{}).Where("id = ?", id).Update("creator_unread", unread).Error
	})
	return nil
}

func (c *Cached) SetPriority(ctx context.Context, id int64, priority ticket.Priority) error {
	if err := c.replace(id, func(t ticket.Ticket) ticket.Ticket { return t.WithPriority(priority) }); err != nil {
		return err
	}
	c.enqueue(func(db *gorm.DB) error {
		return db.Model(&models.TicketModel{}).Where("id = ?", id).Update("priority", priority.Level()).Error
	})
	return nil
}

func (c *Cached) SetStatus(ctx context.Context, id int64, status ticket.Status) error {
	if err := c.replace(id, func(t ticket.Ticket) ticket.Ticket { return t.WithStatus(status) }); err != nil {
		return err
	}
	c.enqueue(func(db *gorm.DB) error {
		return db.Model(&models.TicketModel{}).Where("id = ?", id).Update("status", string(status)).Error
	})
	return nil
}

func (c *Cached) InsertAction(ctx context.Context, id int64, action ticket.Action) error {
	// Encode up front so a non-persistable action fails before it reaches
	// the in-memory map.
	model, err := c.mapper.ActionToModel(id, action)
	if err != nil {
		return err
	}
	if err := c.replace(id, func(t ticket.Ticket) ticket.Ticket { return t.Append(action) }); err != nil {
		return err
	}
	c.enqueue(func(db *gorm.DB) error {
		return db.Create(&model).Error
	})
	return nil
}

func (c *Cached) InsertTicket(ctx context.Context, t ticket.Ticket) (int64, error) {
	model, err := c.mapper.ToModel(t)
	if err != nil {
		return 0, err
	}
	actionModels := make([]models.ActionModel, 0, len(t.Actions))
	for _, action := range t.Actions {
		am, err := c.mapper.ActionToModel(0, action)
		if err != nil {
			return 0, err
		}
		actionModels = append(actionModels, am)
	}

	id := c.lastID.Add(1)
	inserted := t.WithID(id)
	model.ID = id
	for i := range actionModels {
		actionModels[i].TicketID = id
	}

	c.mu.Lock()
	c.tickets[id] = inserted
	c.mu.Unlock()

	c.enqueue(func(db *gorm.DB) error {
		return db.Create(&model).Error
	})
	if len(actionModels) > 0 {
		c.enqueue(func(db *gorm.DB) error {
			return db.Create(&actionModels).Error
		})
	}
	return id, nil
}

func (c *Cached) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (c *Cached) GetTickets(ctx context.Context, ids []int64) ([]ticket.Ticket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tickets := make([]ticket.Ticket, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.tickets[id]; ok {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}
