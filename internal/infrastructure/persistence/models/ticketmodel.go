// Package models holds the gorm row shapes for the two backing tables shared
// by every SQL engine. Enumerated values are persisted by canonical name,
// except priority which is stored as its numeric level.
package models

// TicketModel is one row of the tickets table. AssignedTo is NULL for a
// ticket assigned to nobody.
type TicketModel struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Creator       string  `gorm:"column:creator;size:70;not null"`
	Priority      int8    `gorm:"column:priority;not null"`
	Status        string  `gorm:"column:status;size:10;not null;index:idx_tickets_status"`
	AssignedTo    *string `gorm:"column:assigned_to;size:255"`
	CreatorUnread bool    `gorm:"column:creator_unread;not null;index:idx_tickets_creator_unread"`
}

func (TicketModel) TableName() string {
	return "tickets"
}

// ActionModel is one row of the actions table, foreign-keyed to a ticket by
// id. Location columns are NULL for console-sourced actions.
type ActionModel struct {
	ActionID  int64   `gorm:"column:action_id;primaryKey;autoIncrement"`
	TicketID  int64   `gorm:"column:ticket_id;not null;index:idx_actions_ticket_id"`
	Type      string  `gorm:"column:action_type;size:20;not null"`
	Creator   string  `gorm:"column:creator;size:70;not null"`
	Message   *string `gorm:"column:message;type:text"`
	EpochTime int64   `gorm:"column:epoch_time;not null"`
	Server    *string `gorm:"column:server;size:100"`
	World     *string `gorm:"column:world;size:100"`
	WorldX    *int    `gorm:"column:world_x"`
	WorldY    *int    `gorm:"column:world_y"`
	WorldZ    *int    `gorm:"column:world_z"`
}

func (ActionModel) TableName() string {
	return "ticket_actions"
}
