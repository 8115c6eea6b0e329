package engine

import (
	"context"
	"fmt"

	"tickethub/internal/domain/ticket"
)

// MigrateHooks observe the migration lifecycle. Any hook may be nil.
type MigrateHooks struct {
	OnBegin    func()
	OnComplete func()
	OnError    func(error)
}

// Migrate copies the full ticket set from src into dst through the normal
// insert path. Both engines must already be initialized. Destination ids are
// reassigned by dst; history, creator, priority, status, assignment, and the
// unread flag are preserved ticket for ticket.
//
// On the first failure OnError fires and the procedure stops; a failed
// migration's destination must be treated as unusable until the migration is
// retried from scratch. Neither engine is closed here — the caller decides
// when to retire whichever engine is no longer active.
func Migrate(ctx context.Context, src, dst ticket.Engine, hooks MigrateHooks) error {
	if hooks.OnBegin != nil {
		hooks.OnBegin()
	}
	fail := func(err error) error {
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
		return err
	}

	ids, err := src.AllTicketIDs(ctx)
	if err != nil {
		return fail(fmt.Errorf("enumerating source tickets: %w", err))
	}

	for _, id := range ids {
		t, err := src.GetTicket(ctx, id)
		if err != nil {
			return fail(fmt.Errorf("reading ticket %d: %w", id, err))
		}
		if t == nil {
			continue
		}
		if _, err := dst.InsertTicket(ctx, *t); err != nil {
			return fail(fmt.Errorf("migrating ticket %d: %w", id, err))
		}
	}

	if hooks.OnComplete != nil {
		hooks.OnComplete()
	}
	return nil
}
