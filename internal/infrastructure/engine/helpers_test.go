package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/database"
	sharedConfig "tickethub/internal/shared/config"
	"tickethub/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testUser(t *testing.T, seed string) ticket.Creator {
	t.Helper()
	return ticket.NewUser(uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)))
}

func playerLoc() ticket.ActionLocation {
	return ticket.LocationFromPlayer("", false, "world", 10, 64, -3)
}

func openAction(actor ticket.Creator, message string, timestamp int64) ticket.Action {
	return ticket.Action{
		Kind:      ticket.Open{Message: message},
		Actor:     actor,
		Location:  playerLoc(),
		Timestamp: timestamp,
	}
}

func newOpenTicket(actor ticket.Creator, message string, timestamp int64) ticket.Ticket {
	return ticket.New(actor, openAction(actor, message, timestamp))
}

// newCachedEngine initializes a cached engine against a fresh sqlite file
// and tears it down with the test.
func newCachedEngine(t *testing.T) (*Cached, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.db")
	eng := NewCached(&sharedConfig.SQLiteConfig{Path: path, WriteQueueDepth: 64}, testLogger())
	require.NoError(t, eng.Initialize(context.Background()))
	t.Cleanup(func() { eng.Close() })
	return eng, path
}

// newRemoteEngine runs the remote engine's query paths against an embedded
// sqlite store; the SQL it issues is dialect-portable.
func newRemoteEngine(t *testing.T) *Remote {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remote.db")
	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	eng := newRemoteWithDB(db, testLogger())
	require.NoError(t, eng.Initialize(context.Background()))
	t.Cleanup(func() { eng.Close() })
	return eng
}
