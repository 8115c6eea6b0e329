package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/shared/errors"
)

func TestRemoteInsertAndGet(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")

	inserted := newOpenTicket(alice, "chunk error ate my base", 1000).WithPriority(ticket.PriorityHigh)
	id, err := eng.InsertTicket(ctx, inserted)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := eng.GetTicket(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inserted.WithID(id), *got)

	absent, err := eng.GetTicket(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestRemoteGetTicketsOmitsMissing(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")

	first, err := eng.InsertTicket(ctx, newOpenTicket(alice, "a", 1000))
	require.NoError(t, err)
	second, err := eng.InsertTicket(ctx, newOpenTicket(alice, "b", 1001))
	require.NoError(t, err)

	got, err := eng.GetTickets(ctx, []int64{first, second, 999})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestRemoteSetters(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")

	id, err := eng.InsertTicket(ctx, newOpenTicket(alice, "hi", 1000))
	require.NoError(t, err)

	require.NoError(t, eng.SetAssignment(ctx, id, ticket.AssignConsole()))
	require.NoError(t, eng.SetCreatorUnread(ctx, id, true))
	require.NoError(t, eng.SetPriority(ctx, id, ticket.PriorityLowest))
	require.NoError(t, eng.SetStatus(ctx, id, ticket.StatusClosed))

	got, err := eng.GetTicket(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ticket.AssignConsole(), got.AssignedTo)
	assert.True(t, got.CreatorUnread)
	assert.Equal(t, ticket.PriorityLowest, got.Priority)
	assert.Equal(t, ticket.StatusClosed, got.Status)

	// Writing the value a ticket already holds still succeeds.
	require.NoError(t, eng.SetStatus(ctx, id, ticket.StatusClosed))
}

func TestRemoteSettersUnknownTicket(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()

	err := eng.SetPriority(ctx, 404, ticket.PriorityHigh)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	err = eng.InsertAction(ctx, 404, openAction(testUser(t, "alice"), "hi", 1000))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRemoteInsertActionAppends(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")

	id, err := eng.InsertTicket(ctx, newOpenTicket(alice, "hi", 1000))
	require.NoError(t, err)

	comment := ticket.Action{
		Kind:      ticket.Comment{Message: "on it"},
		Actor:     ticket.NewConsole(),
		Location:  ticket.LocationFromConsole("", false),
		Timestamp: 1001,
	}
	require.NoError(t, eng.InsertAction(ctx, id, comment))

	got, err := eng.GetTicket(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, comment, got.Actions[1])
}

func TestRemoteOpenListings(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")

	low, err := eng.InsertTicket(ctx, newOpenTicket(alice, "low", 1000))
	require.NoError(t, err)
	high, err := eng.InsertTicket(ctx, newOpenTicket(alice, "high", 1001).WithPriority(ticket.PriorityHigh))
	require.NoError(t, err)
	closed, err := eng.InsertTicket(ctx, newOpenTicket(alice, "closed", 1002))
	require.NoError(t, err)
	require.NoError(t, eng.SetStatus(ctx, closed, ticket.StatusClosed))
	assigned, err := eng.InsertTicket(ctx, newOpenTicket(alice, "assigned", 1003))
	require.NoError(t, err)
	require.NoError(t, eng.SetAssignment(ctx, assigned, ticket.AssignGroup("moderators")))

	all, err := eng.GetOpenTickets(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, high, all.Items[0].ID)
	assert.Equal(t, assigned, all.Items[1].ID)
	assert.Equal(t, low, all.Items[2].ID)

	mine, err := eng.GetOpenTicketsAssignedTo(ctx, 1, 10, "Steve", []string{"moderators"})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, assigned, mine.Items[0].ID)

	unassigned, err := eng.GetOpenTicketsUnassigned(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, unassigned.Items, 2)

	open, err := eng.CountOpenTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), open)

	assignedCount, err := eng.CountOpenTicketsAssignedTo(ctx, "Steve", []string{"moderators"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), assignedCount)
}

func TestRemoteSearch(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")
	bob := testUser(t, "bob")

	aliceID, err := eng.InsertTicket(ctx, newOpenTicket(alice, "griefing near spawn", 1000))
	require.NoError(t, err)
	bobID, err := eng.InsertTicket(ctx, newOpenTicket(bob, "stolen diamonds", 1500))
	require.NoError(t, err)
	require.NoError(t, eng.InsertAction(ctx, aliceID, ticket.Action{
		Kind:      ticket.CloseWithComment{Message: "rolled back"},
		Actor:     bob,
		Location:  playerLoc(),
		Timestamp: 1600,
	}))
	require.NoError(t, eng.SetStatus(ctx, aliceID, ticket.StatusClosed))

	byCreator, err := eng.Search(ctx, ticket.SearchConstraints{Creator: ticket.Some(alice)}, 1, 10)
	require.NoError(t, err)
	require.Len(t, byCreator.Items, 1)
	assert.Equal(t, aliceID, byCreator.Items[0].ID)

	// Placeholder creators have no wire form, so the search matches nothing.
	placeholder, err := eng.Search(ctx, ticket.SearchConstraints{Creator: ticket.Some(ticket.NewOther("dummy"))}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, placeholder.Items)
	assert.Equal(t, 0, placeholder.TotalPages)

	closedBy, err := eng.Search(ctx, ticket.SearchConstraints{ClosedBy: ticket.Some(bob)}, 1, 10)
	require.NoError(t, err)
	require.Len(t, closedBy.Items, 1)
	assert.Equal(t, aliceID, closedBy.Items[0].ID)

	lastClosedBy, err := eng.Search(ctx, ticket.SearchConstraints{LastClosedBy: ticket.Some(alice)}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, lastClosedBy.Items)

	keyword, err := eng.Search(ctx, ticket.SearchConstraints{Keywords: ticket.Some([]string{"rolled"})}, 1, 10)
	require.NoError(t, err)
	require.Len(t, keyword.Items, 1)
	assert.Equal(t, aliceID, keyword.Items[0].ID)

	notBefore, err := eng.Search(ctx, ticket.SearchConstraints{CreationTime: ticket.Some(int64(1200))}, 1, 10)
	require.NoError(t, err)
	require.Len(t, notBefore.Items, 1)
	assert.Equal(t, bobID, notBefore.Items[0].ID)

	unassignedOpen, err := eng.Search(ctx, ticket.SearchConstraints{
		Assigned: ticket.Some(ticket.AssignNobody()),
		Status:   ticket.Some(ticket.StatusOpen),
	}, 1, 10)
	require.NoError(t, err)
	require.Len(t, unassignedOpen.Items, 1)
	assert.Equal(t, bobID, unassignedOpen.Items[0].ID)
}

func TestRemoteMassClose(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")

	var ids []int64
	for i := 0; i < 4; i++ {
		id, err := eng.InsertTicket(ctx, newOpenTicket(alice, "open", int64(1000+i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, eng.SetStatus(ctx, ids[1], ticket.StatusClosed))

	require.NoError(t, eng.MassCloseTickets(ctx, ids[0], ids[2], ticket.NewConsole(), ticket.LocationFromConsole("", false)))

	open, err := eng.CountOpenTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)

	swept, err := eng.GetTicket(ctx, ids[2])
	require.NoError(t, err)
	require.NotNil(t, swept)
	assert.Equal(t, ticket.StatusClosed, swept.Status)
	require.Len(t, swept.Actions, 2)
	assert.Equal(t, ticket.MassClose{}, swept.Actions[1].Kind)

	// The ticket that was already closed is not stamped again.
	skipped, err := eng.GetTicket(ctx, ids[1])
	require.NoError(t, err)
	require.NotNil(t, skipped)
	require.Len(t, skipped.Actions, 1)
}

func TestRemoteIDQueries(t *testing.T) {
	eng := newRemoteEngine(t)
	ctx := context.Background()
	alice := testUser(t, "alice")
	bob := testUser(t, "bob")

	aliceID, err := eng.InsertTicket(ctx, newOpenTicket(alice, "a", 1000))
	require.NoError(t, err)
	bobID, err := eng.InsertTicket(ctx, newOpenTicket(bob, "b", 1001))
	require.NoError(t, err)
	require.NoError(t, eng.SetCreatorUnread(ctx, bobID, true))
	require.NoError(t, eng.SetStatus(ctx, aliceID, ticket.StatusClosed))

	unread, err := eng.TicketIDsWithUnreadFlag(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{bobID}, unread)

	bobUnread, err := eng.TicketIDsWithUnreadFlagFor(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{bobID}, bobUnread)

	aliceUnread, err := eng.TicketIDsWithUnreadFlagFor(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceUnread)

	owned, err := eng.OpenTicketIDsOwnedBy(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{bobID}, owned)

	all, err := eng.AllTicketIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{aliceID, bobID}, all)
}
