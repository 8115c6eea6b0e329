package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickethub/internal/domain/ticket"
)

func listingTicket(id int64, p ticket.Priority) ticket.Ticket {
	return ticket.Ticket{ID: id, Priority: p, Status: ticket.StatusOpen}
}

func TestSortOpenListing(t *testing.T) {
	tickets := []ticket.Ticket{
		listingTicket(5, ticket.PriorityLow),
		listingTicket(2, ticket.PriorityHigh),
		listingTicket(9, ticket.PriorityHigh),
	}

	sortOpenListing(tickets)

	ids := []int64{tickets[0].ID, tickets[1].ID, tickets[2].ID}
	assert.Equal(t, []int64{9, 2, 5}, ids)
}

func TestSortSearchResults(t *testing.T) {
	tickets := []ticket.Ticket{
		listingTicket(3, ticket.PriorityHighest),
		listingTicket(11, ticket.PriorityLowest),
		listingTicket(7, ticket.PriorityNormal),
	}

	sortSearchResults(tickets)

	ids := []int64{tickets[0].ID, tickets[1].ID, tickets[2].ID}
	assert.Equal(t, []int64{11, 7, 3}, ids)
}

func TestPaginateEmpty(t *testing.T) {
	result := paginate(nil, 3, 10)

	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalPages)
	assert.Equal(t, 0, result.TotalResults)
	assert.Equal(t, 1, result.ReturnedPage)
}

func TestPaginateSinglePageWhenUnsized(t *testing.T) {
	tickets := make([]ticket.Ticket, 25)
	for i := range tickets {
		tickets[i] = listingTicket(int64(i+1), ticket.PriorityNormal)
	}

	for _, pageSize := range []int{0, -1} {
		result := paginate(tickets, 4, pageSize)
		assert.Len(t, result.Items, 25)
		assert.Equal(t, 1, result.TotalPages)
		assert.Equal(t, 25, result.TotalResults)
		assert.Equal(t, 1, result.ReturnedPage)
	}
}

func TestPaginateClamping(t *testing.T) {
	tickets := make([]ticket.Ticket, 25)
	for i := range tickets {
		tickets[i] = listingTicket(int64(i+1), ticket.PriorityNormal)
	}

	tests := []struct {
		name        string
		page        int
		wantPage    int
		wantLen     int
		wantFirstID int64
	}{
		{"first page", 1, 1, 10, 1},
		{"middle page", 2, 2, 10, 11},
		{"short last page", 3, 3, 5, 21},
		{"below range serves first", 0, 1, 10, 1},
		{"past the end serves last", 5, 3, 5, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := paginate(tickets, tt.page, 10)

			assert.Equal(t, 3, result.TotalPages)
			assert.Equal(t, 25, result.TotalResults)
			assert.Equal(t, tt.wantPage, result.ReturnedPage)
			require.Len(t, result.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirstID, result.Items[0].ID)
		})
	}
}

func TestPaginateExactFit(t *testing.T) {
	tickets := make([]ticket.Ticket, 20)
	for i := range tickets {
		tickets[i] = listingTicket(int64(i+1), ticket.PriorityNormal)
	}

	result := paginate(tickets, 2, 10)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Items, 10)
	assert.Equal(t, int64(11), result.Items[0].ID)
}
