package engine

import (
	"sort"

	"tickethub/internal/domain/ticket"
)

// sortOpenListing orders an open-ticket listing: priority descending, ties
// broken by id descending. Newest highest-priority tickets come first. This
// order is a fixed contract shared by every engine.
func sortOpenListing(tickets []ticket.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].Priority != tickets[j].Priority {
			return tickets[i].Priority > tickets[j].Priority
		}
		return tickets[i].ID > tickets[j].ID
	})
}

// sortSearchResults orders free-form search results by id descending.
func sortSearchResults(tickets []ticket.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].ID > tickets[j].ID
	})
}

// paginate chunks an already-sorted result set into pages and clamps the
// requested page into the valid range. pageSize 0 serves everything as one
// page. A page below 1 serves page 1; a page past the end serves the last
// page. ReturnedPage always reflects the page actually served.
func paginate(tickets []ticket.Ticket, page, pageSize int) ticket.PageResult {
	totalResults := len(tickets)
	if totalResults == 0 {
		return ticket.PageResult{
			Items:        []ticket.Ticket{},
			TotalPages:   0,
			TotalResults: 0,
			ReturnedPage: 1,
		}
	}

	if pageSize <= 0 {
		return ticket.PageResult{
			Items:        tickets,
			TotalPages:   1,
			TotalResults: totalResults,
			ReturnedPage: 1,
		}
	}

	totalPages := (totalResults + pageSize - 1) / pageSize
	served := page
	switch {
	case page < 1:
		served = 1
	case page > totalPages:
		served = totalPages
	}

	start := (served - 1) * pageSize
	end := start + pageSize
	if end > totalResults {
		end = totalResults
	}

	return ticket.PageResult{
		Items:        tickets[start:end],
		TotalPages:   totalPages,
		TotalResults: totalResults,
		ReturnedPage: served,
	}
}
