package dto

import (
	"time"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
)

// SaveEntryRequest carries a journal entry to insert or update. An empty
// EntryID (or one not present in the collection) inserts; a matching
// EntryID updates in place.
type SaveEntryRequest struct {
	EntryID string    `json:"entryID"`
	Text    string    `json:"text" binding:"required"`
	Mood    string    `json:"mood" binding:"required"`
	Tags    []string  `json:"tags"`
	Date    time.Time `json:"date" binding:"required"`
}

// SearchFilterRequest sets the free-text search dimension.
type SearchFilterRequest struct {
	Text string `json:"text"`
}

// MoodFilterRequest sets the mood dimension. A nil mood clears it.
type MoodFilterRequest struct {
	Mood *string `json:"mood"`
}

// DateRangeFilterRequest sets the date range dimension. Nil clears it.
type DateRangeFilterRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID   string    `json:"entryID"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood"`
	Tags      []string  `json:"tags"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListEntriesResponse wraps the filtered view together with the filter spec
// that produced it.
type ListEntriesResponse struct {
	Entries []EntryResponse   `json:"entries"`
	Filters domain.FilterSpec `json:"filters"`
	Total   int               `json:"total"` // size of the unfiltered collection
}

// ToEntryResponse converts a domain entry to its API representation.
func ToEntryResponse(e domain.JournalEntry) EntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EntryResponse{
		EntryID:   e.EntryID,
		Text:      e.Text,
		Mood:      string(e.Mood),
		Tags:      tags,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToListEntriesResponse converts the filtered view plus filter state to the
// list response.
func ToListEntriesResponse(filtered []domain.JournalEntry, filters domain.FilterSpec, total int) ListEntriesResponse {
	entries := make([]EntryResponse, len(filtered))
	for i, e := range filtered {
		entries[i] = ToEntryResponse(e)
	}
	return ListEntriesResponse{Entries: entries, Filters: filters, Total: total}
}
