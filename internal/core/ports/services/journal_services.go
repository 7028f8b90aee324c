package services

import (
	"context"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
)

// JournalReaderSvc defines read access to the journal state.
type JournalReaderSvc interface {
	// Entries returns the full in-memory collection in store order.
	Entries() []domain.JournalEntry

	// FilteredEntries returns the derived view for the active filter spec.
	FilteredEntries() []domain.JournalEntry

	// Filters returns the active filter spec.
	Filters() domain.FilterSpec
}

// JournalWriterSvc defines mutations of the entry collection. Every
// successful mutation is written through to durable storage before it
// returns.
type JournalWriterSvc interface {
	// FetchEntries loads the persisted collection into memory and rebuilds
	// the filtered view.
	FetchEntries(ctx context.Context) error

	// SaveEntry inserts a new entry (no matching ID) or updates an existing
	// one in place, returning the stored entry.
	SaveEntry(ctx context.Context, req dto.SaveEntryRequest) (*domain.JournalEntry, error)

	// DeleteEntry removes the entry with the given ID. Deleting an absent
	// ID is a no-op success.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalFilterSvc defines mutations of the filter spec. Each call mutates
// exactly one dimension and fully recomputes the filtered view.
type JournalFilterSvc interface {
	SetSearchFilter(text string)
	SetMoodFilter(mood *domain.Mood)
	SetDateRangeFilter(dateRange *domain.DateRange)
	AddTagFilter(tag string)
	RemoveTagFilter(tag string)
	ClearFilters()
}

// JournalSvcFacade combines all journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalFilterSvc
}
