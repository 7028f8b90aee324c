package repositories

import (
	"context"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
)

// EntrySnapshotReader defines read operations for the persisted journal
// entry collection.
type EntrySnapshotReader interface {
	// ReadSnapshot loads the full serialized entry collection. A missing
	// slot yields an empty collection, not an error.
	ReadSnapshot(ctx context.Context) ([]domain.JournalEntry, error)
}

// EntrySnapshotWriter defines write operations for the persisted journal
// entry collection.
type EntrySnapshotWriter interface {
	// WriteSnapshot rewrites the full serialized entry collection.
	WriteSnapshot(ctx context.Context, entries []domain.JournalEntry) error
}

// EntryRepositoryFacade combines all entry persistence interfaces.
type EntryRepositoryFacade interface {
	EntrySnapshotReader
	EntrySnapshotWriter
}
