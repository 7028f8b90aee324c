package diskv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/peterbourgon/diskv/v3"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsrepo "github.com/mantrahq/mantra_journal_app/internal/core/ports/repositories"
)

// EntryRepository persists the journal entry collection as a single
// serialized blob in the "journal-entries" slot.
type EntryRepository struct {
	d *diskv.Diskv
}

// NewEntryRepository creates an EntryRepository backed by the given store.
func NewEntryRepository(d *diskv.Diskv) *EntryRepository {
	return &EntryRepository{d: d}
}

var _ portsrepo.EntryRepositoryFacade = (*EntryRepository)(nil)

// ReadSnapshot loads the persisted entry collection. A missing slot yields
// an empty collection; an undecodable one yields ErrStorageCorrupt.
func (r *EntryRepository) ReadSnapshot(ctx context.Context) ([]domain.JournalEntry, error) {
	if !r.d.Has(entriesSlot) {
		return []domain.JournalEntry{}, nil
	}
	data, err := r.d.Read(entriesSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", apperrors.ErrStorageRead, entriesSlot, err)
	}
	var entries []domain.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", apperrors.ErrStorageCorrupt, entriesSlot, err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

// WriteSnapshot rewrites the full entry collection.
func (r *EntryRepository) WriteSnapshot(ctx context.Context, entries []domain.JournalEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", apperrors.ErrStorageWrite, entriesSlot, err)
	}
	if err := r.d.Write(entriesSlot, data); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrStorageWrite, entriesSlot, err)
	}
	return nil
}
