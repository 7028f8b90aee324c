package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsrepo "github.com/mantrahq/mantra_journal_app/internal/core/ports/repositories"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
)

// journalService is the single source of truth for the entry collection and
// the active filter spec. All mutations write through to the entry store
// before reporting success; a failed write rolls the in-memory collection
// back so callers never observe partial success.
type journalService struct {
	entryRepo portsrepo.EntryRepositoryFacade

	mu       sync.RWMutex
	entries  []domain.JournalEntry
	filters  domain.FilterSpec
	filtered []domain.JournalEntry
}

// NewJournalService creates a new JournalService.
func NewJournalService(entryRepo portsrepo.EntryRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		entryRepo: entryRepo,
		entries:   []domain.JournalEntry{},
		filtered:  []domain.JournalEntry{},
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// FetchEntries loads the persisted collection into memory. On a corrupt
// snapshot the in-memory collection stays empty and the error is surfaced.
func (s *journalService) FetchEntries(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := s.entryRepo.ReadSnapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Error("Failed to load journal snapshot", slog.String("error", err.Error()))
		s.entries = []domain.JournalEntry{}
		s.recomputeLocked()
		return fmt.Errorf("fetch entries: %w", err)
	}

	s.entries = entries
	s.recomputeLocked()
	return nil
}

// SaveEntry inserts a new entry (prepended, most-recent-first) or updates an
// existing one in place, then writes the full collection through to storage.
func (s *journalService) SaveEntry(ctx context.Context, req dto.SaveEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := entryFromRequest(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries
	now := time.Now().UTC()

	idx := -1
	if entry.EntryID != "" {
		for i, e := range s.entries {
			if e.EntryID == entry.EntryID {
				idx = i
				break
			}
		}
	}

	var next []domain.JournalEntry
	if idx >= 0 {
		// Update: replace in place, preserve position and createdAt.
		entry.CreatedAt = s.entries[idx].CreatedAt
		entry.UpdatedAt = now
		next = make([]domain.JournalEntry, len(s.entries))
		copy(next, s.entries)
		next[idx] = entry
	} else {
		// Insert: new entries always appear first, regardless of their
		// semantic date.
		if entry.EntryID == "" {
			entry.EntryID = uuid.NewString()
		}
		entry.CreatedAt = now
		entry.UpdatedAt = now
		next = make([]domain.JournalEntry, 0, len(s.entries)+1)
		next = append(next, entry)
		next = append(next, s.entries...)
	}

	s.entries = next
	if err := s.entryRepo.WriteSnapshot(ctx, s.entries); err != nil {
		logger.Error("Failed to persist journal snapshot, rolling back", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
		s.entries = prev
		return nil, fmt.Errorf("save entry: %w", err)
	}

	s.recomputeLocked()
	return &entry, nil
}

// DeleteEntry removes the entry with the given ID. Deleting an absent ID is
// an idempotent no-op: the collection is unchanged and no write is issued.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.entries {
		if e.EntryID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	prev := s.entries
	next := make([]domain.JournalEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)

	s.entries = next
	if err := s.entryRepo.WriteSnapshot(ctx, s.entries); err != nil {
		logger.Error("Failed to persist journal snapshot after delete, rolling back", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		s.entries = prev
		return fmt.Errorf("delete entry: %w", err)
	}

	s.recomputeLocked()
	return nil
}

// Entries returns a copy of the full collection in store order.
func (s *journalService) Entries() []domain.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JournalEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// FilteredEntries returns a copy of the derived view.
func (s *journalService) FilteredEntries() []domain.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JournalEntry, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// Filters returns the active filter spec.
func (s *journalService) Filters() domain.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *journalService) SetSearchFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SearchText = text
	s.recomputeLocked()
}

func (s *journalService) SetMoodFilter(mood *domain.Mood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Mood = mood
	s.recomputeLocked()
}

func (s *journalService) SetDateRangeFilter(dateRange *domain.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.DateRange = dateRange
	s.recomputeLocked()
}

// AddTagFilter adds a tag to the tag dimension; duplicates are ignored.
func (s *journalService) AddTagFilter(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.filters.Tags {
		if t == tag {
			return
		}
	}
	s.filters.Tags = append(s.filters.Tags, tag)
	s.recomputeLocked()
}

func (s *journalService) RemoveTagFilter(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := s.filters.Tags[:0:0]
	for _, t := range s.filters.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	s.filters.Tags = tags
	s.recomputeLocked()
}

func (s *journalService) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = domain.FilterSpec{}
	s.recomputeLocked()
}

// recomputeLocked fully rebuilds the filtered view from the current
// collection. Recomputation is total: correctness over incremental
// patching, acceptable at personal-journal scale. Callers must hold mu.
func (s *journalService) recomputeLocked() {
	s.filtered = filterEntries(s.entries, s.filters)
}

// filterEntries is a pure function of (entries, spec). The result is a
// subsequence of entries preserving relative order; dimensions compose with
// logical AND, and the tag dimension matches on any selected tag.
func filterEntries(entries []domain.JournalEntry, spec domain.FilterSpec) []domain.JournalEntry {
	filtered := make([]domain.JournalEntry, 0, len(entries))
	search := strings.ToLower(spec.SearchText)

	for _, e := range entries {
		if search != "" && !strings.Contains(strings.ToLower(e.Text), search) {
			continue
		}
		if spec.Mood != nil && e.Mood != *spec.Mood {
			continue
		}
		// Date filtering only applies when both bounds are present.
		if r := spec.DateRange; r != nil && !r.Start.IsZero() && !r.End.IsZero() {
			if e.Date.Before(r.Start) || e.Date.After(r.End) {
				continue
			}
		}
		if len(spec.Tags) > 0 {
			match := false
			for _, tag := range spec.Tags {
				if e.HasTag(tag) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// entryFromRequest validates the request and builds the domain entry.
// Validation failures are caught before any mutation is attempted.
func entryFromRequest(req dto.SaveEntryRequest) (domain.JournalEntry, error) {
	if strings.TrimSpace(req.Text) == "" {
		return domain.JournalEntry{}, fmt.Errorf("%w: entry text must not be empty", apperrors.ErrValidation)
	}
	mood := domain.Mood(req.Mood)
	if !mood.IsValid() {
		return domain.JournalEntry{}, fmt.Errorf("%w: unknown mood %q", apperrors.ErrValidation, req.Mood)
	}
	if req.Date.IsZero() {
		return domain.JournalEntry{}, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}

	// Deduplicate tags, preserving first-seen order.
	var tags []string
	seen := make(map[string]struct{}, len(req.Tags))
	for _, tag := range req.Tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return domain.JournalEntry{
		EntryID: req.EntryID,
		Text:    req.Text,
		Mood:    mood,
		Tags:    tags,
		Date:    req.Date,
	}, nil
}
