package repositories

import (
	"context"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
)

// PreferenceReader defines read operations for stored user preferences.
type PreferenceReader interface {
	// ReadPreferences loads the stored preferences. A missing slot yields
	// zero-value preferences, not an error.
	ReadPreferences(ctx context.Context) (domain.Preferences, error)
}

// PreferenceWriter defines write operations for stored user preferences.
type PreferenceWriter interface {
	// WritePreferences rewrites the stored preferences.
	WritePreferences(ctx context.Context, prefs domain.Preferences) error
}

// PreferenceRepositoryFacade combines all preference persistence interfaces.
type PreferenceRepositoryFacade interface {
	PreferenceReader
	PreferenceWriter
}
