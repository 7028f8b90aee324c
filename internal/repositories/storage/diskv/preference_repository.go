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

// PreferenceRepository persists user preferences in the "user-preferences"
// slot.
type PreferenceRepository struct {
	d *diskv.Diskv
}

// NewPreferenceRepository creates a PreferenceRepository backed by the
// given store.
func NewPreferenceRepository(d *diskv.Diskv) *PreferenceRepository {
	return &PreferenceRepository{d: d}
}

var _ portsrepo.PreferenceRepositoryFacade = (*PreferenceRepository)(nil)

// ReadPreferences loads the stored preferences. A missing slot yields
// zero-value preferences.
func (r *PreferenceRepository) ReadPreferences(ctx context.Context) (domain.Preferences, error) {
	if !r.d.Has(preferencesSlot) {
		return domain.Preferences{}, nil
	}
	data, err := r.d.Read(preferencesSlot)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("%w: reading %s: %v", apperrors.ErrStorageRead, preferencesSlot, err)
	}
	var prefs domain.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("%w: decoding %s: %v", apperrors.ErrStorageCorrupt, preferencesSlot, err)
	}
	return prefs, nil
}

// WritePreferences rewrites the stored preferences.
func (r *PreferenceRepository) WritePreferences(ctx context.Context, prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", apperrors.ErrStorageWrite, preferencesSlot, err)
	}
	if err := r.d.Write(preferencesSlot, data); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrStorageWrite, preferencesSlot, err)
	}
	return nil
}
