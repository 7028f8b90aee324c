package services

import (
	"context"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
)

// MantraGeneratorSvc supplies motivational texts. Content is generated from
// a built-in catalog; the journal consumes it as an opaque content source.
type MantraGeneratorSvc interface {
	// Categories lists the available mantra categories.
	Categories(ctx context.Context) []string

	// GenerateMantra returns one mantra from the given category, or from a
	// random category when category is empty. Counts against the daily
	// generation limit.
	GenerateMantra(ctx context.Context, category string) (*domain.Mantra, error)

	// GenerateMantras returns count mantras, each from a random category.
	GenerateMantras(ctx context.Context, count int) ([]domain.Mantra, error)

	// RemainingToday reports how many generations are left before the
	// daily limit is reached.
	RemainingToday() int
}

// MantraFavoritesSvc manages the user's favorited mantras.
type MantraFavoritesSvc interface {
	Favorites() []domain.Mantra
	AddFavorite(mantra domain.Mantra)
	RemoveFavorite(mantraID string)
}

// MantraSvcFacade combines all mantra service interfaces.
type MantraSvcFacade interface {
	MantraGeneratorSvc
	MantraFavoritesSvc
}
