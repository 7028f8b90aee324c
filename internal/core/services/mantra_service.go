package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
)

var mantraCategories = []string{
	"Career",
	"Self-Love",
	"Confidence",
	"Relationships",
	"Health",
	"Mindfulness",
	"Success",
	"Gratitude",
}

var mantraSamples = map[string][]string{
	"Career": {
		"I am capable of achieving my professional goals.",
		"My work brings value to others and fulfillment to me.",
		"I embrace challenges as opportunities for growth.",
		"I am worthy of success and recognition.",
		"My career path is unfolding perfectly for me.",
	},
	"Self-Love": {
		"I am worthy of love and respect.",
		"I accept myself completely as I am.",
		"I honor my needs and take care of myself.",
		"I am enough, just as I am.",
		"I treat myself with kindness and compassion.",
	},
	"Confidence": {
		"I believe in myself and my abilities.",
		"I am confident in my decisions.",
		"I speak with confidence and clarity.",
		"I am becoming more confident every day.",
		"I trust my intuition and inner wisdom.",
	},
	"Relationships": {
		"I attract healthy and loving relationships.",
		"I communicate openly and honestly with others.",
		"I set healthy boundaries in my relationships.",
		"I am worthy of deep connection and love.",
		"My relationships are sources of joy and growth.",
	},
	"Health": {
		"My body is strong, healthy, and full of energy.",
		"I make choices that support my wellbeing.",
		"I listen to my body's wisdom.",
		"I am committed to my health and vitality.",
		"Each day, I grow stronger and healthier.",
	},
	"Mindfulness": {
		"I am present in this moment.",
		"I observe my thoughts without judgment.",
		"I find peace in the present moment.",
		"I am aware of my breath and my body.",
		"I release what I cannot control.",
	},
	"Success": {
		"I am creating the success I desire.",
		"I am worthy of abundance and prosperity.",
		"I attract opportunities for success.",
		"I celebrate my achievements, big and small.",
		"My potential for success is limitless.",
	},
	"Gratitude": {
		"I am grateful for all that I have.",
		"I find joy in the simple things.",
		"My life is filled with blessings.",
		"I appreciate the beauty around me.",
		"Gratitude opens my heart to abundance.",
	},
}

// mantraService serves motivational texts from the built-in catalog and
// tracks favorites. State is in-memory only: the daily generation counter
// resets when the process restarts.
type mantraService struct {
	dailyLimit int

	mu        sync.Mutex
	usedToday int
	favorites []domain.Mantra
}

// NewMantraService creates a new MantraService with the given daily
// generation limit.
func NewMantraService(dailyLimit int) portssvc.MantraSvcFacade {
	return &mantraService{dailyLimit: dailyLimit}
}

var _ portssvc.MantraSvcFacade = (*mantraService)(nil)

// Categories lists the available mantra categories.
func (s *mantraService) Categories(ctx context.Context) []string {
	out := make([]string, len(mantraCategories))
	copy(out, mantraCategories)
	return out
}

// GenerateMantra returns one mantra from the given category (random when
// empty) and consumes one generation from the daily allowance.
func (s *mantraService) GenerateMantra(ctx context.Context, category string) (*domain.Mantra, error) {
	if category == "" {
		category = mantraCategories[rand.IntN(len(mantraCategories))]
	}
	samples, ok := mantraSamples[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, category)
	}

	s.mu.Lock()
	if s.usedToday >= s.dailyLimit {
		s.mu.Unlock()
		return nil, apperrors.ErrDailyLimitReached
	}
	s.usedToday++
	s.mu.Unlock()

	mantra := newMantra(category, samples[rand.IntN(len(samples))])
	return &mantra, nil
}

// GenerateMantras returns count mantras, each from a random category. Batch
// generation backs list views and does not consume the daily allowance.
func (s *mantraService) GenerateMantras(ctx context.Context, count int) ([]domain.Mantra, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", apperrors.ErrValidation)
	}
	mantras := make([]domain.Mantra, count)
	for i := range mantras {
		category := mantraCategories[rand.IntN(len(mantraCategories))]
		samples := mantraSamples[category]
		mantras[i] = newMantra(category, samples[rand.IntN(len(samples))])
	}
	return mantras, nil
}

// RemainingToday reports how many generations are left today.
func (s *mantraService) RemainingToday() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.dailyLimit - s.usedToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Favorites returns a copy of the favorited mantras, most recent first.
func (s *mantraService) Favorites() []domain.Mantra {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Mantra, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// AddFavorite prepends the mantra to the favorites; already-favorited
// mantras are ignored.
func (s *mantraService) AddFavorite(mantra domain.Mantra) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fav := range s.favorites {
		if fav.MantraID == mantra.MantraID {
			return
		}
	}
	s.favorites = append([]domain.Mantra{mantra}, s.favorites...)
}

// RemoveFavorite removes the mantra with the given ID; absent IDs are a
// no-op.
func (s *mantraService) RemoveFavorite(mantraID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	favorites := s.favorites[:0:0]
	for _, fav := range s.favorites {
		if fav.MantraID != mantraID {
			favorites = append(favorites, fav)
		}
	}
	s.favorites = favorites
}

func newMantra(category, text string) domain.Mantra {
	return domain.Mantra{
		MantraID:  uuid.NewString(),
		Text:      text,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}
