package dto

import (
	"time"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
)

// GenerateMantraRequest asks for new mantras: either one from a category
// (empty category = random) or a batch of Count random ones.
type GenerateMantraRequest struct {
	Category string `json:"category"`
	Count    int    `json:"count" binding:"omitempty,min=1,max=20"`
}

// MantraResponse is the API representation of a mantra.
type MantraResponse struct {
	MantraID  string    `json:"mantraID"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToMantraResponse converts a domain mantra to its API representation.
func ToMantraResponse(m domain.Mantra) MantraResponse {
	return MantraResponse{
		MantraID:  m.MantraID,
		Text:      m.Text,
		Category:  m.Category,
		CreatedAt: m.CreatedAt,
	}
}

// ToMantraResponses converts a slice of domain mantras.
func ToMantraResponses(mantras []domain.Mantra) []MantraResponse {
	out := make([]MantraResponse, len(mantras))
	for i, m := range mantras {
		out[i] = ToMantraResponse(m)
	}
	return out
}

// ToDomainMantra converts an API mantra back to its domain form.
func ToDomainMantra(r MantraResponse) domain.Mantra {
	return domain.Mantra{
		MantraID:  r.MantraID,
		Text:      r.Text,
		Category:  r.Category,
		CreatedAt: r.CreatedAt,
	}
}

// CategoriesResponse wraps the list of mantra categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GenerateMantrasResponse wraps generated mantras together with the
// remaining daily allowance.
type GenerateMantrasResponse struct {
	Mantras        []MantraResponse `json:"mantras"`
	RemainingToday int              `json:"remainingToday"`
}
