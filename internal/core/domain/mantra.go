package domain

import "time"

// Mantra is a short motivational text served to the user.
type Mantra struct {
	MantraID  string    `json:"mantraID"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}
