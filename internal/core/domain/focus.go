package domain

// MotivationCategory is one of the broad areas a user can pick during
// onboarding.
type MotivationCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FocusOption narrows a motivation category down to a specific theme.
type FocusOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MotivationCategories lists the selectable categories in display order.
func MotivationCategories() []MotivationCategory {
	return []MotivationCategory{
		{ID: 1, Name: "Career"},
		{ID: 2, Name: "Parenting"},
		{ID: 3, Name: "Healthy Living"},
		{ID: 4, Name: "Self-confidence"},
		{ID: 5, Name: "Romantic Relationships"},
	}
}

// focusByCategory is the single shared category-to-focus mapping used by
// both the onboarding and the profile flows.
var focusByCategory = map[int][]FocusOption{
	1: { // Career
		{ID: "leadership", Name: "Leadership"},
		{ID: "productivity", Name: "Productivity"},
		{ID: "work-life-balance", Name: "Work-Life Balance"},
		{ID: "success", Name: "Success"},
	},
	2: { // Parenting
		{ID: "patience", Name: "Patience"},
		{ID: "understanding", Name: "Understanding"},
		{ID: "guidance", Name: "Guidance"},
	},
	3: { // Healthy Living
		{ID: "nutrition", Name: "Nutrition"},
		{ID: "exercise", Name: "Exercise"},
		{ID: "mindfulness", Name: "Mindfulness"},
		{ID: "sleep", Name: "Sleep"},
	},
	4: { // Self-confidence
		{ID: "self-love", Name: "Self-Love"},
		{ID: "courage", Name: "Courage"},
		{ID: "assertiveness", Name: "Assertiveness"},
	},
	5: { // Romantic Relationships
		{ID: "communication", Name: "Communication"},
		{ID: "trust", Name: "Trust"},
		{ID: "intimacy", Name: "Intimacy"},
	},
}

// FocusOptionsFor returns the focus options for a category, or an empty
// slice for an unknown category ID.
func FocusOptionsFor(categoryID int) []FocusOption {
	opts, ok := focusByCategory[categoryID]
	if !ok {
		return []FocusOption{}
	}
	out := make([]FocusOption, len(opts))
	copy(out, opts)
	return out
}

// FocusName resolves a focus ID to its display name within a category.
// Unknown IDs resolve to "General".
func FocusName(categoryID int, focusID string) string {
	for _, opt := range FocusOptionsFor(categoryID) {
		if opt.ID == focusID {
			return opt.Name
		}
	}
	return "General"
}

// FocusDisplayName resolves a focus ID against the user's selected
// categories, first match winning. Empty or unknown IDs resolve to
// "General".
func FocusDisplayName(categories []int, focusID string) string {
	if focusID == "" {
		return "General"
	}
	for _, categoryID := range categories {
		if name := FocusName(categoryID, focusID); name != "General" {
			return name
		}
	}
	return "General"
}
