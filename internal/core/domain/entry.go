package domain

import "time"

// JournalEntry represents a single journal record in the domain.
type JournalEntry struct {
	EntryID   string    `json:"entryID"` // Primary Key (UUID), immutable after creation
	Text      string    `json:"text"`
	Mood      Mood      `json:"mood"`
	Tags      []string  `json:"tags,omitempty"` // deduplicated, case-sensitive
	Date      time.Time `json:"date"`           // the day the entry pertains to, user-assigned
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasTag reports whether the entry carries the given tag.
func (e JournalEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DateRange is an inclusive [Start, End] bound on entry dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FilterSpec is the current combination of active filter dimensions applied
// to the entry collection. Dimensions compose with logical AND; the tag
// dimension matches when the entry has at least one of the selected tags.
type FilterSpec struct {
	SearchText string     `json:"searchText"`
	Mood       *Mood      `json:"mood,omitempty"`
	DateRange  *DateRange `json:"dateRange,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

// IsZero reports whether no filter dimension is active.
func (f FilterSpec) IsZero() bool {
	return f.SearchText == "" && f.Mood == nil && f.DateRange == nil && len(f.Tags) == 0
}
