package domain

// Mood is a single emotion tag attached to a journal entry.
type Mood string

// The fixed mood enumeration offered by the journal UI.
const (
	MoodHappy    Mood = "😊"
	MoodExcited  Mood = "🤩"
	MoodCalm     Mood = "😌"
	MoodSad      Mood = "😔"
	MoodAnxious  Mood = "😰"
	MoodAngry    Mood = "😠"
	MoodTired    Mood = "😴"
	MoodGrateful Mood = "🙏"
)

// MoodOption pairs a mood with its display label.
type MoodOption struct {
	Label string `json:"label"`
	Emoji Mood   `json:"emoji"`
}

// MoodOptions lists every selectable mood in display order.
func MoodOptions() []MoodOption {
	return []MoodOption{
		{Label: "Happy", Emoji: MoodHappy},
		{Label: "Excited", Emoji: MoodExcited},
		{Label: "Calm", Emoji: MoodCalm},
		{Label: "Sad", Emoji: MoodSad},
		{Label: "Anxious", Emoji: MoodAnxious},
		{Label: "Angry", Emoji: MoodAngry},
		{Label: "Tired", Emoji: MoodTired},
		{Label: "Grateful", Emoji: MoodGrateful},
	}
}

// IsValid reports whether m is one of the known moods.
func (m Mood) IsValid() bool {
	for _, opt := range MoodOptions() {
		if opt.Emoji == m {
			return true
		}
	}
	return false
}
