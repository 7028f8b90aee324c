package domain

// ProviderUser is the identity half of a user snapshot, sourced from the
// external identity provider.
type ProviderUser struct {
	UserID  string `json:"userID"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// Preferences holds the locally stored, non-identity user choices.
type Preferences struct {
	Categories       []int  `json:"categories,omitempty"`
	Focus            string `json:"focus,omitempty"`
	NotificationTime string `json:"notificationTime,omitempty"`
}

// PreferencesPatch is a shallow-merge update to Preferences. Nil fields are
// left untouched; set fields win over the stored value.
type PreferencesPatch struct {
	Categories       *[]int  `json:"categories,omitempty"`
	Focus            *string `json:"focus,omitempty"`
	NotificationTime *string `json:"notificationTime,omitempty"`
}

// Apply merges the patch into p, later keys winning.
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	if patch.Categories != nil {
		p.Categories = *patch.Categories
	}
	if patch.Focus != nil {
		p.Focus = *patch.Focus
	}
	if patch.NotificationTime != nil {
		p.NotificationTime = *patch.NotificationTime
	}
	return p
}

// UserIdentity is the unified user snapshot: provider identity merged with
// locally stored preferences. It is assembled on demand and never persisted
// as a combined object.
type UserIdentity struct {
	UserID  string `json:"userID"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Preferences
}
