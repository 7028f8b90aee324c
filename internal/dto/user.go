package dto

import "github.com/mantrahq/mantra_journal_app/internal/core/domain"

// UserResponse is the identity half of a user as returned by auth endpoints.
type UserResponse struct {
	UserID  string `json:"userID"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// ToUserResponse converts a provider user to its API representation.
func ToUserResponse(u *domain.ProviderUser) UserResponse {
	return UserResponse{
		UserID:  u.UserID,
		Email:   u.Email,
		Name:    u.Name,
		Surname: u.Surname,
	}
}

// IdentityResponse is the unified user snapshot: identity plus merged
// preferences. FocusName is the display name resolved from the stored
// focus ID within the selected categories.
type IdentityResponse struct {
	UserID           string `json:"userID"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	Categories       []int  `json:"categories"`
	Focus            string `json:"focus"`
	FocusName        string `json:"focusName"`
	NotificationTime string `json:"notificationTime"`
}

// ToIdentityResponse converts a merged identity snapshot to its API
// representation.
func ToIdentityResponse(id *domain.UserIdentity) IdentityResponse {
	categories := id.Categories
	if categories == nil {
		categories = []int{}
	}
	return IdentityResponse{
		UserID:           id.UserID,
		Email:            id.Email,
		Name:             id.Name,
		Surname:          id.Surname,
		Categories:       categories,
		Focus:            id.Focus,
		FocusName:        domain.FocusDisplayName(id.Categories, id.Focus),
		NotificationTime: id.NotificationTime,
	}
}

// UpdatePreferencesRequest carries a shallow preference update. Omitted
// fields are left untouched.
type UpdatePreferencesRequest struct {
	Categories       *[]int  `json:"categories"`
	Focus            *string `json:"focus"`
	NotificationTime *string `json:"notificationTime"`
}

// ToPatch converts the request to a domain preferences patch.
func (r UpdatePreferencesRequest) ToPatch() domain.PreferencesPatch {
	return domain.PreferencesPatch{
		Categories:       r.Categories,
		Focus:            r.Focus,
		NotificationTime: r.NotificationTime,
	}
}
