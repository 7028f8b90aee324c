package dto

// LoginRequest carries credentials for a sign-in attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries the data for a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// VerifyEmailRequest carries the code a user received to complete a pending
// registration.
type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse is returned after a successful login, registration, or email
// verification.
type AuthResponse struct {
	Token       string       `json:"token"`
	TokenExpiry string       `json:"tokenExpiry"`
	User        UserResponse `json:"user"`
}
