package providers

import (
	"context"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
)

// AttemptStatus is the outcome status of a sign-in or sign-up attempt as
// reported by the identity provider.
type AttemptStatus string

const (
	// StatusComplete means the attempt finished and a session was created.
	StatusComplete AttemptStatus = "complete"
	// StatusMissingRequirements means the attempt needs further steps
	// (typically email verification) before a session can be created.
	StatusMissingRequirements AttemptStatus = "missing_requirements"
)

// VerificationEmailUnverified is the email verification sub-state meaning a
// verification link was already sent and must be followed by the user.
const VerificationEmailUnverified = "unverified"

// SignInResult is the provider's response to a sign-in attempt.
type SignInResult struct {
	Status     AttemptStatus
	SessionRef string // session reference to activate on completion
}

// SignUpResult is the provider's response to a sign-up or verification
// attempt.
type SignUpResult struct {
	Status        AttemptStatus
	SessionRef    string
	CreatedUserID string
	// EmailVerification carries the email sub-state when Status is
	// missing_requirements (e.g. "unverified").
	EmailVerification string
}

// Readiness reports the independently loading provider subsystems. The
// provider is usable only once all four are ready.
type Readiness struct {
	SignIn  bool
	SignUp  bool
	Session bool
	User    bool
}

// Ready reports whether every subsystem has finished loading.
func (r Readiness) Ready() bool {
	return r.SignIn && r.SignUp && r.Session && r.User
}

// IdentityProvider is the boundary to the external identity service. The
// application only sequences calls to it; credential verification and
// session lifecycle are owned by the provider.
type IdentityProvider interface {
	SignIn(ctx context.Context, identifier, credential string) (*SignInResult, error)
	SignUp(ctx context.Context, emailAddress, credential string) (*SignUpResult, error)

	// PrepareVerification asks the provider to send an email verification
	// code for the pending sign-up.
	PrepareVerification(ctx context.Context) error
	// AttemptVerification completes a pending sign-up with the code the
	// user received.
	AttemptVerification(ctx context.Context, code string) (*SignUpResult, error)

	SetActiveSession(ctx context.Context, sessionRef string) error
	SignOut(ctx context.Context) error

	// GetUser returns the provider's current user snapshot, or nil when no
	// session is active.
	GetUser(ctx context.Context) (*domain.ProviderUser, error)
	// UpdateProfile sets the first/last name on the provider's current user.
	UpdateProfile(ctx context.Context, name, surname string) error

	// Readiness reports the current subsystem readiness flags.
	Readiness() Readiness
	// UserChanged returns a channel that receives a notification whenever
	// the provider's user snapshot is (re)populated. Used to wait for the
	// user to materialize after session activation without fixed sleeps.
	UserChanged() <-chan struct{}
}
