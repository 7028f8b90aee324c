package services

import (
	"context"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsprov "github.com/mantrahq/mantra_journal_app/internal/core/ports/providers"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
)

// AuthState describes the bridge's view of the identity provider.
type AuthState string

const (
	// AuthStateUninitialized means Initialize has not been called yet.
	AuthStateUninitialized AuthState = "uninitialized"
	// AuthStateLoading means the provider is attached but not yet ready.
	AuthStateLoading AuthState = "loading"
	// AuthStateUnauthenticated means the provider is ready with no session.
	AuthStateUnauthenticated AuthState = "unauthenticated"
	// AuthStateAuthenticated means the provider is ready with an active
	// session.
	AuthStateAuthenticated AuthState = "authenticated"
)

// AuthSvcFacade bridges the asynchronously initializing identity provider
// into a synchronously queryable identity snapshot and owns the merge with
// local preferences.
type AuthSvcFacade interface {
	// Initialize attaches the provider handle. The first call wins; later
	// calls only refresh the handle.
	Initialize(provider portsprov.IdentityProvider)

	// State reports the current readiness/session state.
	State() AuthState

	// Login verifies credentials with the provider and returns the
	// normalized identity once the provider's user snapshot is populated.
	Login(ctx context.Context, email, password string) (*domain.ProviderUser, error)

	// Register creates an account with the provider. Pending verification
	// outcomes surface as apperrors.ErrEmailUnverified or
	// apperrors.ErrVerificationRequired.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.ProviderUser, error)

	// VerifyEmail completes a pending registration with the emailed code.
	VerifyEmail(ctx context.Context, code string) (*domain.ProviderUser, error)

	// Logout tears down the provider session. Best effort: it never fails
	// from the caller's perspective.
	Logout(ctx context.Context)

	// GetCurrentUser returns a synchronous snapshot of the provider user,
	// or nil when the provider is not ready or has no user. Never errors.
	GetCurrentUser() *domain.ProviderUser

	// CheckAuthStatus returns nil when the provider is not ready or
	// unauthenticated; otherwise the provider user merged with stored
	// preferences.
	CheckAuthStatus(ctx context.Context) (*domain.UserIdentity, error)

	// UpdatePreferences shallow-merges the patch into stored preferences
	// and returns the refreshed identity snapshot. Requires a session.
	UpdatePreferences(ctx context.Context, patch domain.PreferencesPatch) (*domain.UserIdentity, error)
}
