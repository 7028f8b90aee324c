package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsprov "github.com/mantrahq/mantra_journal_app/internal/core/ports/providers"
	portsrepo "github.com/mantrahq/mantra_journal_app/internal/core/ports/repositories"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
)

// userWaitTimeout bounds how long Login waits for the provider's user
// snapshot to populate after session activation. The user-change
// notification is the primary mechanism; this is only a safety net.
const userWaitTimeout = 2 * time.Second

// authService bridges the asynchronously initializing identity provider
// into a synchronously queryable identity snapshot and owns the merge with
// locally stored preferences. It is constructed once at startup and passed
// explicitly; there is no package-level instance.
type authService struct {
	prefRepo portsrepo.PreferenceRepositoryFacade

	mu       sync.RWMutex
	provider portsprov.IdentityProvider
}

// NewAuthService creates a new AuthService. The identity provider is
// attached later via Initialize, once it has been constructed.
func NewAuthService(prefRepo portsrepo.PreferenceRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{prefRepo: prefRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Initialize attaches the provider handle. Repeated calls only refresh the
// handle; the bridge itself carries no other initialization state.
func (s *authService) Initialize(provider portsprov.IdentityProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
}

// State reports the bridge's view of provider readiness and session state.
func (s *authService) State() portssvc.AuthState {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil {
		return portssvc.AuthStateUninitialized
	}
	if !p.Readiness().Ready() {
		return portssvc.AuthStateLoading
	}
	user, err := p.GetUser(context.Background())
	if err != nil || user == nil {
		return portssvc.AuthStateUnauthenticated
	}
	return portssvc.AuthStateAuthenticated
}

// Login delegates credential verification to the provider and returns the
// normalized identity. Any pre-existing session is torn down first; the
// provider does not support overlapping sessions cleanly.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.ProviderUser, error) {
	p, err := s.readyProvider()
	if err != nil {
		return nil, err
	}

	s.ensureSignedOut(ctx, p)

	result, err := p.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
	}
	if result.Status != portsprov.StatusComplete {
		return nil, fmt.Errorf("%w: sign in returned status %q", apperrors.ErrAuthProvider, result.Status)
	}

	if err := p.SetActiveSession(ctx, result.SessionRef); err != nil {
		return nil, fmt.Errorf("%w: activating session: %v", apperrors.ErrAuthProvider, err)
	}

	return s.awaitUser(ctx, p)
}

// Register delegates account creation to the provider. A completed sign-up
// proceeds as login; verification-pending outcomes surface as
// apperrors.ErrEmailUnverified or apperrors.ErrVerificationRequired without
// marking the user as authenticated.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.ProviderUser, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	p, err := s.readyProvider()
	if err != nil {
		return nil, err
	}

	s.ensureSignedOut(ctx, p)

	result, err := p.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
	}

	switch result.Status {
	case portsprov.StatusComplete:
		if err := p.SetActiveSession(ctx, result.SessionRef); err != nil {
			return nil, fmt.Errorf("%w: activating session: %v", apperrors.ErrAuthProvider, err)
		}
		// Profile backfill is tolerated to fail; registration already
		// succeeded.
		if req.Name != "" || req.Surname != "" {
			if err := p.UpdateProfile(ctx, req.Name, req.Surname); err != nil {
				logger.Warn("Failed to update profile after sign up", slog.String("error", err.Error()))
			}
		}
		return &domain.ProviderUser{
			UserID:  result.CreatedUserID,
			Email:   req.Email,
			Name:    req.Name,
			Surname: req.Surname,
		}, nil

	case portsprov.StatusMissingRequirements:
		if result.EmailVerification == portsprov.VerificationEmailUnverified {
			return nil, apperrors.ErrEmailUnverified
		}
		if err := p.PrepareVerification(ctx); err != nil {
			logger.Warn("Failed to prepare email verification", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: sign up requires additional verification, please check your email", apperrors.ErrAuthProvider)
		}
		return nil, apperrors.ErrVerificationRequired

	default:
		return nil, fmt.Errorf("%w: sign up returned status %q, additional steps may be required", apperrors.ErrAuthProvider, result.Status)
	}
}

// VerifyEmail completes a pending registration with the emailed code.
func (s *authService) VerifyEmail(ctx context.Context, code string) (*domain.ProviderUser, error) {
	p, err := s.readyProvider()
	if err != nil {
		return nil, err
	}

	result, err := p.AttemptVerification(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
	}
	if result.Status != portsprov.StatusComplete {
		return nil, fmt.Errorf("%w: verification returned status %q", apperrors.ErrAuthProvider, result.Status)
	}

	if err := p.SetActiveSession(ctx, result.SessionRef); err != nil {
		return nil, fmt.Errorf("%w: activating session: %v", apperrors.ErrAuthProvider, err)
	}

	return s.awaitUser(ctx, p)
}

// Logout tears down the provider session. Best effort: failures are logged
// and never surfaced.
func (s *authService) Logout(ctx context.Context) {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()
	if p == nil {
		return
	}
	if err := p.SignOut(ctx); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Sign out failed", slog.String("error", err.Error()))
	}
}

// GetCurrentUser returns a synchronous snapshot of the provider user, or
// nil when the provider is not ready or has no user. It never errors.
func (s *authService) GetCurrentUser() *domain.ProviderUser {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil || !p.Readiness().Ready() {
		return nil
	}
	user, err := p.GetUser(context.Background())
	if err != nil {
		return nil
	}
	return user
}

// CheckAuthStatus is the reconciliation entry point used at startup and
// after auth state changes. It returns nil when the provider is not ready
// or has no session; otherwise the provider user merged with stored
// preferences.
func (s *authService) CheckAuthStatus(ctx context.Context) (*domain.UserIdentity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil || !p.Readiness().Ready() {
		return nil, nil
	}
	user, err := p.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
	}
	if user == nil {
		return nil, nil
	}

	// A failed preference read falls back to defaults rather than blocking
	// the identity snapshot; the error is logged. Preference reads here are
	// advisory; the write path owns the slot.
	prefs, err := s.prefRepo.ReadPreferences(ctx)
	if err != nil {
		logger.Error("Failed to read preferences, using defaults", slog.String("error", err.Error()))
		prefs = domain.Preferences{}
	}

	return mergeIdentity(user, prefs), nil
}

// UpdatePreferences shallow-merges the patch into stored preferences and
// persists them. Requires an authenticated session.
func (s *authService) UpdatePreferences(ctx context.Context, patch domain.PreferencesPatch) (*domain.UserIdentity, error) {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil || !p.Readiness().Ready() {
		return nil, apperrors.ErrNotAuthenticated
	}
	user, err := p.GetUser(ctx)
	if err != nil || user == nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	// Read errors are not recovered here: starting from defaults on a
	// transient failure would clobber stored preferences on write.
	prefs, err := s.prefRepo.ReadPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	merged := patch.Apply(prefs)
	if err := s.prefRepo.WritePreferences(ctx, merged); err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	return mergeIdentity(user, merged), nil
}

// readyProvider returns the provider handle once every subsystem is ready.
func (s *authService) readyProvider() (portsprov.IdentityProvider, error) {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil {
		return nil, fmt.Errorf("%w: identity bridge not initialized", apperrors.ErrProviderNotReady)
	}
	if !p.Readiness().Ready() {
		return nil, apperrors.ErrProviderNotReady
	}
	return p, nil
}

// ensureSignedOut tears down any pre-existing session before a new sign-in
// or sign-up attempt. Absence of a prior session is not an error.
func (s *authService) ensureSignedOut(ctx context.Context, p portsprov.IdentityProvider) {
	if err := p.SignOut(ctx); err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("Pre-auth sign out failed", slog.String("error", err.Error()))
	}
}

// awaitUser returns the provider's user snapshot, waiting on the provider's
// user-change notification when the snapshot has not populated yet. The
// wait is bounded by userWaitTimeout.
func (s *authService) awaitUser(ctx context.Context, p portsprov.IdentityProvider) (*domain.ProviderUser, error) {
	user, err := p.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
	}
	if user != nil {
		return user, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, userWaitTimeout)
	defer cancel()

	changed := p.UserChanged()
	for {
		select {
		case <-changed:
			user, err = p.GetUser(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
			}
			if user != nil {
				return user, nil
			}
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: user snapshot did not populate after sign in", apperrors.ErrAuthProvider)
		}
	}
}

// mergeIdentity assembles the unified snapshot: provider identity plus
// stored preferences. Name and surname always come from the provider so a
// partially populated merge can never lose them.
func mergeIdentity(user *domain.ProviderUser, prefs domain.Preferences) *domain.UserIdentity {
	return &domain.UserIdentity{
		UserID:      user.UserID,
		Email:       user.Email,
		Name:        user.Name,
		Surname:     user.Surname,
		Preferences: prefs,
	}
}
