package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsprov "github.com/mantrahq/mantra_journal_app/internal/core/ports/providers"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/core/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
)

// --- Mock PreferenceRepository ---

type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) ReadPreferences(ctx context.Context) (domain.Preferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *MockPreferenceRepository) WritePreferences(ctx context.Context, prefs domain.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

// --- Fake IdentityProvider (function fields, overridable per test) ---

type fakeProvider struct {
	mu        sync.Mutex
	readiness portsprov.Readiness
	user      *domain.ProviderUser
	changed   chan struct{}

	SignInFn              func(ctx context.Context, identifier, credential string) (*portsprov.SignInResult, error)
	SignUpFn              func(ctx context.Context, emailAddress, credential string) (*portsprov.SignUpResult, error)
	PrepareVerificationFn func(ctx context.Context) error
	AttemptVerificationFn func(ctx context.Context, code string) (*portsprov.SignUpResult, error)
	SetActiveSessionFn    func(ctx context.Context, sessionRef string) error
	UpdateProfileFn       func(ctx context.Context, name, surname string) error

	prepareCalls int
	signOutCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		readiness: portsprov.Readiness{SignIn: true, SignUp: true, Session: true, User: true},
		changed:   make(chan struct{}, 1),
	}
}

func (f *fakeProvider) setUser(u *domain.ProviderUser) {
	f.mu.Lock()
	f.user = u
	f.mu.Unlock()
	select {
	case f.changed <- struct{}{}:
	default:
	}
}

func (f *fakeProvider) Readiness() portsprov.Readiness {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readiness
}

func (f *fakeProvider) UserChanged() <-chan struct{} { return f.changed }

func (f *fakeProvider) SignIn(ctx context.Context, identifier, credential string) (*portsprov.SignInResult, error) {
	if f.SignInFn != nil {
		return f.SignInFn(ctx, identifier, credential)
	}
	return &portsprov.SignInResult{Status: portsprov.StatusComplete, SessionRef: "sess-1"}, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, emailAddress, credential string) (*portsprov.SignUpResult, error) {
	if f.SignUpFn != nil {
		return f.SignUpFn(ctx, emailAddress, credential)
	}
	return &portsprov.SignUpResult{Status: portsprov.StatusComplete, SessionRef: "sess-1", CreatedUserID: "user-1"}, nil
}

func (f *fakeProvider) PrepareVerification(ctx context.Context) error {
	f.mu.Lock()
	f.prepareCalls++
	f.mu.Unlock()
	if f.PrepareVerificationFn != nil {
		return f.PrepareVerificationFn(ctx)
	}
	return nil
}

func (f *fakeProvider) AttemptVerification(ctx context.Context, code string) (*portsprov.SignUpResult, error) {
	if f.AttemptVerificationFn != nil {
		return f.AttemptVerificationFn(ctx, code)
	}
	return &portsprov.SignUpResult{Status: portsprov.StatusComplete, SessionRef: "sess-1", CreatedUserID: "user-1"}, nil
}

func (f *fakeProvider) SetActiveSession(ctx context.Context, sessionRef string) error {
	if f.SetActiveSessionFn != nil {
		return f.SetActiveSessionFn(ctx, sessionRef)
	}
	return nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	f.mu.Unlock()
	f.setUser(nil)
	return nil
}

func (f *fakeProvider) GetUser(ctx context.Context) (*domain.ProviderUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeProvider) UpdateProfile(ctx context.Context, name, surname string) error {
	if f.UpdateProfileFn != nil {
		return f.UpdateProfileFn(ctx, name, surname)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user != nil {
		f.user.Name = name
		f.user.Surname = surname
	}
	return nil
}

var _ portsprov.IdentityProvider = (*fakeProvider)(nil)

// --- Test Suite ---

type AuthServiceTestSuite struct {
	suite.Suite
	mockPrefRepo *MockPreferenceRepository
	provider     *fakeProvider
	service      portssvc.AuthSvcFacade
	ctx          context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockPrefRepo = new(MockPreferenceRepository)
	suite.provider = newFakeProvider()
	suite.service = services.NewAuthService(suite.mockPrefRepo)
	suite.ctx = context.Background()
}

// --- State ---

func (suite *AuthServiceTestSuite) TestStateUninitialized() {
	suite.Equal(portssvc.AuthStateUninitialized, suite.service.State())
}

func (suite *AuthServiceTestSuite) TestStateLoadingUntilAllSubsystemsReady() {
	suite.provider.readiness = portsprov.Readiness{SignIn: true, SignUp: true, Session: true, User: false}
	suite.service.Initialize(suite.provider)
	suite.Equal(portssvc.AuthStateLoading, suite.service.State())

	suite.provider.mu.Lock()
	suite.provider.readiness = portsprov.Readiness{SignIn: true, SignUp: true, Session: true, User: true}
	suite.provider.mu.Unlock()
	suite.Equal(portssvc.AuthStateUnauthenticated, suite.service.State())
}

func (suite *AuthServiceTestSuite) TestStateAuthenticated() {
	suite.service.Initialize(suite.provider)
	suite.provider.setUser(&domain.ProviderUser{UserID: "user-1"})
	suite.Equal(portssvc.AuthStateAuthenticated, suite.service.State())
}

// --- Login ---

func (suite *AuthServiceTestSuite) TestLoginRequiresReadyProvider() {
	suite.provider.readiness = portsprov.Readiness{}
	suite.service.Initialize(suite.provider)

	user, err := suite.service.Login(suite.ctx, "a@b.com", "pw")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProviderNotReady)
	suite.Nil(user)
}

func (suite *AuthServiceTestSuite) TestLoginWaitsForUserSnapshot() {
	suite.service.Initialize(suite.provider)

	expected := &domain.ProviderUser{UserID: "user-1", Email: "a@b.com", Name: "Ada"}
	suite.provider.SetActiveSessionFn = func(ctx context.Context, sessionRef string) error {
		suite.Equal("sess-1", sessionRef)
		// The snapshot populates shortly after activation, not synchronously.
		go func() {
			time.Sleep(20 * time.Millisecond)
			suite.provider.setUser(expected)
		}()
		return nil
	}

	user, err := suite.service.Login(suite.ctx, "a@b.com", "pw")

	suite.Require().NoError(err)
	suite.Equal(expected, user)
	// A pre-existing session is always torn down first.
	suite.GreaterOrEqual(suite.provider.signOutCalls, 1)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsIncompleteAttempt() {
	suite.service.Initialize(suite.provider)
	suite.provider.SignInFn = func(ctx context.Context, identifier, credential string) (*portsprov.SignInResult, error) {
		return &portsprov.SignInResult{Status: portsprov.StatusMissingRequirements}, nil
	}

	user, err := suite.service.Login(suite.ctx, "a@b.com", "pw")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthProvider)
	suite.Nil(user)
}

func (suite *AuthServiceTestSuite) TestLoginInvalidCredentials() {
	suite.service.Initialize(suite.provider)
	suite.provider.SignInFn = func(ctx context.Context, identifier, credential string) (*portsprov.SignInResult, error) {
		return nil, errors.New("invalid email or password")
	}

	user, err := suite.service.Login(suite.ctx, "a@b.com", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthProvider)
	suite.Nil(user)
}

// --- Register ---

func (suite *AuthServiceTestSuite) TestRegisterCompleteBackfillsProfile() {
	suite.service.Initialize(suite.provider)

	var gotName, gotSurname string
	suite.provider.UpdateProfileFn = func(ctx context.Context, name, surname string) error {
		gotName, gotSurname = name, surname
		return nil
	}

	user, err := suite.service.Register(suite.ctx, dto.RegisterRequest{
		Email:    "new@b.com",
		Password: "long-enough",
		Name:     "Ada",
		Surname:  "Lovelace",
	})

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
	suite.Equal("new@b.com", user.Email)
	suite.Equal("Ada", gotName)
	suite.Equal("Lovelace", gotSurname)
}

func (suite *AuthServiceTestSuite) TestRegisterEmailLinkPending() {
	suite.service.Initialize(suite.provider)
	suite.provider.SignUpFn = func(ctx context.Context, emailAddress, credential string) (*portsprov.SignUpResult, error) {
		return &portsprov.SignUpResult{
			Status:            portsprov.StatusMissingRequirements,
			EmailVerification: portsprov.VerificationEmailUnverified,
		}, nil
	}

	user, err := suite.service.Register(suite.ctx, dto.RegisterRequest{Email: "new@b.com", Password: "long-enough"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmailUnverified)
	suite.Nil(user)
	// No code flow is started for link-based verification.
	suite.Zero(suite.provider.prepareCalls)
}

func (suite *AuthServiceTestSuite) TestRegisterCodeVerificationPending() {
	suite.service.Initialize(suite.provider)
	suite.provider.SignUpFn = func(ctx context.Context, emailAddress, credential string) (*portsprov.SignUpResult, error) {
		return &portsprov.SignUpResult{Status: portsprov.StatusMissingRequirements}, nil
	}

	user, err := suite.service.Register(suite.ctx, dto.RegisterRequest{Email: "new@b.com", Password: "long-enough"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrVerificationRequired)
	suite.Nil(user)
	suite.Equal(1, suite.provider.prepareCalls)
}

// --- VerifyEmail ---

func (suite *AuthServiceTestSuite) TestVerifyEmailCompletesRegistration() {
	suite.service.Initialize(suite.provider)

	expected := &domain.ProviderUser{UserID: "user-1", Email: "new@b.com"}
	suite.provider.SetActiveSessionFn = func(ctx context.Context, sessionRef string) error {
		suite.provider.setUser(expected)
		return nil
	}

	user, err := suite.service.VerifyEmail(suite.ctx, "123456")

	suite.Require().NoError(err)
	suite.Equal(expected, user)
}

func (suite *AuthServiceTestSuite) TestVerifyEmailWrongCode() {
	suite.service.Initialize(suite.provider)
	suite.provider.AttemptVerificationFn = func(ctx context.Context, code string) (*portsprov.SignUpResult, error) {
		return nil, errors.New("incorrect verification code")
	}

	user, err := suite.service.VerifyEmail(suite.ctx, "000000")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthProvider)
	suite.Nil(user)
}

// --- CheckAuthStatus ---

func (suite *AuthServiceTestSuite) TestCheckAuthStatusWhileLoading() {
	suite.provider.readiness = portsprov.Readiness{}
	suite.service.Initialize(suite.provider)

	identity, err := suite.service.CheckAuthStatus(suite.ctx)

	suite.Require().NoError(err)
	suite.Nil(identity)
}

func (suite *AuthServiceTestSuite) TestCheckAuthStatusUnauthenticated() {
	suite.service.Initialize(suite.provider)

	identity, err := suite.service.CheckAuthStatus(suite.ctx)

	suite.Require().NoError(err)
	suite.Nil(identity)
	suite.mockPrefRepo.AssertNotCalled(suite.T(), "ReadPreferences", mock.Anything)
}

func (suite *AuthServiceTestSuite) TestCheckAuthStatusMergesPreferences() {
	suite.service.Initialize(suite.provider)
	suite.provider.setUser(&domain.ProviderUser{UserID: "user-1", Email: "a@b.com", Name: "Ada", Surname: "Lovelace"})

	prefs := domain.Preferences{Categories: []int{1, 4}, Focus: "leadership", NotificationTime: "08:00"}
	suite.mockPrefRepo.On("ReadPreferences", suite.ctx).Return(prefs, nil).Once()

	identity, err := suite.service.CheckAuthStatus(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(identity)
	suite.Equal("user-1", identity.UserID)
	suite.Equal("Ada", identity.Name)
	suite.Equal("Lovelace", identity.Surname)
	suite.Equal(prefs, identity.Preferences)
}

func (suite *AuthServiceTestSuite) TestCheckAuthStatusPreferenceReadFailureFallsBack() {
	suite.service.Initialize(suite.provider)
	suite.provider.setUser(&domain.ProviderUser{UserID: "user-1", Name: "Ada"})

	suite.mockPrefRepo.On("ReadPreferences", suite.ctx).Return(domain.Preferences{}, apperrors.ErrStorageRead).Once()

	identity, err := suite.service.CheckAuthStatus(suite.ctx)

	// Identity survives a preference read failure; preferences fall back to
	// defaults.
	suite.Require().NoError(err)
	suite.Require().NotNil(identity)
	suite.Equal("Ada", identity.Name)
	suite.Equal(domain.Preferences{}, identity.Preferences)
}

// --- UpdatePreferences ---

func (suite *AuthServiceTestSuite) TestUpdatePreferencesRequiresSession() {
	suite.service.Initialize(suite.provider)

	focus := "leadership"
	identity, err := suite.service.UpdatePreferences(suite.ctx, domain.PreferencesPatch{Focus: &focus})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAuthenticated)
	suite.Nil(identity)
}

func (suite *AuthServiceTestSuite) TestUpdatePreferencesShallowMerge() {
	suite.service.Initialize(suite.provider)
	suite.provider.setUser(&domain.ProviderUser{UserID: "user-1", Name: "Ada"})

	stored := domain.Preferences{Categories: []int{1}, Focus: "leadership", NotificationTime: "08:00"}
	suite.mockPrefRepo.On("ReadPreferences", suite.ctx).Return(stored, nil).Once()

	focus := "productivity"
	expected := domain.Preferences{Categories: []int{1}, Focus: "productivity", NotificationTime: "08:00"}
	suite.mockPrefRepo.On("WritePreferences", suite.ctx, expected).Return(nil).Once()

	identity, err := suite.service.UpdatePreferences(suite.ctx, domain.PreferencesPatch{Focus: &focus})

	suite.Require().NoError(err)
	suite.Require().NotNil(identity)
	// Omitted fields are untouched, the patched field wins, and the
	// provider's name survives the merge.
	suite.Equal(expected, identity.Preferences)
	suite.Equal("Ada", identity.Name)
	suite.mockPrefRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestUpdatePreferencesReadFailurePropagates() {
	suite.service.Initialize(suite.provider)
	suite.provider.setUser(&domain.ProviderUser{UserID: "user-1"})

	suite.mockPrefRepo.On("ReadPreferences", suite.ctx).Return(domain.Preferences{}, apperrors.ErrStorageRead).Once()

	focus := "leadership"
	identity, err := suite.service.UpdatePreferences(suite.ctx, domain.PreferencesPatch{Focus: &focus})

	// Starting from defaults on a transient read failure would clobber the
	// stored slot, so the error propagates instead.
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStorageRead)
	suite.Nil(identity)
	suite.mockPrefRepo.AssertNotCalled(suite.T(), "WritePreferences", mock.Anything, mock.Anything)
}

// --- Logout / GetCurrentUser ---

func (suite *AuthServiceTestSuite) TestLogoutClearsSession() {
	suite.service.Initialize(suite.provider)
	suite.provider.setUser(&domain.ProviderUser{UserID: "user-1"})

	suite.service.Logout(suite.ctx)

	suite.Nil(suite.service.GetCurrentUser())
	suite.Equal(portssvc.AuthStateUnauthenticated, suite.service.State())
}

func (suite *AuthServiceTestSuite) TestGetCurrentUserNeverErrors() {
	suite.Nil(suite.service.GetCurrentUser())

	suite.provider.readiness = portsprov.Readiness{}
	suite.service.Initialize(suite.provider)
	suite.Nil(suite.service.GetCurrentUser())
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
