// Package identity provides adapters for the external identity provider
// boundary: an in-process provider for development and tests, and an HTTP
// client for a Clerk-compatible frontend API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsprov "github.com/mantrahq/mantra_journal_app/internal/core/ports/providers"
	"github.com/mantrahq/mantra_journal_app/internal/utils"
)

type memoryUser struct {
	userID       string
	email        string
	name         string
	surname      string
	passwordHash string
}

type pendingSignUp struct {
	email        string
	passwordHash string
	code         string
	prepared     bool
}

// MemoryProvider is an in-process identity provider with bcrypt-hashed
// credentials. It simulates the asynchronous initialization and deferred
// user population of a real provider.
type MemoryProvider struct {
	mu        sync.Mutex
	readiness portsprov.Readiness
	users     map[string]*memoryUser // keyed by lowercased email
	sessions  map[string]string      // session ref -> user ID
	current   *memoryUser
	pending   *pendingSignUp

	requireVerification bool
	emailLinkMode       bool
	initDelay           time.Duration
	populateDelay       time.Duration

	userChanged chan struct{}
}

// MemoryOption configures a MemoryProvider.
type MemoryOption func(*MemoryProvider)

// WithSeedUser preloads an account; password is stored bcrypt-hashed.
func WithSeedUser(email, password, name, surname string) MemoryOption {
	return func(p *MemoryProvider) {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return
		}
		p.users[strings.ToLower(email)] = &memoryUser{
			userID:       uuid.NewString(),
			email:        email,
			name:         name,
			surname:      surname,
			passwordHash: hash,
		}
	}
}

// WithRequireEmailVerification makes sign-ups return missing_requirements
// until a verification code is accepted.
func WithRequireEmailVerification() MemoryOption {
	return func(p *MemoryProvider) { p.requireVerification = true }
}

// WithEmailLinkVerification makes pending sign-ups report the "unverified"
// email sub-state (link-based verification already sent) instead of
// offering a code flow.
func WithEmailLinkVerification() MemoryOption {
	return func(p *MemoryProvider) {
		p.requireVerification = true
		p.emailLinkMode = true
	}
}

// WithInitDelay starts the provider unready and flips every subsystem ready
// after the delay, simulating asynchronous provider initialization.
func WithInitDelay(d time.Duration) MemoryOption {
	return func(p *MemoryProvider) { p.initDelay = d }
}

// WithUserPopulateDelay defers the user snapshot after session activation,
// simulating a provider whose user subsystem lags the session.
func WithUserPopulateDelay(d time.Duration) MemoryOption {
	return func(p *MemoryProvider) { p.populateDelay = d }
}

// NewMemoryProvider creates an in-process provider. Without WithInitDelay
// it starts with every subsystem ready.
func NewMemoryProvider(opts ...MemoryOption) *MemoryProvider {
	p := &MemoryProvider{
		users:       make(map[string]*memoryUser),
		sessions:    make(map[string]string),
		userChanged: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.initDelay > 0 {
		go func() {
			time.Sleep(p.initDelay)
			p.SetReadiness(portsprov.Readiness{SignIn: true, SignUp: true, Session: true, User: true})
		}()
	} else {
		p.readiness = portsprov.Readiness{SignIn: true, SignUp: true, Session: true, User: true}
	}
	return p
}

var _ portsprov.IdentityProvider = (*MemoryProvider)(nil)

// SetReadiness overrides the subsystem readiness flags. Intended for tests
// and the simulated initialization.
func (p *MemoryProvider) SetReadiness(r portsprov.Readiness) {
	p.mu.Lock()
	p.readiness = r
	p.mu.Unlock()
	p.notifyUserChanged()
}

// Readiness reports the current subsystem readiness flags.
func (p *MemoryProvider) Readiness() portsprov.Readiness {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readiness
}

// UserChanged returns the user snapshot notification channel.
func (p *MemoryProvider) UserChanged() <-chan struct{} {
	return p.userChanged
}

// SignIn verifies credentials and returns a pending session reference.
func (p *MemoryProvider) SignIn(ctx context.Context, identifier, credential string) (*portsprov.SignInResult, error) {
	p.mu.Lock()
	user, ok := p.users[strings.ToLower(identifier)]
	p.mu.Unlock()

	if !ok || !utils.CheckPasswordHash(credential, user.passwordHash) {
		return nil, errors.New("invalid email or password")
	}

	sessionRef, err := newSessionRef()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.sessions[sessionRef] = user.userID
	p.mu.Unlock()

	return &portsprov.SignInResult{Status: portsprov.StatusComplete, SessionRef: sessionRef}, nil
}

// SignUp creates an account, or a pending sign-up when verification is
// required.
func (p *MemoryProvider) SignUp(ctx context.Context, emailAddress, credential string) (*portsprov.SignUpResult, error) {
	key := strings.ToLower(emailAddress)

	p.mu.Lock()
	_, exists := p.users[key]
	p.mu.Unlock()
	if exists {
		return nil, errors.New("email already in use")
	}

	hash, err := utils.HashPassword(credential)
	if err != nil {
		return nil, fmt.Errorf("hashing credential: %w", err)
	}

	if p.requireVerification {
		p.mu.Lock()
		p.pending = &pendingSignUp{email: emailAddress, passwordHash: hash}
		p.mu.Unlock()
		result := &portsprov.SignUpResult{Status: portsprov.StatusMissingRequirements}
		if p.emailLinkMode {
			result.EmailVerification = portsprov.VerificationEmailUnverified
		}
		return result, nil
	}

	user := &memoryUser{
		userID:       uuid.NewString(),
		email:        emailAddress,
		passwordHash: hash,
	}
	sessionRef, err := newSessionRef()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.users[key] = user
	p.sessions[sessionRef] = user.userID
	p.mu.Unlock()

	return &portsprov.SignUpResult{
		Status:        portsprov.StatusComplete,
		SessionRef:    sessionRef,
		CreatedUserID: user.userID,
	}, nil
}

// PrepareVerification generates the email code for the pending sign-up.
func (p *MemoryProvider) PrepareVerification(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return errors.New("no pending sign up")
	}
	code, err := utils.GenerateNumericCode(6)
	if err != nil {
		return err
	}
	p.pending.code = code
	p.pending.prepared = true
	return nil
}

// AttemptVerification completes the pending sign-up when the code matches.
func (p *MemoryProvider) AttemptVerification(ctx context.Context, code string) (*portsprov.SignUpResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending == nil || !p.pending.prepared {
		return nil, errors.New("no verification in progress")
	}
	if p.pending.code != code {
		return nil, errors.New("incorrect verification code")
	}

	user := &memoryUser{
		userID:       uuid.NewString(),
		email:        p.pending.email,
		passwordHash: p.pending.passwordHash,
	}
	sessionRef, err := newSessionRef()
	if err != nil {
		return nil, err
	}
	p.users[strings.ToLower(user.email)] = user
	p.sessions[sessionRef] = user.userID
	p.pending = nil

	return &portsprov.SignUpResult{
		Status:        portsprov.StatusComplete,
		SessionRef:    sessionRef,
		CreatedUserID: user.userID,
	}, nil
}

// LastVerificationCode exposes the pending code for development and tests;
// a real provider delivers it by email.
func (p *MemoryProvider) LastVerificationCode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return ""
	}
	return p.pending.code
}

// SetActiveSession activates a session reference. The user snapshot
// populates after the configured delay.
func (p *MemoryProvider) SetActiveSession(ctx context.Context, sessionRef string) error {
	p.mu.Lock()
	userID, ok := p.sessions[sessionRef]
	if !ok {
		p.mu.Unlock()
		return errors.New("unknown session")
	}
	var user *memoryUser
	for _, u := range p.users {
		if u.userID == userID {
			user = u
			break
		}
	}
	p.mu.Unlock()
	if user == nil {
		return errors.New("session user not found")
	}

	if p.populateDelay > 0 {
		go func() {
			time.Sleep(p.populateDelay)
			p.setCurrent(user)
		}()
		return nil
	}
	p.setCurrent(user)
	return nil
}

// SignOut tears down the active session. Errors when none is active;
// callers treat that as benign.
func (p *MemoryProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	hadSession := p.current != nil
	p.current = nil
	p.mu.Unlock()
	p.notifyUserChanged()
	if !hadSession {
		return errors.New("no active session")
	}
	return nil
}

// GetUser returns the current user snapshot, or nil when no session is
// active.
func (p *MemoryProvider) GetUser(ctx context.Context) (*domain.ProviderUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	return &domain.ProviderUser{
		UserID:  p.current.userID,
		Email:   p.current.email,
		Name:    p.current.name,
		Surname: p.current.surname,
	}, nil
}

// UpdateProfile sets the first/last name on the current user.
func (p *MemoryProvider) UpdateProfile(ctx context.Context, name, surname string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return errors.New("no active session")
	}
	p.current.name = name
	p.current.surname = surname
	return nil
}

func (p *MemoryProvider) setCurrent(user *memoryUser) {
	p.mu.Lock()
	p.current = user
	p.mu.Unlock()
	p.notifyUserChanged()
}

// newSessionRef mints an opaque session reference. Session refs are
// bearer-like within the provider, so they come from crypto/rand rather
// than the uuid generator used for entity IDs.
func newSessionRef() (string, error) {
	ref, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("minting session ref: %w", err)
	}
	return ref, nil
}

func (p *MemoryProvider) notifyUserChanged() {
	select {
	case p.userChanged <- struct{}{}:
	default:
	}
}
