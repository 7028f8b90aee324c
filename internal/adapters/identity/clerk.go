package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portsprov "github.com/mantrahq/mantra_journal_app/internal/core/ports/providers"
)

const (
	clerkRequestTimeout = 10 * time.Second
	clerkRetryInterval  = 2 * time.Second
)

// ClerkProvider talks to a Clerk-compatible frontend API over HTTP. It
// caches the client state (sessions and user snapshot) so that GetUser is a
// cheap in-memory read, and refreshes the cache after every mutating call.
type ClerkProvider struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
	logger         *slog.Logger

	mu        sync.Mutex
	readiness portsprov.Readiness
	user      *domain.ProviderUser
	signUpRef string // in-flight sign-up attempt for verification calls

	userChanged chan struct{}
}

// NewClerkProvider creates the HTTP adapter and starts a background fetch
// of the client state. The provider reports unready until the first fetch
// succeeds.
func NewClerkProvider(baseURL, publishableKey string, logger *slog.Logger) *ClerkProvider {
	p := &ClerkProvider{
		baseURL:        strings.TrimRight(baseURL, "/"),
		publishableKey: publishableKey,
		httpClient:     &http.Client{Timeout: clerkRequestTimeout},
		logger:         logger,
		userChanged:    make(chan struct{}, 1),
	}
	go p.initClient()
	return p
}

var _ portsprov.IdentityProvider = (*ClerkProvider)(nil)

// initClient fetches the client state until it succeeds, then flips every
// subsystem ready.
func (p *ClerkProvider) initClient() {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), clerkRequestTimeout)
		err := p.refreshClient(ctx)
		cancel()
		if err == nil {
			p.mu.Lock()
			p.readiness = portsprov.Readiness{SignIn: true, SignUp: true, Session: true, User: true}
			p.mu.Unlock()
			p.notifyUserChanged()
			return
		}
		p.logger.Warn("identity provider not reachable yet, retrying", "error", err)
		time.Sleep(clerkRetryInterval)
	}
}

// Readiness reports the current subsystem readiness flags.
func (p *ClerkProvider) Readiness() portsprov.Readiness {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readiness
}

// UserChanged returns the user snapshot notification channel.
func (p *ClerkProvider) UserChanged() <-chan struct{} {
	return p.userChanged
}

type clerkVerification struct {
	Status string `json:"status"`
}

type clerkAttempt struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	CreatedSessionID string `json:"created_session_id"`
	CreatedUserID    string `json:"created_user_id"`
	Verifications    struct {
		EmailAddress clerkVerification `json:"email_address"`
	} `json:"verifications"`
}

type clerkEnvelope struct {
	Response json.RawMessage `json:"response"`
	Client   json.RawMessage `json:"client"`
	Errors   []struct {
		Message     string `json:"message"`
		LongMessage string `json:"long_message"`
	} `json:"errors"`
}

type clerkUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

type clerkClientState struct {
	Sessions []struct {
		ID     string    `json:"id"`
		Status string    `json:"status"`
		User   clerkUser `json:"user"`
	} `json:"sessions"`
	LastActiveSessionID string `json:"last_active_session_id"`
}

// SignIn posts a password sign-in attempt.
func (p *ClerkProvider) SignIn(ctx context.Context, identifier, credential string) (*portsprov.SignInResult, error) {
	form := url.Values{
		"identifier": {identifier},
		"password":   {credential},
		"strategy":   {"password"},
	}
	attempt, err := p.postAttempt(ctx, "/v1/client/sign_ins", form)
	if err != nil {
		return nil, err
	}
	return &portsprov.SignInResult{
		Status:     portsprov.AttemptStatus(attempt.Status),
		SessionRef: attempt.CreatedSessionID,
	}, nil
}

// SignUp posts a sign-up attempt and remembers its reference for the
// verification calls that may follow.
func (p *ClerkProvider) SignUp(ctx context.Context, emailAddress, credential string) (*portsprov.SignUpResult, error) {
	form := url.Values{
		"email_address": {emailAddress},
		"password":      {credential},
	}
	attempt, err := p.postAttempt(ctx, "/v1/client/sign_ups", form)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.signUpRef = attempt.ID
	p.mu.Unlock()

	return &portsprov.SignUpResult{
		Status:            portsprov.AttemptStatus(attempt.Status),
		SessionRef:        attempt.CreatedSessionID,
		CreatedUserID:     attempt.CreatedUserID,
		EmailVerification: attempt.Verifications.EmailAddress.Status,
	}, nil
}

// PrepareVerification asks the provider to email a code for the in-flight
// sign-up.
func (p *ClerkProvider) PrepareVerification(ctx context.Context) error {
	p.mu.Lock()
	ref := p.signUpRef
	p.mu.Unlock()
	if ref == "" {
		return errors.New("no sign up in progress")
	}

	form := url.Values{"strategy": {"email_code"}}
	_, err := p.postAttempt(ctx, "/v1/client/sign_ups/"+ref+"/prepare_verification", form)
	return err
}

// AttemptVerification submits the emailed code for the in-flight sign-up.
func (p *ClerkProvider) AttemptVerification(ctx context.Context, code string) (*portsprov.SignUpResult, error) {
	p.mu.Lock()
	ref := p.signUpRef
	p.mu.Unlock()
	if ref == "" {
		return nil, errors.New("no sign up in progress")
	}

	form := url.Values{
		"strategy": {"email_code"},
		"code":     {code},
	}
	attempt, err := p.postAttempt(ctx, "/v1/client/sign_ups/"+ref+"/attempt_verification", form)
	if err != nil {
		return nil, err
	}

	if attempt.Status == string(portsprov.StatusComplete) {
		p.mu.Lock()
		p.signUpRef = ""
		p.mu.Unlock()
	}

	return &portsprov.SignUpResult{
		Status:            portsprov.AttemptStatus(attempt.Status),
		SessionRef:        attempt.CreatedSessionID,
		CreatedUserID:     attempt.CreatedUserID,
		EmailVerification: attempt.Verifications.EmailAddress.Status,
	}, nil
}

// SetActiveSession touches the session on the provider and refreshes the
// cached user snapshot.
func (p *ClerkProvider) SetActiveSession(ctx context.Context, sessionRef string) error {
	form := url.Values{"active": {"true"}}
	if _, err := p.doRequest(ctx, http.MethodPost, "/v1/client/sessions/"+sessionRef+"/touch", form); err != nil {
		return err
	}
	return p.refreshClient(ctx)
}

// SignOut removes all sessions from the client and clears the cached user.
func (p *ClerkProvider) SignOut(ctx context.Context) error {
	if _, err := p.doRequest(ctx, http.MethodDelete, "/v1/client/sessions", nil); err != nil {
		return err
	}

	p.mu.Lock()
	p.user = nil
	p.mu.Unlock()
	p.notifyUserChanged()
	return nil
}

// GetUser returns the cached user snapshot, or nil when no session is
// active.
func (p *ClerkProvider) GetUser(ctx context.Context) (*domain.ProviderUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil, nil
	}
	snapshot := *p.user
	return &snapshot, nil
}

// UpdateProfile patches the first/last name on the current user and
// refreshes the cache.
func (p *ClerkProvider) UpdateProfile(ctx context.Context, name, surname string) error {
	p.mu.Lock()
	hasUser := p.user != nil
	p.mu.Unlock()
	if !hasUser {
		return errors.New("no active session")
	}

	form := url.Values{
		"first_name": {name},
		"last_name":  {surname},
	}
	if _, err := p.doRequest(ctx, http.MethodPatch, "/v1/me", form); err != nil {
		return err
	}
	return p.refreshClient(ctx)
}

// refreshClient fetches /v1/client and updates the cached user snapshot
// from the active session.
func (p *ClerkProvider) refreshClient(ctx context.Context) error {
	body, err := p.doRequest(ctx, http.MethodGet, "/v1/client", nil)
	if err != nil {
		return err
	}

	var state clerkClientState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("%w: decoding client state: %v", apperrors.ErrAuthProvider, err)
	}

	var user *domain.ProviderUser
	for _, sess := range state.Sessions {
		if sess.Status != "active" {
			continue
		}
		if state.LastActiveSessionID != "" && sess.ID != state.LastActiveSessionID {
			continue
		}
		u := domain.ProviderUser{
			UserID:  sess.User.ID,
			Name:    sess.User.FirstName,
			Surname: sess.User.LastName,
		}
		if len(sess.User.EmailAddresses) > 0 {
			u.Email = sess.User.EmailAddresses[0].EmailAddress
		}
		user = &u
		break
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	p.notifyUserChanged()
	return nil
}

// postAttempt posts a form and decodes the attempt object from the
// response envelope.
func (p *ClerkProvider) postAttempt(ctx context.Context, path string, form url.Values) (*clerkAttempt, error) {
	body, err := p.doRequest(ctx, http.MethodPost, path, form)
	if err != nil {
		return nil, err
	}
	var attempt clerkAttempt
	if err := json.Unmarshal(body, &attempt); err != nil {
		return nil, fmt.Errorf("%w: decoding attempt: %v", apperrors.ErrAuthProvider, err)
	}
	return &attempt, nil
}

// doRequest performs one HTTP call and returns the payload from the
// response envelope, mapping provider errors to ErrAuthProvider.
func (p *ClerkProvider) doRequest(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	endpoint := p.baseURL + path + "?_is_native=true"

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if p.publishableKey != "" {
		req.Header.Set("Authorization", p.publishableKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", apperrors.ErrAuthProvider, err)
	}

	var envelope clerkEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", apperrors.ErrAuthProvider, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if len(envelope.Errors) > 0 {
			msg := envelope.Errors[0].LongMessage
			if msg == "" {
				msg = envelope.Errors[0].Message
			}
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAuthProvider, msg)
		}
		return nil, fmt.Errorf("%w: unexpected status %d", apperrors.ErrAuthProvider, resp.StatusCode)
	}

	if len(envelope.Response) > 0 {
		return envelope.Response, nil
	}
	return raw, nil
}

func (p *ClerkProvider) notifyUserChanged() {
	select {
	case p.userChanged <- struct{}{}:
	default:
	}
}
