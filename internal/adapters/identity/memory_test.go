package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantrahq/mantra_journal_app/internal/adapters/identity"
	portsprov "github.com/mantrahq/mantra_journal_app/internal/core/ports/providers"
)

func TestMemoryProviderSignInFlow(t *testing.T) {
	p := identity.NewMemoryProvider(
		identity.WithSeedUser("ada@example.com", "correct-horse", "Ada", "Lovelace"),
	)
	ctx := context.Background()

	require.True(t, p.Readiness().Ready())

	result, err := p.SignIn(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, portsprov.StatusComplete, result.Status)
	require.NotEmpty(t, result.SessionRef)

	// No user snapshot until the session is activated.
	user, err := p.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, p.SetActiveSession(ctx, result.SessionRef))

	user, err = p.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
}

func TestMemoryProviderRejectsBadCredentials(t *testing.T) {
	p := identity.NewMemoryProvider(
		identity.WithSeedUser("ada@example.com", "correct-horse", "Ada", "Lovelace"),
	)
	ctx := context.Background()

	_, err := p.SignIn(ctx, "ada@example.com", "wrong")
	assert.Error(t, err)

	_, err = p.SignIn(ctx, "nobody@example.com", "correct-horse")
	assert.Error(t, err)
}

func TestMemoryProviderSignUpWithCodeVerification(t *testing.T) {
	p := identity.NewMemoryProvider(identity.WithRequireEmailVerification())
	ctx := context.Background()

	result, err := p.SignUp(ctx, "new@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, portsprov.StatusMissingRequirements, result.Status)
	assert.Empty(t, result.EmailVerification)

	require.NoError(t, p.PrepareVerification(ctx))
	code := p.LastVerificationCode()
	require.Len(t, code, 6)

	_, err = p.AttemptVerification(ctx, "000000x")
	assert.Error(t, err)

	completed, err := p.AttemptVerification(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, portsprov.StatusComplete, completed.Status)
	require.NotEmpty(t, completed.SessionRef)

	require.NoError(t, p.SetActiveSession(ctx, completed.SessionRef))
	user, err := p.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestMemoryProviderEmailLinkMode(t *testing.T) {
	p := identity.NewMemoryProvider(identity.WithEmailLinkVerification())

	result, err := p.SignUp(context.Background(), "new@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, portsprov.StatusMissingRequirements, result.Status)
	assert.Equal(t, portsprov.VerificationEmailUnverified, result.EmailVerification)
}

func TestMemoryProviderRejectsDuplicateEmail(t *testing.T) {
	p := identity.NewMemoryProvider(
		identity.WithSeedUser("ada@example.com", "correct-horse", "Ada", "Lovelace"),
	)

	_, err := p.SignUp(context.Background(), "Ada@Example.com", "long-enough")
	assert.Error(t, err)
}

func TestMemoryProviderAsyncInit(t *testing.T) {
	p := identity.NewMemoryProvider(identity.WithInitDelay(10 * time.Millisecond))

	assert.False(t, p.Readiness().Ready())
	require.Eventually(t, func() bool {
		return p.Readiness().Ready()
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryProviderDeferredUserPopulation(t *testing.T) {
	p := identity.NewMemoryProvider(
		identity.WithSeedUser("ada@example.com", "correct-horse", "Ada", "Lovelace"),
		identity.WithUserPopulateDelay(10*time.Millisecond),
	)
	ctx := context.Background()

	result, err := p.SignIn(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, p.SetActiveSession(ctx, result.SessionRef))

	// Activation returns before the snapshot populates; the change channel
	// signals once it does.
	user, err := p.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	select {
	case <-p.UserChanged():
	case <-time.After(time.Second):
		t.Fatal("user change notification never arrived")
	}

	user, err = p.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)
}

func TestMemoryProviderSignOut(t *testing.T) {
	p := identity.NewMemoryProvider(
		identity.WithSeedUser("ada@example.com", "correct-horse", "Ada", "Lovelace"),
	)
	ctx := context.Background()

	result, err := p.SignIn(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, p.SetActiveSession(ctx, result.SessionRef))

	require.NoError(t, p.SignOut(ctx))

	user, err := p.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	// Signing out without a session errors; callers treat it as benign.
	assert.Error(t, p.SignOut(ctx))
}
