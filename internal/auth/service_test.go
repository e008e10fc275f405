package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloakchat/internal/config"
	"cloakchat/internal/domain"
	"cloakchat/internal/store/sqlstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := sqlstore.New("sqlite3", ":memory:")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(st, logger, config.AuthConfig{BcryptCost: 4, MinPasswordLen: 6})
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "alice@x.com", "secret1", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Same username, different email.
	_, err = svc.Register(ctx, "alice", "other@x.com", "secret2", "Alice2")
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	// Same email, different username.
	_, err = svc.Register(ctx, "alice2", "alice@x.com", "secret2", "Alice2")
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name                               string
		username, email, password, display string
	}{
		{"short password", "alice", "alice@x.com", "five5", "Alice"},
		{"bad email", "alice", "not-an-email", "secret1", "Alice"},
		{"bad username", "a", "alice@x.com", "secret1", "Alice"},
		{"bad display name", "alice", "alice@x.com", "secret1", "<A>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Register(ctx, c.username, c.email, c.password, c.display)
			assert.ErrorIs(t, err, domain.ErrWeakCredential)
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "alice@x.com", "secret1", "Alice")
	require.NoError(t, err)

	// By username.
	user, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.IsOnline)
	assert.Empty(t, user.Avatar)

	// By email.
	user, err = svc.Login(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@x.com", "secret1", "Alice")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "alice", "wrong")
	_, unknownUser := svc.Login(ctx, "nobody", "secret1")

	assert.ErrorIs(t, wrongPassword, domain.ErrAuthFailure)
	assert.ErrorIs(t, unknownUser, domain.ErrAuthFailure)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Register(ctx, "alice", "alice@x.com", "secret1", "Alice")
	_, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, id))

	user, err := svc.store.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, user.IsOnline)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Register(ctx, "alice", "alice@x.com", "secret1", "Alice")

	assert.ErrorIs(t, svc.ChangePassword(ctx, id, "wrong", "newsecret"), domain.ErrAuthFailure)
	assert.ErrorIs(t, svc.ChangePassword(ctx, id, "secret1", "tiny"), domain.ErrWeakCredential)
	assert.ErrorIs(t, svc.ChangePassword(ctx, "missing", "secret1", "newsecret"), domain.ErrAuthFailure)

	require.NoError(t, svc.ChangePassword(ctx, id, "secret1", "newsecret"))

	_, err := svc.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrAuthFailure)
	_, err = svc.Login(ctx, "alice", "newsecret")
	assert.NoError(t, err)
}

func TestCookieSignerRoundTrip(t *testing.T) {
	signer := NewCookieSigner("test-secret")

	signed := signer.Sign("user-123")
	value, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", value)

	_, err = signer.Verify("garbage")
	assert.Error(t, err)

	// Tampered signature.
	other := NewCookieSigner("other-secret")
	_, err = other.Verify(signed)
	assert.Error(t, err)
}
