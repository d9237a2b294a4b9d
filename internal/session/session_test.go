package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
)

type stubAuth struct {
	login     *client.AuthResponse
	verify    *client.AuthResponse
	err       error
	logoutErr error
	logouts   int
}

func (s *stubAuth) Login(context.Context, client.LoginPayload) (*client.AuthResponse, error) {
	return s.login, s.err
}

func (s *stubAuth) VerifyOTP(context.Context, client.OTPPayload) (*client.AuthResponse, error) {
	return s.verify, s.err
}

func (s *stubAuth) Logout(context.Context) error {
	s.logouts++
	return s.logoutErr
}

func newTestGuard(t *testing.T, auth Authenticator, opts ...Option) (*Guard, *Holder, *FileStore) {
	t.Helper()
	holder := &Holder{}
	store := NewFileStore(filepath.Join(t.TempDir(), "dolabbctl", "session.json"), nil)
	return NewGuard(holder, store, auth, opts...), holder, store
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ad1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestGuard_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the credential on success", func(t *testing.T) {
		auth := &stubAuth{login: &client.AuthResponse{
			Success: true,
			Token:   "tok-1",
			Admin:   client.Admin{ID: "ad1", Email: "reem@dolabb.com"},
		}}
		g, holder, store := newTestGuard(t, auth)

		cred, err := g.Login(ctx, "reem@dolabb.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", cred.Token)
		assert.Equal(t, "tok-1", holder.Token())

		persisted, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Equal(t, "reem@dolabb.com", persisted.Admin.Email)

		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("refused login stores nothing", func(t *testing.T) {
		auth := &stubAuth{login: &client.AuthResponse{Success: false, Error: "Invalid credentials"}}
		g, holder, store := newTestGuard(t, auth)

		cred, err := g.Login(ctx, "admin@x.com", "wrong")
		assert.Nil(t, cred)
		var refused *RefusedError
		require.ErrorAs(t, err, &refused)
		assert.Equal(t, "Invalid credentials", refused.Message)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)

		assert.Nil(t, g.Current())
		assert.Empty(t, holder.Token())
		_, statErr := os.Stat(store.Path())
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("success without a token is refused", func(t *testing.T) {
		g, _, _ := newTestGuard(t, &stubAuth{login: &client.AuthResponse{Success: true}})

		_, err := g.Login(ctx, "a@b.co", "pw")
		var refused *RefusedError
		require.ErrorAs(t, err, &refused)
		assert.Equal(t, "Login failed", refused.Message)
		assert.Nil(t, g.Current())
	})

	t.Run("server error message is surfaced", func(t *testing.T) {
		g, _, _ := newTestGuard(t, &stubAuth{err: &domain.ServerError{Status: 401, Message: "Account locked"}})

		_, err := g.Login(ctx, "a@b.co", "pw")
		assert.EqualError(t, err, "Account locked")
		assert.Nil(t, g.Current())
	})

	t.Run("transport failures pass through", func(t *testing.T) {
		netErr := &domain.TransportError{Op: "POST /api/auth/admin/login/", Err: context.DeadlineExceeded}
		g, _, _ := newTestGuard(t, &stubAuth{err: netErr})

		_, err := g.Login(ctx, "a@b.co", "pw")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestGuard_VerifyOTP(t *testing.T) {
	ctx := context.Background()

	g, _, _ := newTestGuard(t, &stubAuth{verify: &client.AuthResponse{Success: false}})
	_, err := g.VerifyOTP(ctx, "a@b.co", "1234")
	assert.EqualError(t, err, "OTP verification failed")

	g, holder, _ := newTestGuard(t, &stubAuth{verify: &client.AuthResponse{Success: true, Token: "tok-otp"}})
	_, err = g.VerifyOTP(ctx, "a@b.co", "1234")
	require.NoError(t, err)
	assert.Equal(t, "tok-otp", holder.Token())
}

func TestGuard_Logout(t *testing.T) {
	ctx := context.Background()
	auth := &stubAuth{
		login:     &client.AuthResponse{Success: true, Token: "tok-1"},
		logoutErr: &domain.TransportError{Op: "POST /api/auth/admin/logout/", Err: errors.New("connection refused")},
	}
	g, holder, store := newTestGuard(t, auth)
	_, err := g.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)

	require.NoError(t, g.Logout(ctx))
	assert.Equal(t, 1, auth.logouts)
	assert.Nil(t, g.Current())
	assert.Empty(t, holder.Token())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)

	require.NoError(t, g.Logout(ctx))
	assert.Equal(t, 1, auth.logouts, "no backend call without a session")
}

func TestGuard_Require(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := WithClock(func() time.Time { return now })

	t.Run("absent credential", func(t *testing.T) {
		g, _, _ := newTestGuard(t, &stubAuth{}, clock)
		_, err := g.Require()
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.NoError(t, g.RequireAnonymous())
	})

	t.Run("valid jwt", func(t *testing.T) {
		g, holder, _ := newTestGuard(t, &stubAuth{}, clock)
		holder.set(&Credential{Token: signed(t, now.Add(time.Hour))})

		cred, err := g.Require()
		require.NoError(t, err)
		assert.NotNil(t, cred)
		assert.ErrorIs(t, g.RequireAnonymous(), domain.ErrAlreadyAuthenticated)
	})

	t.Run("expired jwt is cleared", func(t *testing.T) {
		g, holder, store := newTestGuard(t, &stubAuth{}, clock)
		cred := &Credential{Token: signed(t, now.Add(-time.Minute))}
		require.NoError(t, store.Save(cred))
		holder.set(cred)

		_, err := g.Require()
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
		assert.Nil(t, g.Current())

		persisted, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, persisted)
	})

	t.Run("opaque token is accepted", func(t *testing.T) {
		g, holder, _ := newTestGuard(t, &stubAuth{}, clock)
		holder.set(&Credential{Token: "opaque-token-value"})

		_, err := g.Require()
		assert.NoError(t, err)
	})
}

func TestFileStore(t *testing.T) {
	t.Run("missing file is no session", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "session.json"), nil)
		cred, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, cred)
		assert.NoError(t, store.Clear())
	})

	t.Run("corrupt file is removed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		cred, err := NewFileStore(path, nil).Load()
		require.NoError(t, err)
		assert.Nil(t, cred)
		_, statErr := os.Stat(path)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})

	t.Run("round trip through restore", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		saved := &Credential{Token: "tok", Admin: client.Admin{Name: "Reem"}, SavedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
		require.NoError(t, NewFileStore(path, nil).Save(saved))

		holder := &Holder{}
		g := NewGuard(holder, NewFileStore(path, nil), &stubAuth{})
		require.NoError(t, g.Restore())
		assert.Equal(t, saved, g.Current())
		assert.Equal(t, "tok", holder.Token())
	})
}
