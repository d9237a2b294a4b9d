package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/logging"
)

// Authenticator is the subset of the auth API the guard drives.
// *client.Auth implements it.
type Authenticator interface {
	Login(ctx context.Context, p client.LoginPayload) (*client.AuthResponse, error)
	VerifyOTP(ctx context.Context, p client.OTPPayload) (*client.AuthResponse, error)
	Logout(ctx context.Context) error
}

// RefusedError is a login or OTP attempt the backend turned down.
type RefusedError struct {
	Message string
}

func (e *RefusedError) Error() string { return e.Message }

// Unwrap lets callers treat a refusal as unauthenticated.
func (e *RefusedError) Unwrap() error { return domain.ErrUnauthenticated }

// Guard owns the session lifecycle. Only Login, VerifyOTP and Logout write
// the credential.
type Guard struct {
	holder *Holder
	store  Store
	auth   Authenticator
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// NewGuard creates a Guard over holder, persisting through store.
func NewGuard(holder *Holder, store Store, auth Authenticator, opts ...Option) *Guard {
	g := &Guard{
		holder: holder,
		store:  store,
		auth:   auth,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Restore loads the persisted credential into the holder.
func (g *Guard) Restore() error {
	cred, err := g.store.Load()
	if err != nil {
		return err
	}
	g.holder.set(cred)
	return nil
}

// Login authenticates and stores the credential only when the backend
// reports success and issues a token.
func (g *Guard) Login(ctx context.Context, email, password string) (*Credential, error) {
	res, err := g.auth.Login(ctx, client.LoginPayload{Email: email, Password: password})
	return g.accept(ctx, res, err, "Login failed")
}

// VerifyOTP completes an OTP challenge under the same storage rule as Login.
func (g *Guard) VerifyOTP(ctx context.Context, email, otp string) (*Credential, error) {
	res, err := g.auth.VerifyOTP(ctx, client.OTPPayload{Email: email, OTP: otp})
	return g.accept(ctx, res, err, "OTP verification failed")
}

func (g *Guard) accept(ctx context.Context, res *client.AuthResponse, err error, fallback string) (*Credential, error) {
	if err != nil {
		var (
			se *domain.ServerError
			de *domain.DecodeError
		)
		switch {
		case errors.As(err, &se):
			return nil, &RefusedError{Message: orDefault(se.Message, fallback)}
		case errors.As(err, &de):
			return nil, &RefusedError{Message: fallback}
		}
		return nil, err
	}
	if !res.Success || res.Token == "" {
		g.logger.InfoContext(ctx, "login refused", "email", res.Admin.Email)
		return nil, &RefusedError{Message: orDefault(res.Error, orDefault(res.Message, fallback))}
	}

	cred := &Credential{Token: res.Token, Admin: res.Admin, SavedAt: g.now()}
	if err := g.store.Save(cred); err != nil {
		return nil, err
	}
	g.holder.set(cred)
	g.logger.InfoContext(ctx, "logged in", "admin", cred.Admin.Email)
	return cred, nil
}

// Logout tells the backend best-effort, then always clears the credential.
func (g *Guard) Logout(ctx context.Context) error {
	if g.holder.Token() != "" {
		if err := g.auth.Logout(ctx); err != nil {
			g.logger.WarnContext(ctx, "backend logout failed", "error", err)
		}
	}
	g.holder.set(nil)
	return g.store.Clear()
}

// Current returns the held credential, or nil.
func (g *Guard) Current() *Credential {
	return g.holder.Get()
}

// Require returns the credential or fails closed. A JWT whose exp has
// passed is cleared and reported as expired; opaque tokens are accepted.
func (g *Guard) Require() (*Credential, error) {
	cred := g.holder.Get()
	if cred == nil {
		return nil, domain.ErrUnauthenticated
	}
	if exp, ok := expiry(cred.Token); ok && !g.now().Before(exp) {
		g.logger.Info("session expired", "admin", cred.Admin.Email, "expired_at", exp)
		g.holder.set(nil)
		if err := g.store.Clear(); err != nil {
			g.logger.Warn("clearing expired session failed", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrSessionExpired)
	}
	return cred, nil
}

// RequireAnonymous fails when a credential is held.
func (g *Guard) RequireAnonymous() error {
	if g.holder.Get() != nil {
		return domain.ErrAlreadyAuthenticated
	}
	return nil
}

// expiry reads the exp claim without verifying the signature; the backend
// remains the authority on validity.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
