//go:build contract

package client_test

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/transport"
)

// Consumer contracts for the Dolabb backend. Run with:
//
//	go test -tags contract ./internal/client/...
//
// Pact files are written to pacts/ at the repository root.

const bearer = "Bearer contract-token"

func newPact(t *testing.T) *consumer.V4HTTPMockProvider {
	t.Helper()
	p, err := consumer.NewV4Pact(consumer.MockHTTPProviderConfig{
		Consumer: "dolabbctl",
		Provider: "dolabb-backend",
		PactDir:  filepath.Join("..", "..", "pacts"),
	})
	require.NoError(t, err)
	return p
}

func apiFor(t *testing.T, cfg consumer.MockServerConfig) *client.API {
	t.Helper()
	tc, err := transport.New(fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		transport.WithTokenSource(transport.TokenFunc(func() string { return "contract-token" })))
	require.NoError(t, err)
	return client.New(tc)
}

func TestContract_Login(t *testing.T) {
	p := newPact(t)

	err := p.AddInteraction().
		Given("an administrator admin@dolabb.com exists").
		UponReceiving("a login with valid credentials").
		WithRequest(http.MethodPost, "/api/auth/admin/login/", func(b *consumer.V4RequestBuilder) {
			b.JSONBody(matchers.Map{
				"email":    matchers.String("admin@dolabb.com"),
				"password": matchers.String("secret"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
			b.Header("Content-Type", matchers.Regex("application/json", `application/json.*`))
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"token":   matchers.Like("eyJhbGciOiJIUzI1NiJ9.e30.sig"),
				"admin": matchers.Like(map[string]any{
					"id":    "a1",
					"name":  "Noura",
					"email": "admin@dolabb.com",
				}),
			})
		}).
		ExecuteTest(t, func(cfg consumer.MockServerConfig) error {
			res, err := apiFor(t, cfg).Auth().Login(context.Background(), client.LoginPayload{Email: "admin@dolabb.com", Password: "secret"})
			if err != nil {
				return err
			}
			assert.True(t, res.Success)
			assert.NotEmpty(t, res.Token)
			assert.Equal(t, "admin@dolabb.com", res.Admin.Email)
			return nil
		})
	require.NoError(t, err)
}

func TestContract_ListUsers(t *testing.T) {
	p := newPact(t)

	err := p.AddInteraction().
		Given("two users exist").
		UponReceiving("a request for the first page of active users").
		WithRequest(http.MethodGet, "/api/admin/users/", func(b *consumer.V4RequestBuilder) {
			b.Header("Authorization", matchers.String(bearer))
			b.Query("page", matchers.String("1"))
			b.Query("limit", matchers.String("20"))
			b.Query("status", matchers.String("active"))
		}).
		WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
			b.Header("Content-Type", matchers.Regex("application/json", `application/json.*`))
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"users": matchers.EachLike(map[string]any{
					"_id":    "u1",
					"name":   "Amal",
					"email":  "amal@example.com",
					"type":   "buyer",
					"status": "active",
				}, 1),
				"pagination": matchers.Like(map[string]any{
					"currentPage": 1,
					"totalPages":  1,
					"totalItems":  1,
				}),
			})
		}).
		ExecuteTest(t, func(cfg consumer.MockServerConfig) error {
			page, err := apiFor(t, cfg).Users().List(context.Background(), domain.PageRequest{
				Page:     1,
				PageSize: 20,
				Filter:   domain.Filter{Status: "active"},
			})
			if err != nil {
				return err
			}
			require.NotEmpty(t, page.Items)
			assert.Equal(t, "u1", page.Items[0].ID)
			return nil
		})
	require.NoError(t, err)
}

func TestContract_SuspendUser(t *testing.T) {
	p := newPact(t)

	err := p.AddInteraction().
		Given("user u1 is active").
		UponReceiving("a request to suspend user u1").
		WithRequest(http.MethodPut, "/api/admin/users/u1/suspend/", func(b *consumer.V4RequestBuilder) {
			b.Header("Authorization", matchers.String(bearer))
		}).
		WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
			b.Header("Content-Type", matchers.Regex("application/json", `application/json.*`))
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"message": matchers.Like("User suspended"),
			})
		}).
		ExecuteTest(t, func(cfg consumer.MockServerConfig) error {
			res, err := apiFor(t, cfg).Users().Mutate(context.Background(), domain.ActionIntent{
				RecordID: "u1",
				Kind:     domain.ActionSuspend,
			})
			if err != nil {
				return err
			}
			assert.True(t, res.Success)
			return nil
		})
	require.NoError(t, err)
}

func TestContract_FeeSettings(t *testing.T) {
	p := newPact(t)

	err := p.AddInteraction().
		Given("fee settings are configured").
		UponReceiving("a request for the fee settings").
		WithRequest(http.MethodGet, "/api/admin/fee-settings/", func(b *consumer.V4RequestBuilder) {
			b.Header("Authorization", matchers.String(bearer))
		}).
		WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
			b.Header("Content-Type", matchers.Regex("application/json", `application/json.*`))
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"feeSettings": matchers.Like(map[string]any{
					"minimumFee":       5.0,
					"feePercentage":    4.5,
					"thresholdAmount1": 100.0,
					"thresholdAmount2": 1000.0,
					"maximumFee":       200.0,
				}),
			})
		}).
		ExecuteTest(t, func(cfg consumer.MockServerConfig) error {
			s, err := apiFor(t, cfg).FeeSettings(context.Background())
			if err != nil {
				return err
			}
			assert.Equal(t, 4.5, s.FeePercentage)
			return nil
		})
	require.NoError(t, err)
}
