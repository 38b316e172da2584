package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpapi "github.com/parishtools/flock/internal/membership/http"
	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/internal/membership/store/drivers/sqlite"
	"github.com/parishtools/flock/pkg/jwtx"
	"github.com/parishtools/flock/pkg/membersdk"
)

/*
 * Black-box tests for the membership service HTTP API. The full router is
 * mounted on an httptest server and exercised exclusively through the
 * membersdk client, the same way an external consumer would use it.
 */

const (
	testIdentitySecret = "api-test-identity-secret"
	testIdentityIssuer = "flock-identity-test"
	testBootstrapToken = "test-bootstrap-token-12345"
)

// newTestServer mounts a fully wired router on an in-process HTTP server.
// Each call gets a fresh database and fresh rate limiter state.
func newTestServer(t *testing.T) *membersdk.Client {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "membership.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := jwtx.NewVerifierHS256([]byte(testIdentitySecret), testIdentityIssuer)

	router := httpapi.NewRouter(verifier, "test", st, logger)
	router.InvitationService = &service.InvitationService{Store: st}
	router.ProfileService = &service.ProfileService{Store: st}
	router.BootstrapService = &service.BootstrapService{Store: st, Token: testBootstrapToken}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return membersdk.NewClient(srv.URL)
}

// identityToken signs an identity provider JWT for the given subject, the
// way the external provider would.
func identityToken(t *testing.T, subject, email, name string) string {
	t.Helper()

	claims := jwtx.NewIdentityClaims(subject, email, name, testIdentityIssuer, time.Hour, time.Now())
	token, err := jwtx.SignHS256([]byte(testIdentitySecret), claims)
	require.NoError(t, err)
	return token
}

// bootstrapAdmin creates the first admin through the API and returns its
// session.
func bootstrapAdmin(t *testing.T, client *membersdk.Client) *membersdk.Session {
	t.Helper()

	session := client.WithToken(identityToken(t, "admin-identity", "admin@example.org", "Administrator"))
	resp, err := session.Bootstrap(context.Background(), membersdk.BootstrapRequest{
		BootstrapToken: testBootstrapToken,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.Equal(t, "admin", resp.Profile.Role)
	require.True(t, resp.Profile.Capabilities.IsAdmin)

	return session
}

// redeemAs mints nothing; it redeems token for a fresh identity and returns
// that identity's session.
func redeemAs(t *testing.T, client *membersdk.Client, inviteToken, subject, email, name string) *membersdk.Session {
	t.Helper()

	session := client.WithToken(identityToken(t, subject, email, name))
	_, err := session.RedeemInvitation(context.Background(), membersdk.RedeemInvitationRequest{
		InviteToken: inviteToken,
		DisplayName: name,
	})
	require.NoError(t, err, "Redemption should succeed")
	return session
}

// requireAPIError asserts err is an *membersdk.APIError with the given
// status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *membersdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
