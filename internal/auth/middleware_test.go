package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/domain"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// newTestApp wires the authenticator and policy gate in front of probe
// handlers, with a minimal terminal error handler.
func newTestApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperrors.ToAppError(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{
				"success": false,
				"code":    appErr.Code,
				"path":    appErr.Path,
			})
		},
	})

	authenticator := NewAuthenticator(tm, zap.NewNop(), nil)
	app.Use(authenticator.Handle)
	app.Use(Enforce(NewPolicy(
		Rule{Pattern: "/api/auth/**", Require: Public()},
		Rule{Pattern: "/api/admin/**", Require: RequireRole(domain.RoleAdmin)},
	)))

	echo := func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{
			"subject_id":  id.SubjectID,
			"role":        id.Role,
			"authorities": id.Authorities,
		})
	}

	app.Post("/api/auth/login", echo)
	app.Get("/api/admin/x", echo)
	app.Get("/api/orders", echo)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, bearer string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestPublicRouteReachableWithoutToken(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	resp, body := doRequest(t, app, http.MethodPost, "/api/auth/login", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["anonymous"])
}

func TestProtectedRouteWithoutHeaderReturns401(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	resp, body := doRequest(t, app, http.MethodGet, "/api/admin/x", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_401", body["code"])
	assert.Equal(t, "/api/admin/x", body["path"])
}

func TestProtectedRouteWithWrongRoleReturns403(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	token, _, err := tm.IssueAccessToken(10, domain.RoleDriver)
	require.NoError(t, err)

	resp, body := doRequest(t, app, http.MethodGet, "/api/admin/x", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "AUTH_403", body["code"])
	assert.Equal(t, "/api/admin/x", body["path"])
}

func TestProtectedRouteWithMatchingRoleAllowed(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	token, _, err := tm.IssueAccessToken(11, domain.RoleAdmin)
	require.NoError(t, err)

	resp, body := doRequest(t, app, http.MethodGet, "/api/admin/x", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(11), body["subject_id"])
	assert.Equal(t, "ADMIN", body["role"])
	assert.Equal(t, []interface{}{"ROLE_ADMIN"}, body["authorities"])
}

func TestUnmatchedRouteFallsBackToAuthenticated(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	token, _, err := tm.IssueAccessToken(12, domain.RoleDriver)
	require.NoError(t, err)

	resp, body := doRequest(t, app, http.MethodGet, "/api/orders", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DRIVER", body["role"])

	resp, body = doRequest(t, app, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_401", body["code"])
}

func TestMalformedAuthorizationHeadersYieldAnonymous(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	token, _, err := tm.IssueAccessToken(13, domain.RoleAdmin)
	require.NoError(t, err)

	for _, header := range []string{
		token,             // missing Bearer prefix
		"bearer " + token, // wrong case
		"Basic dXNlcg==",  // different scheme
		"Bearer",          // no token at all
		"Bearer ",         // empty token
	} {
		resp, body := doRequest(t, app, http.MethodGet, "/api/admin/x", header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		assert.Equal(t, "AUTH_401", body["code"])
	}
}

func TestExpiredTokenYieldsAnonymous(t *testing.T) {
	tm := newTestTokenManager(t, 0, time.Hour)
	app := newTestApp(t, tm)

	token, _, err := tm.IssueAccessToken(14, domain.RoleAdmin)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	resp, body := doRequest(t, app, http.MethodGet, "/api/admin/x", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_401", body["code"])
}

func TestRefreshTokenCannotPassRoleGate(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	// A refresh token verifies but carries no role: it authenticates, yet
	// never satisfies a role-restricted route.
	token, _, err := tm.IssueRefreshToken(15)
	require.NoError(t, err)

	resp, body := doRequest(t, app, http.MethodGet, "/api/admin/x", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "AUTH_403", body["code"])

	resp, _ = doRequest(t, app, http.MethodGet, "/api/orders", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConcurrentRequestsDoNotShareIdentity(t *testing.T) {
	tm := newTestTokenManager(t, time.Minute, time.Hour)
	app := newTestApp(t, tm)

	adminToken, _, err := tm.IssueAccessToken(100, domain.RoleAdmin)
	require.NoError(t, err)
	driverToken, _, err := tm.IssueAccessToken(200, domain.RoleDriver)
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		token, want := adminToken, float64(100)
		if i%2 == 1 {
			token, want = driverToken, float64(200)
		}
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 20; j++ {
				req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				resp, err := app.Test(req)
				assert.NoError(t, err)
				body := map[string]interface{}{}
				assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, want, body["subject_id"])
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
