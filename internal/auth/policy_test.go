package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejin/dispatch-platform/internal/domain"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

func testPolicy() *Policy {
	return NewPolicy(
		Rule{Pattern: "/api/auth/**", Require: Public()},
		Rule{Pattern: "/api/admin/**", Require: RequireRole(domain.RoleAdmin)},
	)
}

func appErrorFrom(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	return appErr
}

func TestPolicyPublicRouteAllowsAnonymous(t *testing.T) {
	policy := testPolicy()

	assert.NoError(t, policy.Evaluate("/api/auth/login", nil))
	assert.NoError(t, policy.Evaluate("/api/auth/login", NewIdentity(1, domain.RoleDriver)))
}

func TestPolicyRoleRouteRejectsAnonymous(t *testing.T) {
	policy := testPolicy()

	err := policy.Evaluate("/api/admin/x", nil)
	appErr := appErrorFrom(t, err)
	assert.Equal(t, apperrors.CodeAuthRequired, appErr.Code)
	assert.Equal(t, 401, appErr.HTTPStatus)
	assert.Equal(t, "/api/admin/x", appErr.Path)
}

func TestPolicyRoleRouteRejectsWrongRole(t *testing.T) {
	policy := testPolicy()

	err := policy.Evaluate("/api/admin/x", NewIdentity(1, domain.RoleDriver))
	appErr := appErrorFrom(t, err)
	assert.Equal(t, apperrors.CodeAccessDenied, appErr.Code)
	assert.Equal(t, 403, appErr.HTTPStatus)
	assert.Equal(t, "/api/admin/x", appErr.Path)
}

func TestPolicyRoleRouteAllowsMatchingRole(t *testing.T) {
	policy := testPolicy()

	assert.NoError(t, policy.Evaluate("/api/admin/x", NewIdentity(1, domain.RoleAdmin)))
}

func TestPolicyDefaultsToAuthenticated(t *testing.T) {
	policy := testPolicy()

	// No rule matches /api/orders: any identity passes, anonymous does not.
	assert.NoError(t, policy.Evaluate("/api/orders", NewIdentity(1, domain.RoleDriver)))

	err := policy.Evaluate("/api/orders", nil)
	appErr := appErrorFrom(t, err)
	assert.Equal(t, apperrors.CodeAuthRequired, appErr.Code)
}

func TestPolicyFirstMatchWins(t *testing.T) {
	policy := NewPolicy(
		Rule{Pattern: "/api/admin/reports", Require: Public()},
		Rule{Pattern: "/api/admin/**", Require: RequireRole(domain.RoleAdmin)},
	)

	assert.NoError(t, policy.Evaluate("/api/admin/reports", nil))

	err := policy.Evaluate("/api/admin/other", nil)
	appErr := appErrorFrom(t, err)
	assert.Equal(t, apperrors.CodeAuthRequired, appErr.Code)
}

func TestRuleGlobMatching(t *testing.T) {
	rule := Rule{Pattern: "/api/admin/**", Require: Public()}

	assert.True(t, rule.matches("/api/admin"))
	assert.True(t, rule.matches("/api/admin/x"))
	assert.True(t, rule.matches("/api/admin/x/y"))
	assert.False(t, rule.matches("/api/administration"))
	assert.False(t, rule.matches("/api/auth/login"))

	exact := Rule{Pattern: "/health", Require: Public()}
	assert.True(t, exact.matches("/health"))
	assert.False(t, exact.matches("/health/live"))
}
