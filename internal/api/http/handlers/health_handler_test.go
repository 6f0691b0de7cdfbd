package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejin/dispatch-platform/internal/persistence"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

func newHealthApp(h *HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperrors.ToAppError(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{
				"success": false,
				"code":    appErr.Code,
			})
		},
	})
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	return app
}

func TestLiveAlwaysSucceeds(t *testing.T) {
	h := NewHealthHandler("dispatch-platform", "dev", &persistence.Postgres{}, &persistence.Redis{})
	app := newHealthApp(h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
}

func TestReadyReportsErrorEnvelopeWhenDependenciesDown(t *testing.T) {
	// Unconfigured pool and client both fail their pings.
	h := NewHealthHandler("dispatch-platform", "dev", &persistence.Postgres{}, &persistence.Redis{})
	app := newHealthApp(h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_READY", body["code"])
}
