package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"lumen/config"
	. "lumen/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-admin-secret"

func newGuardedApp(secret string) *fiber.App {
	m := New(config.Config{AdminJWTSecret: secret})
	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/admin", m.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/trace", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})
	return app
}

func TestRequireAdmin(t *testing.T) {
	adminToken, err := IssueStaffToken(testSecret, "ops@lumen.example", UserRoleAdmin, time.Hour)
	require.NoError(t, err)
	staffToken, err := IssueStaffToken(testSecret, "desk@lumen.example", UserRoleStaff, time.Hour)
	require.NoError(t, err)
	guestToken, err := IssueStaffToken(testSecret, "guest@lumen.example", UserRoleGuest, time.Hour)
	require.NoError(t, err)
	foreignToken, err := IssueStaffToken("another-secret", "ops@lumen.example", UserRoleAdmin, time.Hour)
	require.NoError(t, err)
	expiredToken, err := IssueStaffToken(testSecret, "ops@lumen.example", UserRoleAdmin, -time.Minute)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{"open when secret unset", "", "", fiber.StatusOK},
		{"missing header", testSecret, "", fiber.StatusUnauthorized},
		{"wrong scheme", testSecret, "Basic " + adminToken, fiber.StatusUnauthorized},
		{"admin token", testSecret, "Bearer " + adminToken, fiber.StatusOK},
		{"staff token", testSecret, "bearer " + staffToken, fiber.StatusOK},
		{"guest token", testSecret, "Bearer " + guestToken, fiber.StatusForbidden},
		{"wrong signing key", testSecret, "Bearer " + foreignToken, fiber.StatusUnauthorized},
		{"expired token", testSecret, "Bearer " + expiredToken, fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newGuardedApp(tc.secret)

			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestTraceID(t *testing.T) {
	app := newGuardedApp("")

	t.Run("echoes incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/trace", nil)
		req.Header.Set(TraceIDHeader, "trace-123")

		resp, err := app.Test(req)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))
		assert.Equal(t, "trace-123", string(body))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/trace", nil))
		require.NoError(t, err)
		assert.Len(t, resp.Header.Get(TraceIDHeader), 36)
	})
}
