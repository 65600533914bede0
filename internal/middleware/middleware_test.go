package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(tokens *jwt.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(tokens), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":   c.Locals(LocalUserID).(uuid.UUID).String(),
			"role": string(c.Locals(LocalUserRole).(model.Role)),
			"name": c.Locals(LocalUserName),
		})
	})
	app.Post("/admin", RequireAuth(tokens), RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	app := newApp(tokens)
	token, err := tokens.GenerateToken(uuid.New(), "USER", "Luca")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"Missing Header", "", fiber.StatusUnauthorized},
		{"Wrong Scheme", "Basic " + token, fiber.StatusUnauthorized},
		{"Garbage Token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"Foreign Secret", "Bearer " + mustToken(t, jwt.NewManager("other", time.Hour), "USER"), fiber.StatusUnauthorized},
		{"Unknown Role", "Bearer " + mustToken(t, tokens, "BOSS"), fiber.StatusUnauthorized},
		{"Valid", "Bearer " + token, fiber.StatusOK},
		{"Lowercase Scheme", "bearer " + token, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func mustToken(t *testing.T, m *jwt.Manager, role string) string {
	token, err := m.GenerateToken(uuid.New(), role, "someone")
	require.NoError(t, err)
	return token
}

func TestRequireRole(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	app := newApp(tokens)

	req := httptest.NewRequest("POST", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, tokens, "USER"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("POST", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, tokens, "ADMIN"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestLoginRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
