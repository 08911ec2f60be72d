package middleware

import (
	"net/http/httptest"
	"testing"

	"eskuul/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig() {
	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}
}

func TestGenerateAndValidateJWT(t *testing.T) {
	setupTestConfig()

	token, err := GenerateJWT(7, "Aisha", "teacher", "aisha@school.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		assert.Equal(t, uint(7), c.Locals("userId"))
		assert.Equal(t, "teacher", c.Locals("role"))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	setupTestConfig()

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cases := map[string]string{
		"missing header": "",
		"no bearer":      "token-without-bearer",
		"garbage token":  "Bearer not.a.jwt",
	}

	for name, header := range cases {
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		resp, err := app.Test(req)
		require.NoError(t, err, name)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}
