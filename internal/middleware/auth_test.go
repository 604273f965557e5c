package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dwellr/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	secret := "test-secret-key-12345678901234567890123456789012"
	InitMiddleware(&config.Config{JWTSecret: secret})

	app.Get("/test", AuthRequired, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"username": c.Locals("username")})
	})

	generateToken := func(claims jwt.MapClaims, exp time.Duration) string {
		claims["exp"] = time.Now().Add(exp).Unix()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, _ := token.SignedString([]byte(secret))
		return s
	}

	tests := []struct {
		name             string
		authHeader       string
		expectedStatus   int
		expectedUsername string
	}{
		{
			name:             "Happy Path",
			authHeader:       "Bearer " + generateToken(jwt.MapClaims{"username": "casey"}, time.Hour),
			expectedStatus:   http.StatusOK,
			expectedUsername: "casey",
		},
		{
			name:             "Raw Token Without Bearer",
			authHeader:       generateToken(jwt.MapClaims{"username": "casey"}, time.Hour),
			expectedStatus:   http.StatusOK,
			expectedUsername: "casey",
		},
		{
			name:             "Cognito Username Claim",
			authHeader:       "Bearer " + generateToken(jwt.MapClaims{"cognito:username": "casey-id"}, time.Hour),
			expectedStatus:   http.StatusOK,
			expectedUsername: "casey-id",
		},
		{
			name:             "Sub Fallback",
			authHeader:       "Bearer " + generateToken(jwt.MapClaims{"sub": "uuid-123"}, time.Hour),
			expectedStatus:   http.StatusOK,
			expectedUsername: "uuid-123",
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + generateToken(jwt.MapClaims{"username": "casey"}, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "No Username Claim",
			authHeader:     "Bearer " + generateToken(jwt.MapClaims{"scope": "openid"}, time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
					assert.Equal(t, tt.expectedUsername, body["username"])
				}
			}
		})
	}
}

func TestAuthRequired_WrongSecret(t *testing.T) {
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: "the-real-secret-123456789012345678901234"})

	app.Get("/test", AuthRequired, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "casey",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("a-different-secret-9876543210987654321098"))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
