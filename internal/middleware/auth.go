package middleware

import (
	"strings"

	"dwellr/internal/config"
	"dwellr/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired is a middleware that enforces authentication for protected
// routes. It validates the bearer token and resolves the username claim into
// c.Locals("username"). An invalid credential is terminal: the request is
// rejected with 401 before any further work.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Authorization header required"))
	}

	// The mobile client sends the raw access token; also accept the
	// conventional "Bearer <token>" form.
	tokenString := authHeader
	if parts := strings.Split(authHeader, " "); len(parts) == 2 {
		if parts[0] != "Bearer" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}
		tokenString = parts[1]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Invalid token claims"))
	}

	username := usernameFromClaims(claims)
	if username == "" {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Invalid token structure - missing username"))
	}

	c.Locals("username", username)
	return c.Next()
}

// usernameFromClaims resolves the stable username claim. Cognito access
// tokens carry "username"; ID tokens use "cognito:username"; "sub" is the
// last resort (opaque but stable).
func usernameFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"username", "cognito:username", "sub"} {
		if v, ok := claims[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
