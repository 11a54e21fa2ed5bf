package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAuth validates the bearer token and stores the user id in the
// request context. The identity travels only through ctx locals; there
// is no ambient session state.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDFromToken(c, secret)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or missing token"})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is present but lets the
// request through anonymously otherwise. Tool endpoints use this: an
// authenticated caller gets an owned record, an anonymous one gets a
// one-shot download.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := userIDFromToken(c, secret); ok {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func userIDFromToken(c *fiber.Ctx, secret string) (string, bool) {
	tokenString := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if tokenString == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
