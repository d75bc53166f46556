package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRequired guards the admin surface with a bearer token signed by
// the shared ADMIN_JWT_SECRET. There is no user store behind it; the
// main application issues the tokens.
func AdminRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return Unauthorized("Admin access is not configured")
		}

		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Missing or malformed authorization header")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return Unauthorized("Invalid or expired token")
		}

		return c.Next()
	}
}
