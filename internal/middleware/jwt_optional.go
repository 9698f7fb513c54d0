package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/genova-platform/genova_backend/internal/utils"
)

// OptionalJWTLocals attaches "userId"/"role" locals when a valid session
// cookie is present and lets the request through anonymously otherwise.
// For endpoints serving both signed-in and anonymous traffic.
func OptionalJWTLocals(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies("gv_token")
		if tokenStr == "" {
			return c.Next()
		}

		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return c.Next()
		}

		if uid := strings.TrimSpace(claims.UserID); uid != "" {
			c.Locals("userId", uid)
			c.Locals("role", strings.ToLower(strings.TrimSpace(claims.Role)))
		}

		return c.Next()
	}
}
