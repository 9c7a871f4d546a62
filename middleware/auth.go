package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/subhrajit77/DoDeck-The-Task-manager/config"
	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// UserResolver resolves a token subject to its account record.
type UserResolver interface {
	ByID(ctx context.Context, id int64) (*models.User, error)
}

const identityKey = "identity"

// Identity returns the user attached by Protected. Only valid on
// handlers behind that middleware.
func Identity(c *fiber.Ctx) *models.User {
	return c.Locals(identityKey).(*models.User)
}

// Protected verifies the bearer token on each request. The signature
// and expiry are checked, the subject is resolved against the
// credential store, and the resulting identity is attached to the
// request. Anything short of that is a 401.
func Protected(cfg *config.Config, users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "token missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return unauthorized(c, "invalid token format")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return cfg.JWTSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return unauthorized(c, "token invalid or expired")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "token invalid or expired")
		}
		subject, ok := claims["user_id"].(float64)
		if !ok {
			return unauthorized(c, "token invalid or expired")
		}

		user, err := users.ByID(c.UserContext(), int64(subject))
		if errors.Is(err, models.ErrNotFound) {
			return unauthorized(c, "user no longer exists")
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"success": false, "message": "server error"})
		}

		c.Locals(identityKey, user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": msg})
}
