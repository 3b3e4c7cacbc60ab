package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"facilitydocs/internal/auth"
)

// TokenVerifier turns a bearer token into an actor.
type TokenVerifier interface {
	Verify(token string) (auth.Actor, error)
}

// Authenticate attaches the actor of a valid bearer token to the request
// context. Requests without a token pass through anonymously; a malformed or
// invalid token is rejected with 401.
func Authenticate(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed authorization header")
		}
		actor, err := v.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.SetUserContext(auth.WithActor(c.UserContext(), actor))
		return c.Next()
	}
}

// RequireAuth rejects requests that carry no authenticated actor.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := auth.ActorFromContext(c.UserContext()); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}
