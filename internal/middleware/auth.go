package middleware

import (
	"context"

	"blogify/internal/auth"
	"blogify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionVerifier resolves a raw session token to its session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Session, error)
}

// AuthRequired gates protected routes. The session cookie is tried first and
// the bearer header second; the first token that verifies wins. On success
// the user ID is stored both in c.Locals("userID") and in the request's
// UserContext.
func AuthRequired(verifier SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokens := auth.TokensFromRequest(c)
		if len(tokens) == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Unauthorized - no token provided"))
		}

		session, err := verifyFirst(c.UserContext(), verifier, tokens)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		setUser(c, session.UserID)
		return c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present but never rejects.
func OptionalAuth(verifier SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokens := auth.TokensFromRequest(c); len(tokens) > 0 {
			if session, err := verifyFirst(c.UserContext(), verifier, tokens); err == nil {
				setUser(c, session.UserID)
			}
		}
		return c.Next()
	}
}

// verifyFirst returns the session of the first token that verifies, or the
// error of the first token when none does.
func verifyFirst(ctx context.Context, verifier SessionVerifier, tokens []string) (*auth.Session, error) {
	var firstErr error
	for _, token := range tokens {
		session, err := verifier.Verify(ctx, token)
		if err == nil {
			return session, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// UserIDFromContext returns the authenticated user ID carried by ctx.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}
