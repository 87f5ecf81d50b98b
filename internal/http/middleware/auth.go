package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
)

// SessionLocalKey is the key the authenticated model.Session is stored under.
const SessionLocalKey = "session"

// SessionVerifier resolves a bearer token to a live session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (model.Session, error)
}

// Authenticate rejects requests without a valid session token with 401. The
// token is read from the Authorization header, or from the access_token query
// parameter for clients such as EventSource that cannot set headers.
func Authenticate(v SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		sess, err := v.Verify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, "session invalid or expired")
			}
			return err
		}
		c.Locals(SessionLocalKey, sess)
		return c.Next()
	}
}

// RequireRoles allows only sessions holding one of roles; others get 403.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		for _, r := range roles {
			if sess.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "role not allowed")
	}
}

// SessionFrom returns the session stored by Authenticate.
func SessionFrom(c *fiber.Ctx) (model.Session, bool) {
	sess, ok := c.Locals(SessionLocalKey).(model.Session)
	return sess, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
