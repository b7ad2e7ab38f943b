package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
	// SessionContextKey is the key used to store the anonymous session key.
	SessionContextKey = "session"

	// SessionHeader carries the anonymous session key; the cookie is the
	// fallback for clients that don't send the header.
	SessionHeader = "X-Session-ID"
	// SessionCookie is the session cookie name.
	SessionCookie = "session_id"
	// RefreshCookie is the HTTP-only refresh token cookie name.
	RefreshCookie = "refresh_token"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// SessionMiddleware resolves the anonymous session key from the X-Session-ID
// header, falling back to the session cookie and finally minting a new key.
// A freshly minted key is set as a 30-day cookie so the guest cart survives
// page loads.
func SessionMiddleware(newKey func() string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(SessionHeader)
		if key == "" {
			key = c.Cookies(SessionCookie)
		}
		if key == "" {
			key = newKey()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    key,
				Expires:  time.Now().Add(sessionCookieMaxAge),
				HTTPOnly: true,
				SameSite: "Lax",
				Path:     "/",
			})
		}
		c.Locals(SessionContextKey, key)
		return c.Next()
	}
}

// RequireAuth validates the bearer token and stores the claims in the
// context. Requests without a valid access token are rejected.
func RequireAuth(port identity.IdentityPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromHeader(c, port)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}
		if claims == nil {
			return unauthorized(c, "Authorization header is required")
		}
		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// OptionalAuth stores claims when a valid bearer token is present and lets
// the request through either way. Used on cart routes, which serve both
// guests and logged-in users.
func OptionalAuth(port identity.IdentityPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromHeader(c, port)
		if err == nil && claims != nil {
			c.Locals(UserContextKey, claims)
		}
		return c.Next()
	}
}

// RequireAdmin gates a route on the admin role. It runs after RequireAuth
// and is the single authorization check for the whole admin surface.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(UserContextKey).(*user.Claims)
		if !ok {
			return unauthorized(c, "User not authenticated")
		}
		if claims.Role != user.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// claimsFromHeader validates the bearer token if one is present. A missing
// header returns (nil, nil); a malformed or invalid token returns an error.
func claimsFromHeader(c *fiber.Ctx, port identity.IdentityPort) (*user.Claims, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return nil, identity.ErrInvalidToken
	}
	return port.ValidateToken(c.UserContext(), token)
}
