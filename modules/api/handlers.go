package api

import (
	"github.com/gofiber/fiber/v2"

	cartmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cart"
	catalogmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/checkout"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

// Handlers holds the service references used by the HTTP layer.
type Handlers struct {
	identity *identity.Service
	catalog  *catalogmod.Service
	cart     *cartmod.Service
	checkout *checkout.Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(identitySvc *identity.Service, catalogSvc *catalogmod.Service, cartSvc *cartmod.Service, checkoutSvc *checkout.Service) *Handlers {
	return &Handlers{
		identity: identitySvc,
		catalog:  catalogSvc,
		cart:     cartSvc,
		checkout: checkoutSvc,
	}
}

// claims returns the authenticated claims, or nil for anonymous requests.
func claims(c *fiber.Ctx) *user.Claims {
	if claims, ok := c.Locals(UserContextKey).(*user.Claims); ok {
		return claims
	}
	return nil
}

// sessionKey returns the anonymous session key resolved by the session
// middleware.
func sessionKey(c *fiber.Ctx) string {
	if key, ok := c.Locals(SessionContextKey).(string); ok {
		return key
	}
	return ""
}

// ownerKey resolves the cart owner: the user when authenticated, the
// session key otherwise.
func ownerKey(c *fiber.Ctx) cartmod.OwnerKey {
	if claims := claims(c); claims != nil {
		return cartmod.OwnerKey{UserID: claims.UserID}
	}
	return cartmod.OwnerKey{SessionID: sessionKey(c)}
}
