package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/checkout"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"
)

// ListAddresses returns the user's address book, default first.
func (h *Handlers) ListAddresses(c *fiber.Ctx) error {
	addresses, err := h.identity.ListAddresses(c.UserContext(), claims(c).UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"addresses": addresses})
}

// CreateAddress adds an address. The first address becomes the default.
func (h *Handlers) CreateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	address, err := h.identity.CreateAddress(c.UserContext(), claims(c).UserID, addressInput(req))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// UpdateAddress replaces an address's fields.
func (h *Handlers) UpdateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	address, err := h.identity.UpdateAddress(c.UserContext(), claims(c).UserID, c.Params("id"), addressInput(req))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(address)
}

// DeleteAddress removes an address, promoting another to default when
// needed.
func (h *Handlers) DeleteAddress(c *fiber.Ctx) error {
	if err := h.identity.DeleteAddress(c.UserContext(), claims(c).UserID, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "address deleted"})
}

// SetDefaultAddress marks an address as the default.
func (h *Handlers) SetDefaultAddress(c *fiber.Ctx) error {
	if err := h.identity.SetDefaultAddress(c.UserContext(), claims(c).UserID, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "default address updated"})
}

// ValidateCheckout re-checks the cart against the live catalog, aggregating
// every problem instead of failing on the first.
func (h *Handlers) ValidateCheckout(c *fiber.Ctx) error {
	result, err := h.checkout.ValidateCheckout(c.UserContext(), claims(c).UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(result)
}

// CreateOrder places an order from the cart. Replaying the same
// idempotency key returns the existing order.
func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.AddressID == "" {
		return badRequest(c, "address_id is required")
	}

	order, err := h.checkout.CreateOrder(c.UserContext(), claims(c).UserID, checkout.CreateOrderInput{
		AddressID:      req.AddressID,
		IdempotencyKey: req.IdempotencyKey,
		Notes:          req.Notes,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// ListOrders returns one page of the user's orders, newest first.
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	orders, total, err := h.checkout.ListOrders(c.UserContext(), claims(c).UserID, page, pageSize)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(OrdersPage{Orders: orders, Total: total, Page: page, PageSize: pageSize})
}

// GetOrder returns one of the user's orders.
func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	order, err := h.checkout.GetOrder(c.UserContext(), c.Params("id"), claims(c).UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(order)
}

func addressInput(req AddressRequest) identity.AddressInput {
	return identity.AddressInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
}
