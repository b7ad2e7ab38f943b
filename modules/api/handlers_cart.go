package api

import (
	"github.com/gofiber/fiber/v2"

	cartmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cart"
)

// GetCart returns the owner's cart with derived totals.
func (h *Handlers) GetCart(c *fiber.Ctx) error {
	cart, err := h.cart.GetCart(c.UserContext(), ownerKey(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// AddItem adds a product/variant/size to the cart.
func (h *Handlers) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProductID == "" || req.VariantID == "" || req.Size == "" {
		return badRequest(c, "product_id, variant_id and size are required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cart.AddLine(c.UserContext(), ownerKey(c), cartmod.AddLineInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCartResponse(cart))
}

// UpdateItem changes a cart line's quantity.
func (h *Handlers) UpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cart, err := h.cart.UpdateLineQuantity(c.UserContext(), ownerKey(c), c.Params("id"), req.Quantity)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// RemoveItem deletes one line from the cart.
func (h *Handlers) RemoveItem(c *fiber.Ctx) error {
	cart, err := h.cart.RemoveLine(c.UserContext(), ownerKey(c), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// ClearCart empties the cart.
func (h *Handlers) ClearCart(c *fiber.Ctx) error {
	cart, err := h.cart.Clear(c.UserContext(), ownerKey(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}
