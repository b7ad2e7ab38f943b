package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	cartmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cart"
	catalogmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/checkout"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"

	cartdomain "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/cart"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/order"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

// mapError translates domain errors to HTTP responses in one place so every
// handler fails the same way.
func mapError(c *fiber.Ctx, err error) error {
	var stockErr *catalog.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "insufficient_stock",
			Message: stockErr.Error(),
		})
	}

	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrVariantNotFound),
		errors.Is(err, catalog.ErrSizeNotFound),
		errors.Is(err, cartdomain.ErrCartNotFound),
		errors.Is(err, cartmod.ErrLineNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrAddressNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})

	case errors.Is(err, user.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})

	case errors.Is(err, identity.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
		})

	case errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrExpiredToken):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired token",
		})

	case errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrMissingName),
		errors.Is(err, identity.ErrIncompleteAddress),
		errors.Is(err, cartmod.ErrNoOwner),
		errors.Is(err, cartmod.ErrQuantityRange),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidStatus),
		errors.Is(err, checkout.ErrInvalidPaymentStatus),
		errors.Is(err, catalogmod.ErrQueryTooShort),
		errors.Is(err, catalogmod.ErrMissingProductName),
		errors.Is(err, catalogmod.ErrInvalidPrice),
		errors.Is(err, catalog.ErrSlugTaken):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	}

	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
