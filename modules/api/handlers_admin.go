package api

import (
	"github.com/gofiber/fiber/v2"

	catalogmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/checkout"
)

// AdminListOrders returns one page of all orders, optionally filtered by
// status.
func (h *Handlers) AdminListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	orders, total, err := h.checkout.ListAllOrders(c.UserContext(), c.Query("status"), page, pageSize)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(OrdersPage{Orders: orders, Total: total, Page: page, PageSize: pageSize})
}

// AdminUpdateOrder applies a partial update to an order's status, payment
// status or notes.
func (h *Handlers) AdminUpdateOrder(c *fiber.Ctx) error {
	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	order, err := h.checkout.UpdateOrder(c.UserContext(), c.Params("id"), checkout.UpdateOrderInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(order)
}

// AdminStats returns the dashboard aggregates, plus cache counters when
// caching is enabled.
func (h *Handlers) AdminStats(c *fiber.Ctx) error {
	stats, err := h.checkout.GetStats(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	resp := fiber.Map{
		"total_orders":     stats.TotalOrders,
		"orders_by_status": stats.OrdersByStatus,
		"total_customers":  stats.TotalCustomers,
		"active_products":  stats.ActiveProducts,
		"total_revenue":    stats.TotalRevenue,
	}
	if cacheStats := h.catalog.CacheStats(); cacheStats != nil {
		resp["cache"] = cacheStats
	}
	return c.JSON(resp)
}

// AdminListProducts returns every product, active or not.
func (h *Handlers) AdminListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListAllProducts(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// AdminCreateProduct adds a product.
func (h *Handlers) AdminCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), catalogmod.ProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Fabric:      req.Fabric,
		Tags:        req.Tags,
		Variants:    req.Variants,
		IsFeatured:  req.IsFeatured,
		ReadyToShip: req.ReadyToShip,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// AdminUpdateProduct applies a partial update to a product.
func (h *Handlers) AdminUpdateProduct(c *fiber.Ctx) error {
	var req ProductPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	product, err := h.catalog.UpdateProduct(c.UserContext(), c.Params("id"), catalogmod.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Fabric:      req.Fabric,
		Tags:        req.Tags,
		Variants:    req.Variants,
		IsFeatured:  req.IsFeatured,
		IsActive:    req.IsActive,
		ReadyToShip: req.ReadyToShip,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(product)
}

// AdminDeleteProduct deactivates a product, hiding it from the storefront.
func (h *Handlers) AdminDeleteProduct(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deactivated"})
}
