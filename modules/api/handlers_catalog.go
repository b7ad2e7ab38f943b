package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	catalogmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/catalog"
)

// ListCategories returns the active categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategory returns one category by slug.
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	category, err := h.catalog.GetCategory(c.UserContext(), c.Params("slug"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(category)
}

// CreateCategory adds a category (admin only).
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), catalogmod.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListProducts returns one page of products matching the query filters.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	input := catalogmod.ListInput{
		CategorySlug: c.Query("category"),
		Colors:       splitParam(c.Query("colors")),
		Sizes:        splitParam(c.Query("sizes")),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("page_size", 20),
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		input.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		input.MaxPrice = &v
	}

	page, err := h.catalog.ListProducts(c.UserContext(), input)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(page)
}

// GetProduct returns the full product document by slug.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("slug"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(product)
}

// Search returns compact quick-search results.
func (h *Handlers) Search(c *fiber.Ctx) error {
	results, err := h.catalog.SearchProducts(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

// splitParam splits a comma-separated query value into trimmed parts.
func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
