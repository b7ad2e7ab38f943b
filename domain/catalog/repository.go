package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when no matching product exists.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when no matching category exists.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrVariantNotFound is returned when a product has no such variant.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrSizeNotFound is returned when a variant has no such size.
	ErrSizeNotFound = errors.New("size not found")
	// ErrSlugTaken is returned when a slug collides with an existing row.
	ErrSlugTaken = errors.New("slug already in use")
)

// InsufficientStockError reports a stock shortfall for a specific
// product/variant/size combination.
type InsufficientStockError struct {
	ProductName string
	Size        string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (size %s): %d available, %d requested",
		e.ProductName, e.Size, e.Available, e.Requested)
}

// Sort orders accepted by ListQuery. An unknown token falls back to featured.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-low"
	SortPriceDesc = "price-high"
	SortNewest    = "newest"
	SortNameAsc   = "name-az"
	SortNameDesc  = "name-za"
)

// ListQuery describes a storefront product listing request. Colors and Sizes
// filter on the variant documents and are applied before pagination so totals
// stay consistent with page contents.
type ListQuery struct {
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	Colors     []string
	Sizes      []string
	Search     string
	Sort       string
	Page       int
	PageSize   int
}

// Repository provides database access for categories and products.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a catalog repository on the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCategories returns all active categories in display order.
func (r *Repository) ListCategories() ([]Category, error) {
	var categories []Category
	err := r.db.Where("is_active = ?", true).Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

// FindCategoryBySlug returns the active category with the given slug.
func (r *Repository) FindCategoryBySlug(slug string) (*Category, error) {
	var category Category
	err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(category *Category) error {
	err := r.db.Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

// CategorySlugExists reports whether any category row carries the slug.
func (r *Repository) CategorySlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&Category{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// List returns one page of active products matching the query plus the total
// match count. Price predicates and sorting use the effective price
// (sale price when set). Variant-level color/size filters run after the SQL
// query but before pagination.
func (r *Repository) List(q ListQuery) ([]Product, int64, error) {
	db := r.db.Model(&Product{}).Where("is_active = ?", true)

	if q.CategoryID != "" {
		db = db.Where("category_id = ?", q.CategoryID)
	}
	if q.MinPrice != nil {
		db = db.Where("COALESCE(sale_price, price) >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("COALESCE(sale_price, price) <= ?", *q.MaxPrice)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?",
			like, like, like)
	}

	switch q.Sort {
	case SortPriceAsc:
		db = db.Order("COALESCE(sale_price, price) ASC")
	case SortPriceDesc:
		db = db.Order("COALESCE(sale_price, price) DESC")
	case SortNewest:
		db = db.Order("created_at DESC")
	case SortNameAsc:
		db = db.Order("name ASC")
	case SortNameDesc:
		db = db.Order("name DESC")
	default:
		db = db.Order("is_featured DESC, created_at DESC")
	}

	var products []Product
	if err := db.Find(&products).Error; err != nil {
		return nil, 0, err
	}

	products = filterByVariants(products, q.Colors, q.Sizes)
	total := int64(len(products))

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []Product{}, total, nil
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], total, nil
}

func filterByVariants(products []Product, colors, sizes []string) []Product {
	if len(colors) == 0 && len(sizes) == 0 {
		return products
	}
	filtered := products[:0]
	for _, p := range products {
		if matchesVariantFilters(&p, colors, sizes) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchesVariantFilters(p *Product, colors, sizes []string) bool {
	if len(colors) > 0 && !hasAnyColor(p, colors) {
		return false
	}
	if len(sizes) > 0 && !hasAnySize(p, sizes) {
		return false
	}
	return true
}

func hasAnyColor(p *Product, colors []string) bool {
	for _, v := range p.Variants {
		for _, c := range colors {
			if strings.EqualFold(v.Color, c) {
				return true
			}
		}
	}
	return false
}

func hasAnySize(p *Product, sizes []string) bool {
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			for _, want := range sizes {
				if strings.EqualFold(s.Size, want) {
					return true
				}
			}
		}
	}
	return false
}

// Search returns active products whose name or tags match the query,
// newest first, limited to limit rows.
func (r *Repository) Search(query string, limit int) ([]Product, error) {
	like := "%" + strings.ToLower(query) + "%"
	var products []Product
	err := r.db.Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(tags) LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// FindBySlug returns the active product with the given slug.
func (r *Repository) FindBySlug(slug string) (*Product, error) {
	var product Product
	err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByID returns the product with the given id regardless of active state.
func (r *Repository) FindByID(id string) (*Product, error) {
	var product Product
	err := r.db.Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID returns the product with the given id if it is active.
func (r *Repository) FindActiveByID(id string) (*Product, error) {
	product, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAll returns every product (active or not) newest first, for the admin
// surface.
func (r *Repository) ListAll() ([]Product, error) {
	var products []Product
	err := r.db.Order("created_at DESC").Find(&products).Error
	return products, err
}

// Create inserts a product.
func (r *Repository) Create(product *Product) error {
	err := r.db.Create(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

// Save persists the full product row.
func (r *Repository) Save(product *Product) error {
	err := r.db.Save(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *Repository) Deactivate(id string) error {
	result := r.db.Model(&Product{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SlugExists reports whether any product row carries the slug.
func (r *Repository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// CountActive returns the number of active products.
func (r *Repository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// DeductStock decrements stock for one product/variant/size after verifying
// availability, re-reading the row inside the repository's handle. Callers
// run it inside a transaction so multi-line deductions commit or roll back
// together. Returns *InsufficientStockError when stock is short.
func (r *Repository) DeductStock(productID, variantID, size string, quantity int) error {
	product, err := r.FindActiveByID(productID)
	if err != nil {
		return err
	}
	variant := product.FindVariant(variantID)
	if variant == nil {
		return ErrVariantNotFound
	}
	entry := variant.FindSize(size)
	if entry == nil {
		return ErrSizeNotFound
	}
	if entry.Stock < quantity {
		return &InsufficientStockError{
			ProductName: product.Name,
			Size:        entry.Size,
			Available:   entry.Stock,
			Requested:   quantity,
		}
	}
	entry.Stock -= quantity
	// Struct update so the JSON serializer on Variants applies.
	result := r.db.Model(product).Select("variants", "updated_at").Updates(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SortSizeLabels orders size labels in conventional apparel order where
// recognized, alphabetically otherwise.
func SortSizeLabels(labels []string) {
	rank := map[string]int{"xs": 0, "s": 1, "m": 2, "l": 3, "xl": 4, "xxl": 5, "3xl": 6}
	sort.SliceStable(labels, func(i, j int) bool {
		ri, iok := rank[strings.ToLower(labels[i])]
		rj, jok := rank[strings.ToLower(labels[j])]
		if iok && jok {
			return ri < rj
		}
		if iok != jok {
			return iok
		}
		return labels[i] < labels[j]
	})
}
