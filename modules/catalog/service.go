package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cache"
)

var (
	// ErrQueryTooShort is returned when a search query is under 2 characters.
	ErrQueryTooShort = errors.New("search query must be at least 2 characters")
	// ErrMissingProductName is returned when a product is created without a name.
	ErrMissingProductName = errors.New("product name is required")
	// ErrInvalidPrice is returned when a price is not positive.
	ErrInvalidPrice = errors.New("price must be greater than zero")
)

// Search result bounds.
const (
	searchLimitDefault = 10
	searchLimitMax     = 20
)

// ListInput is a storefront product listing request.
type ListInput struct {
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
	Colors       []string
	Sizes        []string
	Search       string
	Sort         string
	Page         int
	PageSize     int
}

// ProductListItem is the compact product shape for listing pages.
type ProductListItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Price        float64  `json:"price"`
	SalePrice    *float64 `json:"sale_price"`
	Image        string   `json:"image"`
	Colors       []string `json:"colors"`
	Sizes        []string `json:"sizes"`
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	IsFeatured   bool     `json:"is_featured"`
	ReadyToShip  bool     `json:"ready_to_ship"`
}

// ProductPage is a paginated listing envelope.
type ProductPage struct {
	Items      []ProductListItem `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// SearchResult is the minimal shape for quick search.
type SearchResult struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price"`
	Image     string   `json:"image"`
}

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
	SortOrder   int
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name        string
	Slug        string
	Description string
	CategoryID  string
	Price       float64
	SalePrice   *float64
	Fabric      string
	Tags        []string
	Variants    []catalog.Variant
	IsFeatured  bool
	ReadyToShip bool
}

// ProductPatch is an admin partial update: nil fields are untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	CategoryID  *string
	Price       *float64
	SalePrice   *float64
	Fabric      *string
	Tags        *[]string
	Variants    *[]catalog.Variant
	IsFeatured  *bool
	IsActive    *bool
	ReadyToShip *bool
}

// Service implements catalog browsing and admin product management, with a
// cache-aside layer over the read paths when a cache is wired.
type Service struct {
	products *catalog.Repository
	cache    *cache.Cache
}

// NewService creates a catalog service. cache may be nil.
func NewService(products *catalog.Repository, c *cache.Cache) *Service {
	return &Service{products: products, cache: c}
}

// ListCategories returns the active categories.
func (s *Service) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	const key = "categories:list"
	var cached []catalog.Category
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	categories, err := s.products.ListCategories()
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, categories)
	return categories, nil
}

// GetCategory returns one active category by slug.
func (s *Service) GetCategory(_ context.Context, slug string) (*catalog.Category, error) {
	return s.products.FindCategoryBySlug(slug)
}

// CreateCategory adds a category, generating a slug from the name when none
// is given.
func (s *Service) CreateCategory(ctx context.Context, input CategoryInput) (*catalog.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMissingProductName
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	exists, err := s.products.CategorySlugExists(slug)
	if err != nil {
		return nil, err
	}
	if exists {
		slug = slug + "-" + randomSlugSuffix()
	}

	category := &catalog.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		Image:       input.Image,
		SortOrder:   input.SortOrder,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.products.CreateCategory(category); err != nil {
		return nil, err
	}
	s.cacheDelete(ctx, "categories:list")
	return category, nil
}

// ListProducts returns one page of active products matching the filters.
func (s *Service) ListProducts(ctx context.Context, input ListInput) (*ProductPage, error) {
	query := catalog.ListQuery{
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Colors:   input.Colors,
		Sizes:    input.Sizes,
		Search:   strings.TrimSpace(input.Search),
		Sort:     input.Sort,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	if input.CategorySlug != "" {
		category, err := s.products.FindCategoryBySlug(input.CategorySlug)
		if err != nil {
			return nil, err
		}
		query.CategoryID = category.ID
	}

	key := listCacheKey(query)
	var cached ProductPage
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	products, total, err := s.products.List(query)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{
		Items:      make([]ProductListItem, 0, len(products)),
		Total:      total,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalPages: int((total + int64(query.PageSize) - 1) / int64(query.PageSize)),
	}
	for i := range products {
		page.Items = append(page.Items, toListItem(&products[i]))
	}

	s.cacheSet(ctx, key, page)
	return page, nil
}

// GetProduct returns one active product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	key := "products:detail:" + slug
	var cached catalog.Product
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.products.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, product)
	return product, nil
}

// SearchProducts returns compact results for a quick-search box.
func (s *Service) SearchProducts(_ context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	if limit < 1 || limit > searchLimitMax {
		limit = searchLimitDefault
	}

	products, err := s.products.Search(query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(products))
	for i := range products {
		p := &products[i]
		results = append(results, SearchResult{
			ID:        p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Image:     p.FirstImage(),
		})
	}
	return results, nil
}

// ListAllProducts returns every product, active or not, for the admin table.
func (s *Service) ListAllProducts(_ context.Context) ([]catalog.Product, error) {
	return s.products.ListAll()
}

// GetProductByID returns one product regardless of active state.
func (s *Service) GetProductByID(_ context.Context, id string) (*catalog.Product, error) {
	return s.products.FindByID(id)
}

// CreateProduct adds a product. A missing slug is generated from the name; a
// colliding slug gets a random suffix rather than failing.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*catalog.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMissingProductName
	}
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	exists, err := s.products.SlugExists(slug)
	if err != nil {
		return nil, err
	}
	if exists {
		slug = slug + "-" + randomSlugSuffix()
	}

	variants := input.Variants
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.NewString()
		}
	}

	now := time.Now().UTC()
	product := &catalog.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Price:       input.Price,
		SalePrice:   input.SalePrice,
		Fabric:      input.Fabric,
		Tags:        input.Tags,
		Variants:    variants,
		IsFeatured:  input.IsFeatured,
		IsActive:    true,
		ReadyToShip: input.ReadyToShip,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.fillCategoryName(product); err != nil {
		return nil, err
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx)
	return product, nil
}

// UpdateProduct applies an admin partial update.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*catalog.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrMissingProductName
		}
		product.Name = name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		product.CategoryID = *patch.CategoryID
		product.CategoryName = ""
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *patch.Price
	}
	if patch.SalePrice != nil {
		product.SalePrice = patch.SalePrice
	}
	if patch.Fabric != nil {
		product.Fabric = *patch.Fabric
	}
	if patch.Tags != nil {
		product.Tags = *patch.Tags
	}
	if patch.Variants != nil {
		variants := *patch.Variants
		for i := range variants {
			if variants[i].ID == "" {
				variants[i].ID = uuid.NewString()
			}
		}
		product.Variants = variants
	}
	if patch.IsFeatured != nil {
		product.IsFeatured = *patch.IsFeatured
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	if patch.ReadyToShip != nil {
		product.ReadyToShip = *patch.ReadyToShip
	}

	if err := s.fillCategoryName(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Save(product); err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx)
	return product, nil
}

// DeleteProduct deactivates a product, hiding it from the storefront while
// keeping existing order snapshots valid.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Deactivate(id); err != nil {
		return err
	}
	s.invalidateProducts(ctx)
	return nil
}

// CacheStats returns the cache counters, or nil when caching is disabled.
func (s *Service) CacheStats() *cache.StatsSnapshot {
	if s.cache == nil {
		return nil
	}
	stats := s.cache.Stats()
	return &stats
}

func (s *Service) fillCategoryName(product *catalog.Product) error {
	if product.CategoryID == "" {
		product.CategoryName = ""
		return nil
	}
	categories, err := s.products.ListCategories()
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == product.CategoryID {
			product.CategoryName = c.Name
			return nil
		}
	}
	return nil
}

func toListItem(p *catalog.Product) ProductListItem {
	sizes := p.Sizes()
	catalog.SortSizeLabels(sizes)
	return ProductListItem{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Price:        p.Price,
		SalePrice:    p.SalePrice,
		Image:        p.FirstImage(),
		Colors:       p.Colors(),
		Sizes:        sizes,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		IsFeatured:   p.IsFeatured,
		ReadyToShip:  p.ReadyToShip,
	}
}

func listCacheKey(q catalog.ListQuery) string {
	min, max := "", ""
	if q.MinPrice != nil {
		min = fmt.Sprintf("%.2f", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		max = fmt.Sprintf("%.2f", *q.MaxPrice)
	}
	return fmt.Sprintf("products:list:%s:%s:%s:%s:%s:%s:%s:%d:%d",
		q.CategoryID, min, max,
		strings.Join(q.Colors, ","), strings.Join(q.Sizes, ","),
		q.Search, q.Sort, q.Page, q.PageSize)
}

// Slugify turns a display name into a URL slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomSlugSuffix() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

// Cache helpers are no-ops without a cache; read-path cache errors are
// logged, never surfaced.

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("[catalog] Cache read failed for %s: %v", key, err)
		return false
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("[catalog] Cache write failed for %s: %v", key, err)
	}
}

func (s *Service) cacheDelete(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("[catalog] Cache delete failed for %s: %v", key, err)
	}
}

func (s *Service) invalidateProducts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "products:*"); err != nil {
		log.Printf("[catalog] Cache invalidation failed: %v", err)
	}
}
