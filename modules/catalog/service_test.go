package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&catalog.Category{}, &catalog.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(catalog.NewRepository(db), nil)
}

func productInput(name string, price float64) ProductInput {
	return ProductInput{
		Name:  name,
		Price: price,
		Variants: []catalog.Variant{{
			Color: "Red",
			Sizes: []catalog.SizeStock{{Size: "M", Stock: 3}},
		}},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Silk Kurta", "silk-kurta"},
		{"  Bridal Lehenga -- Red  ", "bridal-lehenga-red"},
		{"Anarkali (2024)", "anarkali-2024"},
		{"---", ""},
		{"Déjà Vu", "d-j-vu"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestService_CreateProduct(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 900))
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if p.Slug != "silk-kurta" {
		t.Errorf("Slug = %q, want silk-kurta", p.Slug)
	}
	if !p.IsActive {
		t.Error("new product should be active")
	}
	if p.Variants[0].ID == "" {
		t.Error("variant should get a generated id")
	}
}

func TestService_CreateProduct_Validation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, productInput("  ", 900)); !errors.Is(err, ErrMissingProductName) {
		t.Errorf("blank name error = %v, want ErrMissingProductName", err)
	}
	if _, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 0)); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("zero price error = %v, want ErrInvalidPrice", err)
	}
}

func TestService_CreateProduct_SlugCollision(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 900))
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	second, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 950))
	if err != nil {
		t.Fatalf("CreateProduct() duplicate name error = %v", err)
	}
	if second.Slug == first.Slug {
		t.Errorf("colliding slug should get a suffix, both are %q", second.Slug)
	}
	if !strings.HasPrefix(second.Slug, "silk-kurta-") {
		t.Errorf("Slug = %q, want silk-kurta-<suffix>", second.Slug)
	}
}

func TestService_CreateCategory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Festive Wear"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if c.Slug != "festive-wear" {
		t.Errorf("Slug = %q, want festive-wear", c.Slug)
	}

	dup, err := svc.CreateCategory(ctx, CategoryInput{Name: "Festive Wear"})
	if err != nil {
		t.Fatalf("CreateCategory() duplicate name error = %v", err)
	}
	if dup.Slug == c.Slug {
		t.Errorf("colliding category slug should get a suffix, both are %q", dup.Slug)
	}
}

func TestService_ListProducts(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Sarees"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	in := productInput("Banarasi Saree", 1500)
	in.CategoryID = category.ID
	if _, err := svc.CreateProduct(ctx, in); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if _, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 900)); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	page, err := svc.ListProducts(ctx, ListInput{CategorySlug: "sarees"})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("Total = %d, want 1", page.Total)
	}
	if page.Items[0].Name != "Banarasi Saree" {
		t.Errorf("Items[0].Name = %q", page.Items[0].Name)
	}
	if page.Items[0].CategoryName != "Sarees" {
		t.Errorf("CategoryName = %q, want Sarees", page.Items[0].CategoryName)
	}
	if page.Page != 1 || page.PageSize != 20 || page.TotalPages != 1 {
		t.Errorf("pagination = %d/%d/%d, want 1/20/1", page.Page, page.PageSize, page.TotalPages)
	}

	if _, err := svc.ListProducts(ctx, ListInput{CategorySlug: "no-such"}); !errors.Is(err, catalog.ErrCategoryNotFound) {
		t.Errorf("unknown category error = %v, want ErrCategoryNotFound", err)
	}
}

func TestService_SearchProducts(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 900)); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	if _, err := svc.SearchProducts(ctx, " k ", 10); !errors.Is(err, ErrQueryTooShort) {
		t.Errorf("short query error = %v, want ErrQueryTooShort", err)
	}

	results, err := svc.SearchProducts(ctx, "kurta", 0)
	if err != nil {
		t.Fatalf("SearchProducts() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "Silk Kurta" {
		t.Fatalf("results = %+v, want one Silk Kurta", results)
	}
}

func TestService_UpdateProduct(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 900))
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	sale := 750.0
	featured := true
	updated, err := svc.UpdateProduct(ctx, p.ID, ProductPatch{SalePrice: &sale, IsFeatured: &featured})
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if updated.SalePrice == nil || *updated.SalePrice != 750 {
		t.Errorf("SalePrice = %v, want 750", updated.SalePrice)
	}
	if !updated.IsFeatured {
		t.Error("IsFeatured should be set")
	}
	if updated.Name != "Silk Kurta" || updated.Price != 900 {
		t.Errorf("unpatched fields changed: %q %v", updated.Name, updated.Price)
	}

	bad := 0.0
	if _, err := svc.UpdateProduct(ctx, p.ID, ProductPatch{Price: &bad}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("zero price error = %v, want ErrInvalidPrice", err)
	}
	if _, err := svc.UpdateProduct(ctx, "missing", ProductPatch{}); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("unknown id error = %v, want ErrProductNotFound", err)
	}
}

func TestService_DeleteProduct(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, productInput("Silk Kurta", 900))
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}

	// Gone from the storefront, still visible to the admin surface.
	if _, err := svc.GetProduct(ctx, p.Slug); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("storefront lookup error = %v, want ErrProductNotFound", err)
	}
	kept, err := svc.GetProductByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProductByID() error = %v", err)
	}
	if kept.IsActive {
		t.Error("deleted product should be inactive")
	}

	if err := svc.DeleteProduct(ctx, "missing"); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("unknown id error = %v, want ErrProductNotFound", err)
	}
}

func TestService_GetCategory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CategoryInput{Name: "Lehengas", Description: "Bridal"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Errorf("category id %q is not a uuid: %v", created.ID, err)
	}

	got, err := svc.GetCategory(ctx, created.Slug)
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if got.Name != "Lehengas" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.CreatedAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("CreatedAt in the future: %v", got.CreatedAt)
	}
}
