package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&Category{}, &Product{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedProduct(t *testing.T, repo *Repository, name string, price float64, salePrice *float64, variants []Variant) *Product {
	t.Helper()

	now := time.Now()
	p := &Product{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slugFor(name),
		Price:     price,
		SalePrice: salePrice,
		Variants:  variants,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(p); err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return p
}

// slugFor is a minimal slug helper for test fixtures.
func slugFor(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+'a'-'A')
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			out = append(out, c)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}

func variantWith(color string, sizes ...SizeStock) Variant {
	return Variant{ID: uuid.New().String(), Color: color, Sizes: sizes}
}

func f64(v float64) *float64 { return &v }

func TestProduct_EffectivePrice(t *testing.T) {
	p := &Product{Price: 1500}
	if got := p.EffectivePrice(); got != 1500 {
		t.Errorf("EffectivePrice() = %v, want 1500", got)
	}

	p.SalePrice = f64(999)
	if got := p.EffectivePrice(); got != 999 {
		t.Errorf("EffectivePrice() with sale = %v, want 999", got)
	}
}

func TestVariant_FindSize_CaseInsensitive(t *testing.T) {
	v := variantWith("Red", SizeStock{Size: "M", Stock: 3})
	if v.FindSize("m") == nil {
		t.Error("FindSize(\"m\") should match size M")
	}
	if v.FindSize("XL") != nil {
		t.Error("FindSize(\"XL\") should not match")
	}
}

func TestRepository_FindBySlug_InactiveHidden(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	p := seedProduct(t, repo, "Hidden Kurta", 1200, nil, nil)
	if err := repo.Deactivate(p.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	if _, err := repo.FindBySlug(p.Slug); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("FindBySlug() error = %v, want ErrProductNotFound", err)
	}

	// Admin lookups still see the row.
	if _, err := repo.FindByID(p.ID); err != nil {
		t.Errorf("FindByID() error = %v", err)
	}
}

func TestRepository_Deactivate_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	if err := repo.Deactivate("no-such-id"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Deactivate() error = %v, want ErrProductNotFound", err)
	}
}

func TestRepository_Create_DuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, repo, "Silk Saree", 2500, nil, nil)
	dup := &Product{
		ID:       uuid.New().String(),
		Name:     "Silk Saree",
		Slug:     "silk-saree",
		Price:    2500,
		IsActive: true,
	}
	if err := repo.Create(dup); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("Create() duplicate slug error = %v, want ErrSlugTaken", err)
	}
}

func TestRepository_List_EffectivePriceFilterAndSort(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, repo, "Plain Kurta", 800, nil, nil)
	// On sale: effective price 500 despite the 1800 list price.
	seedProduct(t, repo, "Festive Kurta", 1800, f64(500), nil)
	seedProduct(t, repo, "Bridal Lehenga", 5000, nil, nil)

	products, total, err := repo.List(ListQuery{
		MaxPrice: f64(1000),
		Sort:     SortPriceAsc,
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Fatalf("List() total = %d, want 2", total)
	}
	if products[0].Name != "Festive Kurta" || products[1].Name != "Plain Kurta" {
		t.Errorf("List() order = %s, %s; want Festive Kurta, Plain Kurta",
			products[0].Name, products[1].Name)
	}
}

func TestRepository_List_SortOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	older := seedProduct(t, repo, "Zari Dupatta", 600, nil, nil)
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	if err := repo.Save(older); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	featured := seedProduct(t, repo, "Anarkali Gown", 2200, nil, nil)
	featured.IsFeatured = true
	featured.CreatedAt = featured.CreatedAt.Add(-2 * time.Hour)
	if err := repo.Save(featured); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	seedProduct(t, repo, "Mirror Work Kurta", 1400, nil, nil)

	tests := []struct {
		sort string
		want string
	}{
		{SortFeatured, "Anarkali Gown"},
		{"bogus", "Anarkali Gown"},
		{SortNewest, "Mirror Work Kurta"},
		{SortNameAsc, "Anarkali Gown"},
		{SortNameDesc, "Zari Dupatta"},
		{SortPriceAsc, "Zari Dupatta"},
	}
	for _, tt := range tests {
		products, _, err := repo.List(ListQuery{Sort: tt.sort, Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("List(%s) error = %v", tt.sort, err)
		}
		if products[0].Name != tt.want {
			t.Errorf("List(%s) first = %s, want %s", tt.sort, products[0].Name, tt.want)
		}
	}
}

func TestRepository_List_VariantFiltersBeforePagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, repo, "Red Anarkali", 1500, nil,
		[]Variant{variantWith("Red", SizeStock{Size: "M", Stock: 5})})
	seedProduct(t, repo, "Blue Anarkali", 1500, nil,
		[]Variant{variantWith("Blue", SizeStock{Size: "M", Stock: 5})})
	seedProduct(t, repo, "Red Sharara", 1700, nil,
		[]Variant{variantWith("Red", SizeStock{Size: "S", Stock: 2})})

	// Color filter applies before pagination, so total reflects the
	// filtered set even with a one-item page.
	products, total, err := repo.List(ListQuery{
		Colors:   []string{"red"},
		Page:     1,
		PageSize: 1,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("List() total = %d, want 2", total)
	}
	if len(products) != 1 {
		t.Errorf("List() page size = %d, want 1", len(products))
	}

	// Size filter, case-insensitive.
	_, total, err = repo.List(ListQuery{Sizes: []string{"s"}, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("List() size-filtered total = %d, want 1", total)
	}
}

func TestRepository_List_SearchMatchesNameAndDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	p := seedProduct(t, repo, "Chikankari Kurta", 1300, nil, nil)
	p.Description = "Hand embroidered lucknowi work"
	if err := repo.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	seedProduct(t, repo, "Plain Saree", 900, nil, nil)

	_, total, err := repo.List(ListQuery{Search: "lucknowi", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("List() search total = %d, want 1", total)
	}
}

func TestRepository_DeductStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	variant := variantWith("Green", SizeStock{Size: "M", Stock: 5})
	p := seedProduct(t, repo, "Cotton Kurta", 1100, nil, []Variant{variant})

	if err := repo.DeductStock(p.ID, variant.ID, "M", 2); err != nil {
		t.Fatalf("DeductStock() error = %v", err)
	}

	reloaded, err := repo.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got := reloaded.Variants[0].Sizes[0].Stock; got != 3 {
		t.Errorf("stock after deduction = %d, want 3", got)
	}
}

func TestRepository_DeductStock_Insufficient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	variant := variantWith("Green", SizeStock{Size: "M", Stock: 2})
	p := seedProduct(t, repo, "Cotton Kurta", 1100, nil, []Variant{variant})

	err := repo.DeductStock(p.ID, variant.ID, "M", 5)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("DeductStock() error = %v, want *InsufficientStockError", err)
	}
	if stockErr.Available != 2 || stockErr.Requested != 5 {
		t.Errorf("stock error = %+v, want available 2 requested 5", stockErr)
	}

	// Stock is untouched on failure.
	reloaded, _ := repo.FindByID(p.ID)
	if got := reloaded.Variants[0].Sizes[0].Stock; got != 2 {
		t.Errorf("stock after failed deduction = %d, want 2", got)
	}
}

func TestRepository_DeductStock_UnknownVariantAndSize(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	variant := variantWith("Green", SizeStock{Size: "M", Stock: 2})
	p := seedProduct(t, repo, "Cotton Kurta", 1100, nil, []Variant{variant})

	if err := repo.DeductStock(p.ID, "missing", "M", 1); !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("DeductStock() unknown variant error = %v, want ErrVariantNotFound", err)
	}
	if err := repo.DeductStock(p.ID, variant.ID, "XXL", 1); !errors.Is(err, ErrSizeNotFound) {
		t.Errorf("DeductStock() unknown size error = %v, want ErrSizeNotFound", err)
	}
}

func TestSortSizeLabels(t *testing.T) {
	labels := []string{"XL", "S", "Free Size", "M"}
	SortSizeLabels(labels)
	want := []string{"S", "M", "XL", "Free Size"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("SortSizeLabels() = %v, want %v", labels, want)
		}
	}
}
