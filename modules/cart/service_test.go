package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	cartdomain "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/cart"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
)

// setupService creates a cart service on an in-memory database.
func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&catalog.Product{}, &cartdomain.Cart{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewService(db)
}

// seedProduct inserts a product with one variant and returns it.
func seedProduct(t *testing.T, svc *Service, name string, price float64, salePrice *float64, stock int) (*catalog.Product, *catalog.Variant) {
	t.Helper()

	variant := catalog.Variant{
		ID:     uuid.New().String(),
		Color:  "Maroon",
		Images: []string{"https://cdn.example.com/" + name + ".jpg"},
		Sizes:  []catalog.SizeStock{{Size: "M", Stock: stock}},
	}
	now := time.Now()
	p := &catalog.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      uuid.New().String(),
		Price:     price,
		SalePrice: salePrice,
		Variants:  []catalog.Variant{variant},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.products.Create(p); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return p, &p.Variants[0]
}

func f64(v float64) *float64 { return &v }

func TestService_AddLine(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, f64(1500), 8)
	owner := OwnerKey{SessionID: "guest-1"}

	c, err := svc.AddLine(ctx, owner, AddLineInput{
		ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(c.Lines))
	}
	line := c.Lines[0]
	if line.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", line.Quantity)
	}
	if line.UnitPrice != 1500 {
		t.Errorf("unit price = %v, want sale price 1500", line.UnitPrice)
	}
	if line.Color != "Maroon" || line.ProductName != "Silk Kurta" {
		t.Errorf("line display fields = %q/%q", line.ProductName, line.Color)
	}
	if c.Subtotal() != 3000 {
		t.Errorf("subtotal = %v, want 3000", c.Subtotal())
	}
}

func TestService_AddLine_FoldsAndCapsAtTen(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 50)
	owner := OwnerKey{SessionID: "guest-1"}

	if _, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 6}); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	// Same product/variant/size folds into the existing line; size matching
	// ignores case. 6 + 6 caps silently at 10.
	c, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "m", Quantity: 6})
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("line count = %d, want 1 (folded)", len(c.Lines))
	}
	if c.Lines[0].Quantity != 10 {
		t.Errorf("quantity = %d, want capped 10", c.Lines[0].Quantity)
	}
}

func TestService_AddLine_InsufficientStock(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 3)
	owner := OwnerKey{SessionID: "guest-1"}

	_, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 5})
	var stockErr *catalog.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("AddLine() error = %v, want *InsufficientStockError", err)
	}
	if stockErr.Available != 3 {
		t.Errorf("available = %d, want 3", stockErr.Available)
	}
}

func TestService_AddLine_UnknownTargets(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 3)
	owner := OwnerKey{SessionID: "guest-1"}

	if _, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: "missing", VariantID: v.ID, Size: "M", Quantity: 1}); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("unknown product error = %v, want ErrProductNotFound", err)
	}
	if _, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: "missing", Size: "M", Quantity: 1}); !errors.Is(err, catalog.ErrVariantNotFound) {
		t.Errorf("unknown variant error = %v, want ErrVariantNotFound", err)
	}
	if _, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "XS", Quantity: 1}); !errors.Is(err, catalog.ErrSizeNotFound) {
		t.Errorf("unknown size error = %v, want ErrSizeNotFound", err)
	}
}

func TestService_UpdateLineQuantity_Bounds(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 50)
	owner := OwnerKey{SessionID: "guest-1"}

	c, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	lineID := c.Lines[0].ID

	for _, quantity := range []int{0, -1, 11} {
		if _, err := svc.UpdateLineQuantity(ctx, owner, lineID, quantity); !errors.Is(err, ErrQuantityRange) {
			t.Errorf("UpdateLineQuantity(%d) error = %v, want ErrQuantityRange", quantity, err)
		}
	}

	c, err = svc.UpdateLineQuantity(ctx, owner, lineID, 10)
	if err != nil {
		t.Fatalf("UpdateLineQuantity(10) error = %v", err)
	}
	if c.Lines[0].Quantity != 10 {
		t.Errorf("quantity = %d, want 10", c.Lines[0].Quantity)
	}

	if _, err := svc.UpdateLineQuantity(ctx, owner, "missing-line", 2); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("unknown line error = %v, want ErrLineNotFound", err)
	}
}

func TestService_RemoveLineAndClear(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 50)
	owner := OwnerKey{SessionID: "guest-1"}

	c, err := svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	c, err = svc.RemoveLine(ctx, owner, c.Lines[0].ID)
	if err != nil {
		t.Fatalf("RemoveLine() error = %v", err)
	}
	if len(c.Lines) != 0 {
		t.Errorf("line count after remove = %d, want 0", len(c.Lines))
	}

	if _, err := svc.RemoveLine(ctx, owner, "gone"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("RemoveLine() missing error = %v, want ErrLineNotFound", err)
	}

	if _, err = svc.AddLine(ctx, owner, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	c, err = svc.Clear(ctx, owner)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if c.ItemCount() != 0 {
		t.Errorf("item count after clear = %d, want 0", c.ItemCount())
	}
}

func TestService_GetCart_EmptyForNewOwner(t *testing.T) {
	svc := setupService(t)

	c, err := svc.GetCart(context.Background(), OwnerKey{SessionID: "fresh"})
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if len(c.Lines) != 0 || c.Subtotal() != 0 {
		t.Errorf("new owner's cart should be empty, got %d lines", len(c.Lines))
	}
}

func TestService_MergeGuestCart_ReownsWhenUserHasNoCart(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 50)

	guest := OwnerKey{SessionID: "guest-1"}
	if _, err := svc.AddLine(ctx, guest, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 3}); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	if err := svc.MergeGuestCart(ctx, "guest-1", "user-1"); err != nil {
		t.Fatalf("MergeGuestCart() error = %v", err)
	}

	merged, err := svc.GetCart(ctx, OwnerKey{UserID: "user-1"})
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if merged.ItemCount() != 3 {
		t.Errorf("merged item count = %d, want 3", merged.ItemCount())
	}

	// The guest session no longer owns a cart.
	orphan, err := svc.GetCart(ctx, guest)
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if len(orphan.Lines) != 0 {
		t.Errorf("guest cart should be gone, got %d lines", len(orphan.Lines))
	}
}

func TestService_MergeGuestCart_MergesAndCaps(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	p, v := seedProduct(t, svc, "Silk Kurta", 1800, nil, 50)
	other, otherV := seedProduct(t, svc, "Sharara Set", 2600, nil, 50)

	user := OwnerKey{UserID: "user-1"}
	if _, err := svc.AddLine(ctx, user, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 7}); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	guest := OwnerKey{SessionID: "guest-1"}
	if _, err := svc.AddLine(ctx, guest, AddLineInput{ProductID: p.ID, VariantID: v.ID, Size: "M", Quantity: 6}); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	if _, err := svc.AddLine(ctx, guest, AddLineInput{ProductID: other.ID, VariantID: otherV.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	if err := svc.MergeGuestCart(ctx, "guest-1", "user-1"); err != nil {
		t.Fatalf("MergeGuestCart() error = %v", err)
	}

	merged, err := svc.GetCart(ctx, user)
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if len(merged.Lines) != 2 {
		t.Fatalf("merged line count = %d, want 2", len(merged.Lines))
	}
	if line := merged.FindMatchingLine(p.ID, v.ID, "M"); line == nil || line.Quantity != 10 {
		t.Errorf("overlapping line should cap at 10")
	}
	if line := merged.FindMatchingLine(other.ID, otherV.ID, "M"); line == nil || line.Quantity != 2 {
		t.Errorf("distinct guest line should carry over")
	}

	// A replayed merge finds no guest cart and no-ops.
	if err := svc.MergeGuestCart(ctx, "guest-1", "user-1"); err != nil {
		t.Fatalf("replayed MergeGuestCart() error = %v", err)
	}
	again, _ := svc.GetCart(ctx, user)
	if again.ItemCount() != merged.ItemCount() {
		t.Errorf("replayed merge changed the cart: %d -> %d", merged.ItemCount(), again.ItemCount())
	}
}
