package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartdomain "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/cart"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
)

var (
	// ErrNoOwner is returned when neither a user nor a session key is present.
	ErrNoOwner = errors.New("no cart owner")
	// ErrLineNotFound is returned when the cart has no such line.
	ErrLineNotFound = errors.New("cart item not found")
	// ErrQuantityRange is returned when a quantity falls outside 1..10.
	ErrQuantityRange = errors.New("quantity must be between 1 and 10")
)

// OwnerKey identifies a cart owner. UserID wins when both are set.
type OwnerKey struct {
	UserID    string
	SessionID string
}

// AddLineInput describes an item being added to a cart.
type AddLineInput struct {
	ProductID string
	VariantID string
	Size      string
	Quantity  int
}

// Service is the cart engine. Every mutation re-resolves the product,
// variant and size against the live catalog so prices and stock are always
// current at the moment of the change.
type Service struct {
	db       *gorm.DB
	carts    *cartdomain.Repository
	products *catalog.Repository
}

// NewService creates a cart service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		carts:    cartdomain.NewRepository(db),
		products: catalog.NewRepository(db),
	}
}

// GetCart returns the owner's cart. Owners without a persisted cart get an
// empty transient one; a cart row is only created on the first add.
func (s *Service) GetCart(_ context.Context, owner OwnerKey) (*cartdomain.Cart, error) {
	c, err := s.findForOwner(owner)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return emptyCart(owner), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddLine adds an item to the cart, folding it into an existing line for the
// same product/variant/size. Line quantities silently cap at
// MaxLineQuantity; the resulting quantity must be in stock.
func (s *Service) AddLine(_ context.Context, owner OwnerKey, input AddLineInput) (*cartdomain.Cart, error) {
	if owner.UserID == "" && owner.SessionID == "" {
		return nil, ErrNoOwner
	}
	if input.Quantity < 1 {
		return nil, ErrQuantityRange
	}

	product, variant, size, err := s.resolve(input.ProductID, input.VariantID, input.Size)
	if err != nil {
		return nil, err
	}

	c, err := s.findOrCreateForOwner(owner)
	if err != nil {
		return nil, err
	}

	line := c.FindMatchingLine(input.ProductID, input.VariantID, size.Size)
	quantity := input.Quantity
	if line != nil {
		quantity += line.Quantity
	}
	if quantity > cartdomain.MaxLineQuantity {
		quantity = cartdomain.MaxLineQuantity
	}
	if size.Stock < quantity {
		return nil, &catalog.InsufficientStockError{
			ProductName: product.Name,
			Size:        size.Size,
			Available:   size.Stock,
			Requested:   quantity,
		}
	}

	if line != nil {
		line.Quantity = quantity
		line.UnitPrice = product.EffectivePrice()
	} else {
		c.Lines = append(c.Lines, cartdomain.Line{
			ID:          uuid.NewString(),
			ProductID:   product.ID,
			VariantID:   variant.ID,
			Size:        size.Size,
			Quantity:    quantity,
			UnitPrice:   product.EffectivePrice(),
			ProductName: product.Name,
			ProductSlug: product.Slug,
			Color:       variant.Color,
			Image:       firstImage(variant, product),
		})
	}

	if err := s.carts.SaveLines(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateLineQuantity sets a line's quantity. Unlike AddLine, out-of-range
// quantities are rejected rather than capped.
func (s *Service) UpdateLineQuantity(_ context.Context, owner OwnerKey, lineID string, quantity int) (*cartdomain.Cart, error) {
	if quantity < 1 || quantity > cartdomain.MaxLineQuantity {
		return nil, ErrQuantityRange
	}

	c, err := s.findForOwner(owner)
	if err != nil {
		return nil, err
	}
	line := c.FindLine(lineID)
	if line == nil {
		return nil, ErrLineNotFound
	}

	product, _, size, err := s.resolve(line.ProductID, line.VariantID, line.Size)
	if err != nil {
		return nil, err
	}
	if size.Stock < quantity {
		return nil, &catalog.InsufficientStockError{
			ProductName: product.Name,
			Size:        size.Size,
			Available:   size.Stock,
			Requested:   quantity,
		}
	}

	line.Quantity = quantity
	line.UnitPrice = product.EffectivePrice()

	if err := s.carts.SaveLines(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveLine deletes one line from the cart.
func (s *Service) RemoveLine(_ context.Context, owner OwnerKey, lineID string) (*cartdomain.Cart, error) {
	c, err := s.findForOwner(owner)
	if err != nil {
		return nil, err
	}
	if !c.RemoveLine(lineID) {
		return nil, ErrLineNotFound
	}
	if err := s.carts.SaveLines(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart.
func (s *Service) Clear(_ context.Context, owner OwnerKey) (*cartdomain.Cart, error) {
	c, err := s.findForOwner(owner)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return emptyCart(owner), nil
	}
	if err != nil {
		return nil, err
	}
	c.Lines = []cartdomain.Line{}
	if err := s.carts.SaveLines(c); err != nil {
		return nil, err
	}
	return c, nil
}

// MergeGuestCart folds the session's guest cart into the user's cart in one
// transaction. With no user cart the guest cart is re-owned in place;
// otherwise lines merge key-wise with quantities capped at MaxLineQuantity
// and the guest cart is deleted. A replay finds no guest cart and no-ops.
func (s *Service) MergeGuestCart(_ context.Context, sessionID, userID string) error {
	if sessionID == "" || userID == "" {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)

		guest, err := carts.FindBySession(sessionID)
		if errors.Is(err, cartdomain.ErrCartNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		owned, err := carts.FindByUser(userID)
		if errors.Is(err, cartdomain.ErrCartNotFound) {
			return carts.AssignToUser(guest.ID, userID)
		}
		if err != nil {
			return err
		}

		for _, gl := range guest.Lines {
			if line := owned.FindMatchingLine(gl.ProductID, gl.VariantID, gl.Size); line != nil {
				line.Quantity += gl.Quantity
				if line.Quantity > cartdomain.MaxLineQuantity {
					line.Quantity = cartdomain.MaxLineQuantity
				}
			} else {
				owned.Lines = append(owned.Lines, gl)
			}
		}

		if err := carts.SaveLines(owned); err != nil {
			return err
		}
		return carts.Delete(guest.ID)
	})
}

func (s *Service) findForOwner(owner OwnerKey) (*cartdomain.Cart, error) {
	if owner.UserID != "" {
		return s.carts.FindByUser(owner.UserID)
	}
	if owner.SessionID != "" {
		return s.carts.FindBySession(owner.SessionID)
	}
	return nil, ErrNoOwner
}

func (s *Service) findOrCreateForOwner(owner OwnerKey) (*cartdomain.Cart, error) {
	c, err := s.findForOwner(owner)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, cartdomain.ErrCartNotFound) {
		return nil, err
	}
	c = emptyCart(owner)
	if err := s.carts.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func emptyCart(owner OwnerKey) *cartdomain.Cart {
	now := time.Now().UTC()
	c := &cartdomain.Cart{
		ID:        uuid.NewString(),
		Lines:     []cartdomain.Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if owner.UserID != "" {
		id := owner.UserID
		c.UserID = &id
	} else if owner.SessionID != "" {
		id := owner.SessionID
		c.SessionID = &id
	}
	return c
}

func (s *Service) resolve(productID, variantID, sizeLabel string) (*catalog.Product, *catalog.Variant, *catalog.SizeStock, error) {
	product, err := s.products.FindActiveByID(productID)
	if err != nil {
		return nil, nil, nil, err
	}
	variant := product.FindVariant(variantID)
	if variant == nil {
		return nil, nil, nil, catalog.ErrVariantNotFound
	}
	size := variant.FindSize(sizeLabel)
	if size == nil {
		return nil, nil, nil, catalog.ErrSizeNotFound
	}
	return product, variant, size, nil
}

func firstImage(variant *catalog.Variant, product *catalog.Product) string {
	if len(variant.Images) > 0 {
		return variant.Images[0]
	}
	return product.FirstImage()
}
