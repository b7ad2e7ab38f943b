package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	cartdomain "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/cart"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/order"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

var (
	// ErrEmptyCart is returned when checkout starts with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidStatus is returned for an unknown order status.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidPaymentStatus is returned for an unknown payment status.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	// ErrOrderNumberExhausted is returned when number generation keeps
	// colliding. Practically unreachable with a 36^4 suffix space per day.
	ErrOrderNumberExhausted = errors.New("could not allocate order number")
)

const orderNumberAttempts = 5

// CreateOrderInput is the payload for placing an order.
type CreateOrderInput struct {
	AddressID      string
	IdempotencyKey string
	Notes          string
}

// ValidatedItem is one cart line checked against the live catalog.
type ValidatedItem struct {
	LineID         string  `json:"line_id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	VariantID      string  `json:"variant_id"`
	Color          string  `json:"color"`
	Size           string  `json:"size"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	LineTotal      float64 `json:"line_total"`
	StockAvailable int     `json:"stock_available"`
	Valid          bool    `json:"valid"`
}

// ValidationResult aggregates every problem found in the cart instead of
// failing on the first. Totals cover only currently-valid lines.
type ValidationResult struct {
	Valid        bool            `json:"valid"`
	Items        []ValidatedItem `json:"items"`
	Errors       []string        `json:"errors"`
	Subtotal     float64         `json:"subtotal"`
	ShippingCost float64         `json:"shipping_cost"`
	Total        float64         `json:"total"`
	Addresses    []user.Address  `json:"addresses"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalOrders    int64            `json:"total_orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalCustomers int64            `json:"total_customers"`
	ActiveProducts int64            `json:"active_products"`
	TotalRevenue   float64          `json:"total_revenue"`
}

// Service implements the checkout workflow and order management.
type Service struct {
	db        *gorm.DB
	orders    *order.Repository
	carts     *cartdomain.Repository
	products  *catalog.Repository
	users     *user.Repository
	addresses *user.AddressRepository
	numbers   *OrderNumberGenerator
}

// NewService creates a checkout service.
func NewService(db *gorm.DB) (*Service, error) {
	numbers, err := NewOrderNumberGenerator()
	if err != nil {
		return nil, err
	}
	return &Service{
		db:        db,
		orders:    order.NewRepository(db),
		carts:     cartdomain.NewRepository(db),
		products:  catalog.NewRepository(db),
		users:     user.NewRepository(db),
		addresses: user.NewAddressRepository(db),
		numbers:   numbers,
	}, nil
}

// ValidateCheckout re-checks every cart line against the live catalog,
// collecting all problems rather than stopping at the first. Prices are the
// current effective prices, not the ones captured in the cart. An empty cart
// is a request-level error, not an aggregated one.
func (s *Service) ValidateCheckout(_ context.Context, userID string) (*ValidationResult, error) {
	c, err := s.carts.FindByUser(userID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	result := &ValidationResult{Items: []ValidatedItem{}, Errors: []string{}}

	for _, line := range c.Lines {
		item := ValidatedItem{
			LineID:    line.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Color:     line.Color,
		}

		product, err := s.products.FindActiveByID(line.ProductID)
		if err != nil {
			item.ProductName = line.ProductName
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s is no longer available", line.ProductName))
			result.Items = append(result.Items, item)
			continue
		}
		item.ProductName = product.Name

		variant := product.FindVariant(line.VariantID)
		if variant == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s (%s) is no longer available", product.Name, line.Color))
			result.Items = append(result.Items, item)
			continue
		}
		size := variant.FindSize(line.Size)
		if size == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s is no longer available in size %s", product.Name, line.Size))
			result.Items = append(result.Items, item)
			continue
		}

		item.StockAvailable = size.Stock
		item.UnitPrice = product.EffectivePrice()
		item.LineTotal = float64(line.Quantity) * item.UnitPrice

		if size.Stock < line.Quantity {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s (size %s): only %d left in stock", product.Name, size.Size, size.Stock))
			result.Items = append(result.Items, item)
			continue
		}

		item.Valid = true
		result.Subtotal += item.LineTotal
		result.Items = append(result.Items, item)
	}

	result.Valid = len(result.Errors) == 0
	if result.Subtotal > 0 {
		result.ShippingCost = order.ShippingCost(result.Subtotal)
		result.Total = result.Subtotal + result.ShippingCost
	}

	addresses, err := s.addresses.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	result.Addresses = addresses

	return result, nil
}

// CreateOrder places an order from the user's cart: snapshots every line at
// current prices, decrements stock, allocates an order number and clears the
// cart, all in one transaction so a failure on any line rolls everything
// back. A replayed idempotency key returns the existing order untouched.
func (s *Service) CreateOrder(_ context.Context, userID string, input CreateOrderInput) (*order.Order, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(userID, input.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, order.ErrOrderNotFound) {
			return nil, err
		}
	}

	var created *order.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)
		orders := s.orders.WithTx(tx)
		addresses := s.addresses.WithTx(tx)

		c, err := carts.FindByUser(userID)
		if errors.Is(err, cartdomain.ErrCartNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(c.Lines) == 0 {
			return ErrEmptyCart
		}

		address, err := addresses.FindForUser(input.AddressID, userID)
		if err != nil {
			return err
		}

		items := make([]order.Item, 0, len(c.Lines))
		var subtotal float64
		for _, line := range c.Lines {
			product, err := products.FindActiveByID(line.ProductID)
			if err != nil {
				return err
			}
			variant := product.FindVariant(line.VariantID)
			if variant == nil {
				return catalog.ErrVariantNotFound
			}
			size := variant.FindSize(line.Size)
			if size == nil {
				return catalog.ErrSizeNotFound
			}

			if err := products.DeductStock(product.ID, variant.ID, size.Size, line.Quantity); err != nil {
				return err
			}

			unitPrice := product.EffectivePrice()
			lineTotal := float64(line.Quantity) * unitPrice
			subtotal += lineTotal
			items = append(items, order.Item{
				ProductID:   product.ID,
				ProductName: product.Name,
				VariantID:   variant.ID,
				Color:       variant.Color,
				Size:        size.Size,
				Quantity:    line.Quantity,
				UnitPrice:   unitPrice,
				LineTotal:   lineTotal,
				Image:       line.Image,
			})
		}

		number, err := s.allocateOrderNumber(orders)
		if err != nil {
			return err
		}

		shipping := order.ShippingCost(subtotal)
		now := time.Now().UTC()
		o := &order.Order{
			ID:          uuid.NewString(),
			OrderNumber: number,
			UserID:      userID,
			Items:       items,
			ShippingAddress: order.AddressSnapshot{
				FullName:   address.FullName,
				Phone:      address.Phone,
				Line1:      address.Line1,
				Line2:      address.Line2,
				City:       address.City,
				State:      address.State,
				PostalCode: address.PostalCode,
				Country:    address.Country,
			},
			Subtotal:      subtotal,
			ShippingCost:  shipping,
			Total:         subtotal + shipping,
			Status:        order.StatusConfirmed,
			PaymentMethod: order.PaymentMethodCOD,
			PaymentStatus: order.PaymentPending,
			Notes:         input.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if input.IdempotencyKey != "" {
			key := input.IdempotencyKey
			o.IdempotencyKey = &key
		}

		if err := orders.Create(o); err != nil {
			return err
		}

		c.Lines = []cartdomain.Line{}
		if err := carts.SaveLines(c); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		// A concurrent request with the same idempotency key may have won
		// the insert race; return its order.
		if errors.Is(err, gorm.ErrDuplicatedKey) && input.IdempotencyKey != "" {
			if existing, lookupErr := s.orders.FindByIdempotencyKey(userID, input.IdempotencyKey); lookupErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return created, nil
}

// allocateOrderNumber generates candidate numbers until one is unused. The
// unique index remains the final arbiter for concurrent inserts.
func (s *Service) allocateOrderNumber(orders *order.Repository) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := s.numbers.Next()
		exists, err := orders.OrderNumberExists(number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", ErrOrderNumberExhausted
}

// ListOrders returns one page of the user's orders, newest first.
func (s *Service) ListOrders(_ context.Context, userID string, page, pageSize int) ([]order.Order, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.orders.ListByUser(userID, page, pageSize)
}

// GetOrder returns one of the user's orders. Other users' orders read as not
// found.
func (s *Service) GetOrder(_ context.Context, orderID, userID string) (*order.Order, error) {
	return s.orders.FindForUser(orderID, userID)
}

// ListAllOrders returns one page of all orders for the admin surface,
// optionally filtered by status.
func (s *Service) ListAllOrders(_ context.Context, status string, page, pageSize int) ([]order.Order, int64, error) {
	var filter order.Status
	if status != "" {
		filter = order.Status(status)
		if !filter.IsValid() {
			return nil, 0, ErrInvalidStatus
		}
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.orders.ListAll(filter, page, pageSize)
}

// UpdateOrderInput is the admin partial update: nil fields are untouched.
type UpdateOrderInput struct {
	Status        *string
	PaymentStatus *string
	Notes         *string
}

// UpdateOrder applies an admin partial update after validating both status
// enums against their closed sets.
func (s *Service) UpdateOrder(_ context.Context, orderID string, input UpdateOrderInput) (*order.Order, error) {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if input.Status != nil {
		status := order.Status(*input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = status
	}
	if input.PaymentStatus != nil {
		status := order.PaymentStatus(*input.PaymentStatus)
		if !status.IsValid() {
			return nil, ErrInvalidPaymentStatus
		}
		fields["payment_status"] = status
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if err := s.orders.UpdateFields(orderID, fields); err != nil {
		return nil, err
	}
	return s.orders.FindByID(orderID)
}

// GetStats aggregates the admin dashboard counters, fanning the independent
// queries out concurrently.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{OrdersByStatus: make(map[string]int64, len(order.Statuses()))}
	counts := make([]int64, len(order.Statuses()))

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.orders.Count()
		stats.TotalOrders = total
		return err
	})
	for i, status := range order.Statuses() {
		i, status := i, status
		g.Go(func() error {
			count, err := s.orders.CountByStatus(status)
			counts[i] = count
			return err
		})
	}
	g.Go(func() error {
		customers, err := s.users.CountCustomers()
		stats.TotalCustomers = customers
		return err
	})
	g.Go(func() error {
		active, err := s.products.CountActive()
		stats.ActiveProducts = active
		return err
	})
	g.Go(func() error {
		revenue, err := s.orders.DeliveredRevenue()
		stats.TotalRevenue = revenue
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, status := range order.Statuses() {
		stats.OrdersByStatus[string(status)] = counts[i]
	}
	return stats, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
