package order

import (
	"errors"

	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no matching order exists.
var ErrOrderNotFound = errors.New("order not found")

// ErrDuplicateOrderNumber is returned when an insert collides on the
// order-number unique index.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// Repository provides database access for orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates an order repository on the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an order.
func (r *Repository) Create(order *Order) error {
	return r.db.Create(order).Error
}

// OrderNumberExists reports whether an order already carries the number.
func (r *Repository) OrderNumberExists(number string) (bool, error) {
	var count int64
	err := r.db.Model(&Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

// FindByIdempotencyKey returns the order created under the given key for the
// given user, or ErrOrderNotFound.
func (r *Repository) FindByIdempotencyKey(userID, key string) (*Order, error) {
	var order Order
	err := r.db.Where("user_id = ? AND idempotency_key = ?", userID, key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByID returns the order with the given id.
func (r *Repository) FindByID(id string) (*Order, error) {
	var order Order
	err := r.db.Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUser returns the order with the given id only if it belongs to the
// user. Other users' orders read as not found.
func (r *Repository) FindForUser(id, userID string) (*Order, error) {
	var order Order
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one page of the user's orders, newest first, plus the
// total count.
func (r *Repository) ListByUser(userID string, page, pageSize int) ([]Order, int64, error) {
	var total int64
	base := r.db.Model(&Order{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []Order
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// ListAll returns one page of all orders, optionally filtered by status,
// newest first, plus the total count.
func (r *Repository) ListAll(status Status, page, pageSize int) ([]Order, int64, error) {
	base := r.db.Model(&Order{})
	query := r.db.Order("created_at DESC")
	if status != "" {
		base = base.Where("status = ?", status)
		query = query.Where("status = ?", status)
	}
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []Order
	err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error
	return orders, total, err
}

// UpdateFields applies a partial update to an order row.
func (r *Repository) UpdateFields(id string, fields map[string]any) error {
	result := r.db.Model(&Order{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CountByStatus returns the number of orders in the given status.
func (r *Repository) CountByStatus(status Status) (int64, error) {
	var count int64
	err := r.db.Model(&Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Count returns the total number of orders.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Order{}).Count(&count).Error
	return count, err
}

// DeliveredRevenue sums totals over delivered orders.
func (r *Repository) DeliveredRevenue() (float64, error) {
	var revenue float64
	err := r.db.Model(&Order{}).
		Where("status = ?", StatusDelivered).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	return revenue, err
}
