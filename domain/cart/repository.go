package cart

import (
	"errors"

	"gorm.io/gorm"
)

// ErrCartNotFound is returned when no cart exists for the given owner or id.
var ErrCartNotFound = errors.New("cart not found")

// Repository provides database access for carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a cart repository on the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUser returns the cart owned by the given user.
func (r *Repository) FindByUser(userID string) (*Cart, error) {
	var cart Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindBySession returns the guest cart bound to the given session key.
// Carts already claimed by a user are excluded.
func (r *Repository) FindBySession(sessionID string) (*Cart, error) {
	var cart Cart
	err := r.db.Where("session_id = ? AND user_id IS NULL", sessionID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a cart.
func (r *Repository) Create(cart *Cart) error {
	return r.db.Create(cart).Error
}

// SaveLines persists the cart's line document. The write goes through a
// struct update so the JSON serializer on Lines applies.
func (r *Repository) SaveLines(cart *Cart) error {
	result := r.db.Model(cart).Select("lines", "updated_at").Updates(cart)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// AssignToUser re-owns a guest cart to a registered user, dropping the
// session binding.
func (r *Repository) AssignToUser(cartID, userID string) error {
	result := r.db.Model(&Cart{}).Where("id = ?", cartID).
		Updates(map[string]any{"user_id": userID, "session_id": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// Delete removes a cart row.
func (r *Repository) Delete(cartID string) error {
	return r.db.Where("id = ?", cartID).Delete(&Cart{}).Error
}
