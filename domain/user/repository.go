package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when no matching user exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registration hits the email unique index.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAddressNotFound is returned when no matching address exists.
	ErrAddressNotFound = errors.New("address not found")
)

// Repository provides database access for user accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a user repository on the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a user. Email collisions map to ErrEmailTaken.
func (r *Repository) Create(u *User) error {
	err := r.db.Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail returns the user with the given email, compared lowercased.
func (r *Repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user with the given id.
func (r *Repository) FindByID(id string) (*User, error) {
	var u User
	err := r.db.Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountCustomers returns the number of customer accounts.
func (r *Repository) CountCustomers() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Where("role = ?", RoleCustomer).Count(&count).Error
	return count, err
}

// AddressRepository provides database access for the address book. Every
// mutation that touches the default flag runs in a transaction so at most one
// address per user stays default.
type AddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates an address repository on the given handle.
func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *AddressRepository) WithTx(tx *gorm.DB) *AddressRepository {
	return &AddressRepository{db: tx}
}

// ListByUser returns the user's addresses, default first, then newest.
func (r *AddressRepository) ListByUser(userID string) ([]Address, error) {
	var addresses []Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

// FindForUser returns the address with the given id only if the user owns it.
func (r *AddressRepository) FindForUser(id, userID string) (*Address, error) {
	var address Address
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// Create inserts an address. The user's first address becomes default
// automatically; an explicit default unsets any previous one.
func (r *AddressRepository) Create(address *Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Address{}).Where("user_id = ?", address.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		} else if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

// Update persists an edited address, flipping the default flag atomically
// when it is being set.
func (r *AddressRepository) Update(address *Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
}

// SetDefault marks the given address as the user's default.
func (r *AddressRepository) SetDefault(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var address Address
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		if err != nil {
			return err
		}
		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		return tx.Model(&Address{}).Where("id = ?", id).Update("is_default", true).Error
	})
}

// Delete removes an address. Deleting the default promotes the newest
// remaining address so the user keeps a default while any address exists.
func (r *AddressRepository) Delete(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var address Address
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&address).Error; err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}
		var next Address
		err = tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&Address{}).Where("id = ?", next.ID).Update("is_default", true).Error
	})
}

func clearDefault(tx *gorm.DB, userID string) error {
	return tx.Model(&Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
