package user

import (
	"time"
)

// Role is the authorization level of an account.
type Role string

// Account roles. Authorization checks compare against this closed set; any
// other value carries no privileges.
const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is a registered account. Email is stored lowercased and unique.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Role         Role      `gorm:"default:customer" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Address is a saved shipping address. At most one address per user carries
// IsDefault.
type Address struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	FullName   string    `gorm:"not null" json:"full_name"`
	Phone      string    `json:"phone"`
	Line1      string    `gorm:"not null" json:"line1"`
	Line2      string    `json:"line2"`
	City       string    `gorm:"not null" json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
