package api

import (
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/cart"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/order"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the token refresh payload. The refresh token may come
// from the body or from the HTTP-only cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      user.Role `json:"role"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	TokenType   string       `json:"token_type"`
}

// TokenResponse is returned from refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// AddressRequest is the create/update payload for an address.
type AddressRequest struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// AddItemRequest adds an item to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest changes a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart envelope with derived totals.
type CartResponse struct {
	ID        string      `json:"id"`
	Items     []cart.Line `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	ItemCount int         `json:"item_count"`
}

// CreateOrderRequest places an order.
type CreateOrderRequest struct {
	AddressID      string `json:"address_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Notes          string `json:"notes"`
}

// UpdateOrderRequest is the admin partial update; absent fields stay as-is.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	Notes         *string `json:"notes"`
}

// OrdersPage is the paginated order list envelope.
type OrdersPage struct {
	Orders   []order.Order `json:"orders"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// CategoryRequest creates a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sort_order"`
}

// ProductRequest creates a product.
type ProductRequest struct {
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	CategoryID  string            `json:"category_id"`
	Price       float64           `json:"price"`
	SalePrice   *float64          `json:"sale_price"`
	Fabric      string            `json:"fabric"`
	Tags        []string          `json:"tags"`
	Variants    []catalog.Variant `json:"variants"`
	IsFeatured  bool              `json:"is_featured"`
	ReadyToShip bool              `json:"ready_to_ship"`
}

// ProductPatchRequest is the admin partial update; absent fields stay as-is.
type ProductPatchRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	CategoryID  *string            `json:"category_id"`
	Price       *float64           `json:"price"`
	SalePrice   *float64           `json:"sale_price"`
	Fabric      *string            `json:"fabric"`
	Tags        *[]string          `json:"tags"`
	Variants    *[]catalog.Variant `json:"variants"`
	IsFeatured  *bool              `json:"is_featured"`
	IsActive    *bool              `json:"is_active"`
	ReadyToShip *bool              `json:"ready_to_ship"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

func toCartResponse(c *cart.Cart) CartResponse {
	items := c.Lines
	if items == nil {
		items = []cart.Line{}
	}
	return CartResponse{
		ID:        c.ID,
		Items:     items,
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
}
