package identity

import (
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

// ValidateTokenRequest is the payload for the validate-token service.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the reply from the validate-token service.
// Validation failures are reported in-band, not as transport errors.
type ValidateTokenResponse struct {
	Valid  bool      `json:"valid"`
	UserID string    `json:"user_id,omitempty"`
	Email  string    `json:"email,omitempty"`
	Role   user.Role `json:"role,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// GetUserRequest is the payload for the get-user service.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is the reply from the get-user service.
type GetUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      user.Role `json:"role"`
}
