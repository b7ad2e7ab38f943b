package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

// IdentityPort is the interface other modules use to resolve identities.
type IdentityPort interface {
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
}

// IdentityAdapter implements IdentityPort over the service container.
type IdentityAdapter struct {
	container mono.ServiceContainer
}

// NewIdentityAdapter creates an IdentityAdapter.
func NewIdentityAdapter(container mono.ServiceContainer) *IdentityAdapter {
	return &IdentityAdapter{container: container}
}

// ValidateToken validates an access token and returns its claims.
func (a *IdentityAdapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, ErrInvalidToken
	}

	return &user.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
		Role:   resp.Role,
	}, nil
}

// GetUser retrieves an account by id.
func (a *IdentityAdapter) GetUser(ctx context.Context, userID string) (*user.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &user.User{
		ID:        resp.ID,
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Phone:     resp.Phone,
		Role:      resp.Role,
	}, nil
}
