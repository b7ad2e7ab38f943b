package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/storage"
)

// Module provides accounts, tokens and the address book. It registers
// validate-token and get-user in the service container so the HTTP layer can
// resolve identities without a direct reference.
type Module struct {
	storage *storage.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates an identity module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "identity"
}

// SetStorage wires the storage module owning the database handle.
func (m *Module) SetStorage(s *storage.Module) {
	m.storage = s
}

// SetCartMerger wires the cart engine used to claim guest carts on login.
func (m *Module) SetCartMerger(merger CartMerger) {
	if m.service != nil {
		m.service.SetCartMerger(merger)
	}
}

// Start builds the identity service on the shared database handle.
func (m *Module) Start(_ context.Context) error {
	if m.storage == nil || m.storage.GetDB() == nil {
		return fmt.Errorf("storage module not available")
	}
	db := m.storage.GetDB()

	users := user.NewRepository(db)
	addresses := user.NewAddressRepository(db)
	hasher := NewPasswordHasher()
	m.service = NewService(users, addresses, hasher, NewJWTManager(loadJWTConfig()))

	log.Println("[identity] Module started")
	return nil
}

// Stop shuts down the module. The database is owned by the storage module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[identity] Module stopped")
	return nil
}

// Health reports whether the service is ready.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// GetService returns the identity service. Nil before Start.
func (m *Module) GetService() *Service {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-user",
		json.Unmarshal,
		json.Marshal,
		m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	log.Println("[identity] Registered services: validate-token, get-user")
	return nil
}

// handleValidateToken answers token validation requests. Validation failures
// are reported in the response rather than as errors.
func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			msg = "token expired"
		}
		return ValidateTokenResponse{Valid: false, Error: msg}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (m *Module) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}

	return GetUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
	}, nil
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.SecretKey = secret
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}
	if d := os.Getenv("JWT_ACCESS_TTL"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			config.AccessTokenDuration = parsed
		}
	}

	return config
}
