package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            "test-secret",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "test",
	}
}

func testUser() *user.User {
	return &user.User{
		ID:    "user-1",
		Email: "shopper@example.com",
		Role:  user.RoleCustomer,
	}
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	token, err := manager.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Email != "shopper@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
	if claims.Role != user.RoleCustomer {
		t.Errorf("Role = %s, want customer", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %s, want access", claims.TokenType)
	}
}

func TestJWTManager_TokenTypeEnforced(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	access, err := manager.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	refresh, err := manager.GenerateRefreshToken(testUser())
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := manager.ValidateRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh validation of access token error = %v, want ErrInvalidToken", err)
	}
	if _, err := manager.ValidateAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access validation of refresh token error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManager_RejectsTamperedAndForeignTokens(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	token, err := manager.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := manager.ValidateToken(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token error = %v, want ErrInvalidToken", err)
	}

	otherConfig := testJWTConfig()
	otherConfig.SecretKey = "different-secret"
	other := NewJWTManager(otherConfig)
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign-key token error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	config := testJWTConfig()
	config.AccessTokenDuration = -time.Minute
	manager := NewJWTManager(config)

	token, err := manager.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired token error = %v, want ErrExpiredToken", err)
	}
}
