package identity

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
)

var (
	// ErrInvalidCredentials is returned when email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword is returned when the password fails the policy.
	ErrWeakPassword = errors.New("password must be between 8 and 72 characters")
	// ErrMissingName is returned when registration omits the first name.
	ErrMissingName = errors.New("first name is required")
	// ErrIncompleteAddress is returned when a required address field is empty.
	ErrIncompleteAddress = errors.New("full name, address line and city are required")
)

// CartMerger folds a guest cart into a user's cart after login or
// registration.
type CartMerger interface {
	MergeGuestCart(ctx context.Context, sessionID, userID string) error
}

// TokenPair bundles freshly issued tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// AddressInput is the data needed to create or update an address.
type AddressInput struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// Service implements accounts, sessions and the address book.
type Service struct {
	users     *user.Repository
	addresses *user.AddressRepository
	hasher    *PasswordHasher
	jwt       *JWTManager
	carts     CartMerger
}

// NewService creates an identity service.
func NewService(users *user.Repository, addresses *user.AddressRepository, hasher *PasswordHasher, jwt *JWTManager) *Service {
	return &Service{
		users:     users,
		addresses: addresses,
		hasher:    hasher,
		jwt:       jwt,
	}
}

// SetCartMerger wires the cart engine used to claim guest carts on login.
func (s *Service) SetCartMerger(m CartMerger) {
	s.carts = m
}

// Register creates an account and issues tokens. When sessionID is non-empty
// the guest cart for that session is merged into the new account's cart.
func (s *Service) Register(ctx context.Context, input RegisterInput, sessionID string) (*user.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !isValidEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if len(input.Password) < 8 || len(input.Password) > 72 {
		return nil, nil, ErrWeakPassword
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, nil, ErrMissingName
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         user.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(u); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}

	s.mergeGuestCart(ctx, sessionID, u.ID)
	return u, tokens, nil
}

// Login verifies credentials and issues tokens, merging any guest cart for
// the session into the user's cart.
func (s *Service) Login(ctx context.Context, email, password, sessionID string) (*user.User, *TokenPair, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}

	s.mergeGuestCart(ctx, sessionID, u.ID)
	return u, tokens, nil
}

// RefreshTokens validates a refresh token and issues a fresh pair.
func (s *Service) RefreshTokens(_ context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(u)
}

// ValidateToken verifies an access token and returns its claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &user.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// GetUser returns the account with the given id.
func (s *Service) GetUser(_ context.Context, userID string) (*user.User, error) {
	return s.users.FindByID(userID)
}

// ListAddresses returns the user's address book, default first.
func (s *Service) ListAddresses(_ context.Context, userID string) ([]user.Address, error) {
	return s.addresses.ListByUser(userID)
}

// CreateAddress adds an address to the user's book.
func (s *Service) CreateAddress(_ context.Context, userID string, input AddressInput) (*user.Address, error) {
	if err := validateAddress(input); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	address := &user.Address{
		ID:         uuid.NewString(),
		UserID:     userID,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      strings.TrimSpace(input.Line2),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		IsDefault:  input.IsDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.addresses.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress replaces an existing address's fields.
func (s *Service) UpdateAddress(_ context.Context, userID, addressID string, input AddressInput) (*user.Address, error) {
	if err := validateAddress(input); err != nil {
		return nil, err
	}
	address, err := s.addresses.FindForUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	address.FullName = strings.TrimSpace(input.FullName)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = strings.TrimSpace(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.Country = strings.TrimSpace(input.Country)
	if input.IsDefault {
		address.IsDefault = true
	}
	address.UpdatedAt = time.Now().UTC()
	if err := s.addresses.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address, promoting another to default when the
// default was deleted.
func (s *Service) DeleteAddress(_ context.Context, userID, addressID string) error {
	return s.addresses.Delete(addressID, userID)
}

// SetDefaultAddress marks an address as the user's default.
func (s *Service) SetDefaultAddress(_ context.Context, userID, addressID string) error {
	return s.addresses.SetDefault(addressID, userID)
}

func (s *Service) issueTokens(u *user.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}

// mergeGuestCart is best-effort: a failed merge must not fail the login.
func (s *Service) mergeGuestCart(ctx context.Context, sessionID, userID string) {
	if s.carts == nil || sessionID == "" {
		return
	}
	if err := s.carts.MergeGuestCart(ctx, sessionID, userID); err != nil {
		log.Printf("[identity] Guest cart merge failed for user %s: %v", userID, err)
	}
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func validateAddress(input AddressInput) error {
	if strings.TrimSpace(input.FullName) == "" ||
		strings.TrimSpace(input.Line1) == "" ||
		strings.TrimSpace(input.City) == "" {
		return ErrIncompleteAddress
	}
	return nil
}
