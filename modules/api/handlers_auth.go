package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"
)

// Register creates an account, merges any guest cart and sets the refresh
// token cookie.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	u, tokens, err := h.identity.Register(c.UserContext(), identity.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}, sessionKey(c))
	if err != nil {
		return mapError(c, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		User:        toUserResponse(u),
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
		TokenType:   tokens.TokenType,
	})
}

// Login verifies credentials, merges any guest cart and sets the refresh
// token cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	u, tokens, err := h.identity.Login(c.UserContext(), req.Email, req.Password, sessionKey(c))
	if err != nil {
		return mapError(c, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.JSON(AuthResponse{
		User:        toUserResponse(u),
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
		TokenType:   tokens.TokenType,
	})
}

// Refresh issues a fresh token pair. The refresh token is read from the body
// when present, from the HTTP-only cookie otherwise.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	_ = c.BodyParser(&req)
	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(RefreshCookie)
	}
	if token == "" {
		return badRequest(c, "Refresh token is required")
	}

	tokens, err := h.identity.RefreshTokens(c.UserContext(), token)
	if err != nil {
		return mapError(c, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.JSON(TokenResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
		TokenType:   tokens.TokenType,
	})
}

// Logout clears the refresh and session cookies. Access tokens simply
// expire; nothing is tracked server-side.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	clearCookie(c, RefreshCookie)
	clearCookie(c, SessionCookie)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the authenticated account.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims := claims(c)
	if claims == nil {
		return unauthorized(c, "User not authenticated")
	}
	u, err := h.identity.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toUserResponse(u))
}

func (h *Handlers) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}
