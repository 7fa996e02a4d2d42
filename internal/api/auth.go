package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
)

// LoginInput holds the credentials presented to the login endpoint.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput holds the fields presented to the signup endpoint.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=customer vendor admin"`
}

// UpdateProfileInput holds the mutable profile fields. Empty fields are
// omitted so the backend leaves them unchanged.
type UpdateProfileInput struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3"`
}

// ChangePasswordInput holds the password rotation fields.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Login exchanges credentials for a token pair. A rejection is returned as
// ErrInvalidCredentials carrying the server-provided message, never retried.
func (c *Client) Login(ctx context.Context, input LoginInput) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := c.call(ctx, "auth.login", http.MethodPost, "/auth/login", input, &pair, false); err != nil {
		if errors.Is(err, apperrors.ErrUnauthenticated) || errors.Is(err, apperrors.ErrInvalidInput) {
			return nil, apperrors.InvalidCredentials(apperrors.Message(err))
		}
		return nil, err
	}
	return &pair, nil
}

// Signup registers a new account. Signup does not authenticate; the caller
// performs a login afterwards. A rejection (e.g. duplicate email) is returned
// as ErrSignupRejected carrying the server-provided message.
func (c *Client) Signup(ctx context.Context, input SignupInput) error {
	if err := c.call(ctx, "auth.signup", http.MethodPost, "/auth/signup", input, nil, false); err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return apperrors.SignupRejected(apperrors.Message(err))
		}
		return err
	}
	return nil
}

// Me presents the persisted credential to the whoami endpoint and returns the
// authenticated identity.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, "auth.me", http.MethodGet, "/auth/me", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh rotates the token pair using the given refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	var pair domain.TokenPair
	if err := c.call(ctx, "auth.refresh", http.MethodPost, "/auth/refresh", body, &pair, false); err != nil {
		return nil, err
	}
	return &pair, nil
}

// UpdateProfile updates the authenticated user's profile and returns the
// updated identity.
func (c *Client) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, "auth.update_profile", http.MethodPut, "/auth/profile", input, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	return c.call(ctx, "auth.change_password", http.MethodPut, "/auth/password", input, nil, true)
}
