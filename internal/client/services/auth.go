package services

import (
	"context"
	"strings"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
)

const MinPasswordLength = 8

const (
	msgCredentialsRequired = "Email and password are required"
	msgPasswordMismatch    = "Passwords do not match"
	msgPasswordTooShort    = "Password must be at least 8 characters"
	msgEmailRequired       = "Email is required"
	msgResetTokenRequired  = "Reset token is required"
)

// AuthService covers the /auth endpoints.
//
// Contract:
//   - Login / Signup: exchange credentials for {token, user}.
//   - Me: resolve the user behind the current bearer token.
//   - Refresh: trade the current token for a fresh one.
//   - RequestPasswordReset / ResetPassword: password recovery; both return
//     the confirmation message from the backend.
type AuthService interface {
	Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error)
	Signup(ctx context.Context, data models.SignupData) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) (*models.TokenResponse, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type authService struct {
	api API
}

func NewAuthService(api API) AuthService {
	return &authService{api: api}
}

func (s *authService) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, client.LocalError(msgCredentialsRequired)
	}

	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup checks the password confirmation and length before contacting the
// backend.
func (s *authService) Signup(ctx context.Context, data models.SignupData) (*models.AuthResponse, error) {
	data.Email = strings.TrimSpace(data.Email)
	if data.Email == "" {
		return nil, client.LocalError(msgEmailRequired)
	}
	if data.Password != data.ConfirmPassword {
		return nil, client.LocalError(msgPasswordMismatch)
	}
	if len([]rune(data.Password)) < MinPasswordLength {
		return nil, client.LocalError(msgPasswordTooShort)
	}

	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/signup", data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.api.Get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *authService) Refresh(ctx context.Context) (*models.TokenResponse, error) {
	var resp models.TokenResponse
	if err := s.api.Post(ctx, "/auth/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", client.LocalError(msgEmailRequired)
	}

	var resp models.MessageResponse
	if err := s.api.Post(ctx, "/auth/forgot-password", models.PasswordResetRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	return client.Sanitize(resp.Message), nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", client.LocalError(msgResetTokenRequired)
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return "", client.LocalError(msgPasswordTooShort)
	}

	var resp models.MessageResponse
	req := models.PasswordReset{Token: strings.TrimSpace(token), NewPassword: newPassword}
	if err := s.api.Post(ctx, "/auth/reset-password", req, &resp); err != nil {
		return "", err
	}
	return client.Sanitize(resp.Message), nil
}
