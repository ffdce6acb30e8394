package cli

import (
	"context"
	"fmt"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
	"github.com/tracetrail/tracetrail/internal/common"
)

const (
	msgLoginFailed  = "Login failed. Please try again."
	msgSignupFailed = "Signup failed. Please try again."
	msgForgotFailed = "Failed to send reset email. Please try again."
	msgResetFailed  = "Failed to reset password. Please try again."
)

// Signup prompts for the registration fields and creates an account. On
// success the new session is active and the dashboard is loaded.
func (a *App) Signup(ctx context.Context, _ []string) error {
	var data models.SignupData
	var err error
	if data.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if data.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if data.FullName, err = getSimpleText(a.reader, "Full name (optional)", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	data.Password, data.ConfirmPassword = string(password), string(confirm)

	if err := a.session.Signup(ctx, data); err != nil {
		a.notes.Error(client.Message(err, msgSignupFailed))
		return err
	}
	a.notes.Success("Account created. Welcome to TraceTrail!")
	_ = a.dashboard.Load(ctx)
	return nil
}

// Login prompts for credentials (the email may be given as an argument) and
// signs in.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.logger.Info(ctx, "login failed", "kind", client.KindOf(err))
		a.notes.Error(client.Message(err, msgLoginFailed))
		return err
	}
	a.notes.Success("Login successful")
	_ = a.dashboard.Load(ctx)
	return nil
}

// Logout ends the session locally; the backend is not contacted.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		a.notes.Warning("Signed out, but the saved token could not be removed.")
		return err
	}
	a.notes.Info("You have been logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	u := a.session.User()
	if u == nil {
		a.printf("Not signed in\n")
		return nil
	}
	a.printf("%s <%s>\n", u.DisplayName(), u.Email)
	if u.Username != "" {
		a.printf("username: %s\n", u.Username)
	}
	if !u.CreatedAt.IsZero() {
		a.printf("member since: %s\n", u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) ForgotPassword(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Email")
	if err != nil {
		return err
	}
	msg, err := a.auth.RequestPasswordReset(ctx, email)
	if err != nil {
		a.notes.Error(client.Message(err, msgForgotFailed))
		return err
	}
	if msg == "" {
		msg = "If that email is registered, a reset link is on its way."
	}
	a.notes.Success(msg)
	return nil
}

func (a *App) ResetPassword(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, 0, "Reset token")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.auth.ResetPassword(ctx, token, string(password))
	if err != nil {
		a.notes.Error(client.Message(err, msgResetFailed))
		return err
	}
	if msg == "" {
		msg = "Password updated. You can now log in."
	}
	a.notes.Success(msg)
	return nil
}

func (a *App) RefreshToken(ctx context.Context, _ []string) error {
	if err := a.session.RefreshToken(ctx); err != nil {
		a.notes.Error(client.Message(err, "Could not refresh your session."))
		return err
	}
	a.notes.Success("Session refreshed")
	return nil
}

func wrongUsage(name, usage string) error {
	return client.LocalError(fmt.Sprintf("Usage: %s %s", name, usage))
}
