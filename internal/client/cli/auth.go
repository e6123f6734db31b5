package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/session"
	"github.com/dmitrijs2005/charitydesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email, password and an optional role and
// creates the account. It does not sign in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Role (donor/recipient, empty for default)", a.out)
	if err != nil {
		return err
	}

	u, err := a.accounts.Register(ctx, models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: string(password),
		Role:     models.Role(role),
	})
	if err != nil {
		a.println("Registration failed:", err)
		return err
	}

	a.println("Registered", u.Email+". Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials and signs in. On failure the session's
// recorded reason is shown.
func (a *App) Login(ctx context.Context) error {
	if s := a.session.State(); s.IsAuthenticated {
		a.println("Already logged in as", s.User.Email)
		return session.ErrAlreadyAuthenticated
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.logger.Info(ctx, "login unsuccessful", "err", err)
		if reason := a.session.State().Err; reason != "" {
			a.println("Login failed:", reason)
		} else {
			a.println("Login failed:", err)
		}
		return err
	}

	s := a.session.State()
	a.println("Logged in as", s.User.Name, "("+string(s.User.Role)+")")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.println("Logged out, but local data could not be cleared:", err)
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	err := a.session.RefreshAuth(ctx)
	switch {
	case err == nil:
		a.println("Token refreshed")
	case errors.Is(err, session.ErrNoRefreshToken):
		a.println("No refresh token stored")
	case errors.Is(err, session.ErrRefreshFailed):
		a.println("Refresh failed, please log in again")
	default:
		a.println("Refresh:", err)
	}
	return err
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.requireLogin() {
		return session.ErrNotAuthenticated
	}

	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.accounts.ChangePassword(ctx, a.session.AccessToken(), string(current), string(next)); err != nil {
		a.println("Password not changed:", err)
		return err
	}
	a.println("Password changed")
	return nil
}

// ForgotPassword asks the identity service to mail a reset token. The
// answer is the same whether or not the address is known.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.accounts.ForgotPassword(ctx, email)
	if err != nil {
		a.println("Request failed:", err)
		return err
	}
	a.println(msg)
	return nil
}

// ResetPassword sets a new password using a token from ForgotPassword.
// Sessions signed in with the old password stop refreshing.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Reset token", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.accounts.ResetPassword(ctx, token, string(password))
	if err != nil {
		a.println("Password not reset:", err)
		return err
	}
	a.println(msg + ". Use 'login' to sign in.")
	return nil
}

func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	a.println("Please log in first")
	return false
}
