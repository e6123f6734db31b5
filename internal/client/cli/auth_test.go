package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{}, "")
	stubInputs(t, []string{"Alice", "alice@example.org", "donor"}, "secret")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, models.RegisterRequest{Name: "Alice", Email: "alice@example.org", Password: "secret", Role: models.RoleDonor}, acc.regReq)
	assert.Contains(t, out.String(), "Registered alice@example.org")
}

func TestRegister_Failure(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{}, "")
	acc.regErr = errors.New("email taken")
	stubInputs(t, []string{"A", "a@b.org", ""}, "pw")

	require.Error(t, a.Register(context.Background()))
	assert.Contains(t, out.String(), "email taken")
}

func TestLogin_Success(t *testing.T) {
	s := &fakeSession{loginState: signedIn()}
	a, _, _, out := newTestApp(s, "")
	stubInputs(t, []string{"alice@example.org"}, "secret")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "alice@example.org", s.loginEmail)
	assert.Equal(t, "secret", s.loginPass)
	assert.Contains(t, out.String(), "Logged in as Alice (donor)")
}

func TestLogin_FailureShowsSessionReason(t *testing.T) {
	s := &fakeSession{
		loginErr:   session.ErrLoginFailed,
		loginState: session.State{Phase: session.PhaseUnauthenticated, Err: "invalid credentials"},
	}
	a, _, _, out := newTestApp(s, "")
	stubInputs(t, []string{"alice@example.org"}, "wrong")

	err := a.Login(context.Background())
	require.ErrorIs(t, err, session.ErrLoginFailed)
	assert.Contains(t, out.String(), "Login failed: invalid credentials")
}

func TestLogin_AlreadyLoggedIn(t *testing.T) {
	s := &fakeSession{state: signedIn()}
	a, _, _, out := newTestApp(s, "")

	err := a.Login(context.Background())
	assert.ErrorIs(t, err, session.ErrAlreadyAuthenticated)
	assert.Empty(t, s.loginEmail)
	assert.Contains(t, out.String(), "Already logged in")
}

func TestLogin_InputError(t *testing.T) {
	a, _, _, _ := newTestApp(&fakeSession{}, "")
	stubInputs(t, nil)

	assert.Error(t, a.Login(context.Background()))
}

func TestLogout(t *testing.T) {
	s := &fakeSession{state: signedIn()}
	a, _, _, out := newTestApp(s, "")

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, s.logoutCalled)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged out")
}

func TestLogout_ErrorPropagates(t *testing.T) {
	s := &fakeSession{state: signedIn(), logoutErr: errors.New("disk full")}
	a, _, _, _ := newTestApp(s, "")

	assert.Error(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
}

func TestRefresh_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "Token refreshed"},
		{session.ErrNoRefreshToken, "No refresh token stored"},
		{session.ErrRefreshFailed, "please log in again"},
		{session.ErrBusy, "Refresh:"},
	}
	for _, tt := range tests {
		s := &fakeSession{state: signedIn(), refreshErr: tt.err}
		a, _, _, out := newTestApp(s, "")
		_ = a.Refresh(context.Background())
		assert.Contains(t, out.String(), tt.want)
	}
}

func TestChangePassword(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{state: signedIn()}, "")
	stubInputs(t, nil, "old", "new")

	require.NoError(t, a.ChangePassword(context.Background()))
	assert.Equal(t, "t1", acc.pwToken)
	assert.Equal(t, "old", acc.pwCur)
	assert.Equal(t, "new", acc.pwNext)
	assert.Contains(t, out.String(), "Password changed")
}

func TestChangePassword_RequiresLogin(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{}, "")

	assert.ErrorIs(t, a.ChangePassword(context.Background()), session.ErrNotAuthenticated)
	assert.Empty(t, acc.pwToken)
	assert.Contains(t, out.String(), "Please log in first")
}

func TestForgotPassword(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{}, "")
	stubInputs(t, []string{"alice@example.org"})

	require.NoError(t, a.ForgotPassword(context.Background()))
	assert.Equal(t, "alice@example.org", acc.forgotEmail)
	assert.Contains(t, out.String(), "Password reset email sent successfully")
}

func TestResetPassword(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{}, "")
	stubInputs(t, []string{"tok-1"}, "newsecret")

	require.NoError(t, a.ResetPassword(context.Background()))
	assert.Equal(t, "tok-1", acc.resetToken)
	assert.Equal(t, "newsecret", acc.resetPass)
	assert.Contains(t, out.String(), "Password reset successfully. Use 'login' to sign in.")
}

func TestResetPassword_Failure(t *testing.T) {
	a, acc, _, out := newTestApp(&fakeSession{}, "")
	acc.resetErr = errors.New("invalid or expired reset token")
	stubInputs(t, []string{"stale"}, "newsecret")

	require.Error(t, a.ResetPassword(context.Background()))
	assert.Contains(t, out.String(), "Password not reset: invalid or expired reset token")
}
