package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/config"
	"github.com/dmitrijs2005/charitydesk/internal/client/identity"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/session"
	"github.com/dmitrijs2005/charitydesk/internal/identitystub"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIBaseURL:      baseURL,
		IdentityBaseURL: baseURL + "/auth",
		StoragePath:     filepath.Join(t.TempDir(), "nested", "session.db"),
		Namespace:       "charity_donor",
		RequestTimeout:  5 * time.Second,
		RetryAttempts:   1,
	}
}

func TestNewApp_RunWithNothingStored(t *testing.T) {
	silenceREPL(t)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	t.Cleanup(srv.Close)

	app, err := NewApp(context.Background(), testConfig(t, srv.URL), logging.Discard())
	require.NoError(t, err)

	var out bytes.Buffer
	app.out = &out
	app.reader = rdr("status\nexit\n")

	app.Run(context.Background())

	assert.Contains(t, out.String(), "Not signed in")
	assert.Contains(t, out.String(), "phase:    unauthenticated")
	assert.Contains(t, out.String(), "error:    not authenticated")
	assert.Contains(t, out.String(), "stored:   none")
	assert.Zero(t, hits)
}

func TestNewApp_ExpiredTokenOnPasswdSignsOut(t *testing.T) {
	ctx := context.Background()
	var skew atomic.Int64
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stub := identitystub.NewServer(
		identitystub.WithTTL(time.Minute, time.Hour),
		identitystub.WithClock(func() time.Time { return start.Add(time.Duration(skew.Load())) }),
		identitystub.WithBcryptCost(bcrypt.MinCost),
	)
	_, err := stub.AddUser("Ann Admin", "ann@example.org", "secret1", models.RoleAdmin)
	require.NoError(t, err)
	srv := httptest.NewServer(stub.Handler("/api/v1", "/api/v1/auth"))
	t.Cleanup(srv.Close)

	app, err := NewApp(ctx, testConfig(t, srv.URL+"/api/v1"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })
	var out bytes.Buffer
	app.out = &out

	require.ErrorIs(t, app.session.Bootstrap(ctx), session.ErrNotAuthenticated)
	require.NoError(t, app.session.Login(ctx, "ann@example.org", "secret1"))
	require.NoError(t, app.Status(ctx))
	assert.Contains(t, out.String(), "stored:   charity_donor_token, charity_donor_refresh_token, charity_donor_user")

	skew.Store(int64(2 * time.Minute))
	stubInputs(t, nil, "secret1", "secret2")
	err = app.ChangePassword(ctx)
	require.ErrorIs(t, err, identity.ErrUnauthorized)

	st := app.session.State()
	assert.False(t, st.IsAuthenticated)
	assert.Equal(t, session.ErrSessionExpired.Error(), st.Err)

	out.Reset()
	require.NoError(t, app.Status(ctx))
	assert.Contains(t, out.String(), "stored:   none")
}

func TestNewApp_BadStoragePath(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.StoragePath = t.TempDir()

	_, err := NewApp(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestBootstrapMessages(t *testing.T) {
	tests := []struct {
		name string
		sess *fakeSession
		want string
	}{
		{"restored", &fakeSession{state: signedIn()}, "Welcome back, Alice"},
		{"nothing stored", &fakeSession{bootstrapErr: session.ErrNotAuthenticated}, "Not signed in"},
		{"expired", &fakeSession{bootstrapErr: session.ErrSessionExpired}, "Stored session expired"},
		{"other", &fakeSession{bootstrapErr: session.ErrBusy}, "Could not restore session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _, out := newTestApp(tt.sess, "")
			a.bootstrap(context.Background())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestWatchSession_AnnouncesForcedSignOut(t *testing.T) {
	a, _, _, out := newTestApp(&fakeSession{}, "")
	watch := a.watchSession(context.Background())

	watch(signedIn())
	watch(session.State{Phase: session.PhaseUnauthenticated, Err: "session expired", Version: 2})
	assert.Contains(t, out.String(), "Signed out: session expired")

	out.Reset()
	watch(session.State{Phase: session.PhaseUnauthenticated, Err: "login failed", Version: 3})
	assert.Empty(t, out.String())
}

func TestGetStatus(t *testing.T) {
	a, _, _, _ := newTestApp(&fakeSession{}, "")
	assert.Equal(t, "(signed out)", a.getStatus())

	a.session = &fakeSession{state: signedIn()}
	assert.Equal(t, "(alice@example.org donor)", a.getStatus())
}
