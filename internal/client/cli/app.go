package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/api"
	"github.com/dmitrijs2005/charitydesk/internal/client/config"
	"github.com/dmitrijs2005/charitydesk/internal/client/identity"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/session"
	"github.com/dmitrijs2005/charitydesk/internal/client/storage"
	"github.com/dmitrijs2005/charitydesk/internal/filex"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
)

type sessionService interface {
	State() session.State
	AccessToken() string
	Subscribe(fn func(session.State)) (cancel func())
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	RefreshAuth(ctx context.Context) error
	ClearError()
}

type accountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	ChangePassword(ctx context.Context, accessToken, current, next string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
}

type platformService interface {
	ListCampaigns(ctx context.Context, f api.CampaignFilter) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*models.Campaign, error)
	CreateDonation(ctx context.Context, in models.DonationInput) (*models.Donation, error)
	ListDonations(ctx context.Context) ([]models.Donation, error)
	CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, in models.CampaignInput) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id int64) error
	ListCampaignDonations(ctx context.Context, campaignID int64) ([]models.Donation, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateMe(ctx context.Context, in models.ProfileUpdate) (*models.User, error)
}

// keyLister reports what the local store holds.
type keyLister interface {
	List(ctx context.Context) (map[string][]byte, error)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	session  sessionService
	accounts accountService
	platform platformService
	store    keyLister
	reader   *bufio.Reader
	out      io.Writer
	db       *sql.DB
}

// NewApp opens the session database and builds the clients described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dbPath, err := filex.EnsureParentDir(c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	// set below; the handler only runs once requests are being made
	var mgr *session.Manager
	idc := identity.New(c.IdentityBaseURL,
		identity.WithTimeout(c.RequestTimeout),
		identity.WithLogger(logger.With("module", "identity")),
		identity.WithUnauthorizedHandler(func(ctx context.Context) error {
			return mgr.ForceLogout(ctx, session.ErrSessionExpired.Error())
		}))

	store := storage.NewSQLiteStore(db)
	mgr = session.NewManager(idc, store,
		session.WithLogger(logger.With("module", "session")),
		session.WithKeys(session.NamespaceKeys(c.Namespace)))

	apic := api.New(c.APIBaseURL, mgr,
		api.WithTimeout(c.RequestTimeout),
		api.WithRetry(c.RetryAttempts, 200*time.Millisecond),
		api.WithLogger(logger.With("module", "api")))

	return &App{
		config:   c,
		logger:   logger,
		session:  mgr,
		accounts: idc,
		platform: apic,
		store:    store,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		db:       db,
	}, nil
}

// Run restores the stored session and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.println("Welcome to charitydesk CLI (type 'help' for commands)")

	cancel := a.session.Subscribe(a.watchSession(ctx))
	defer cancel()

	a.bootstrap(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error(context.Background(), "close database", "err", err)
	}
}

func (a *App) bootstrap(ctx context.Context) {
	err := a.session.Bootstrap(ctx)
	switch {
	case err == nil:
		s := a.session.State()
		a.println("Welcome back,", s.User.Name)
	case errors.Is(err, session.ErrNotAuthenticated):
		a.println("Not signed in. Use 'login' or 'register'.")
	case errors.Is(err, session.ErrSessionExpired):
		a.println("Stored session expired, please log in again.")
	default:
		a.logger.Warn(ctx, "bootstrap", "err", err)
		a.println("Could not restore session:", err)
	}
}

// watchSession logs every state change and tells the user when the session
// ends without them asking.
func (a *App) watchSession(ctx context.Context) func(session.State) {
	wasAuthenticated := false
	return func(s session.State) {
		a.logger.Debug(ctx, "session state",
			"version", s.Version,
			"phase", s.Phase.String(),
			"authenticated", s.IsAuthenticated,
			"loading", s.IsLoading,
			"err", s.Err)

		if wasAuthenticated && !s.IsAuthenticated && s.Err != "" {
			a.println("Signed out:", s.Err)
		}
		wasAuthenticated = s.IsAuthenticated
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) getStatus() string {
	s := a.session.State()
	if !s.IsAuthenticated {
		return "(signed out)"
	}
	return fmt.Sprintf("(%s %s)", s.User.Email, s.User.Role)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
