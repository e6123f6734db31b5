package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/charitydesk/internal/client/api"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/session"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
)

type fakeSession struct {
	state session.State

	loginEmail, loginPass string
	loginErr              error
	loginState            session.State
	logoutErr             error
	logoutCalled          bool
	refreshErr            error
	bootstrapErr          error
	cleared               bool
	subscribers           []func(session.State)
}

func (f *fakeSession) State() session.State { return f.state }
func (f *fakeSession) AccessToken() string  { return f.state.AccessToken }
func (f *fakeSession) Subscribe(fn func(session.State)) func() {
	f.subscribers = append(f.subscribers, fn)
	return func() {}
}
func (f *fakeSession) Bootstrap(context.Context) error { return f.bootstrapErr }
func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	f.state = f.loginState
	return f.loginErr
}
func (f *fakeSession) Logout(context.Context) error {
	f.logoutCalled = true
	f.state = session.State{Phase: session.PhaseUnauthenticated}
	return f.logoutErr
}
func (f *fakeSession) RefreshAuth(context.Context) error { return f.refreshErr }
func (f *fakeSession) ClearError() {
	f.cleared = true
	f.state.Err = ""
}

type fakeAccounts struct {
	regReq  models.RegisterRequest
	regErr  error
	pwToken string
	pwCur   string
	pwNext  string
	pwErr   error

	forgotEmail string
	resetToken  string
	resetPass   string
	resetErr    error
}

func (f *fakeAccounts) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	f.regReq = req
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: "u9", Name: req.Name, Email: req.Email}, nil
}

func (f *fakeAccounts) ChangePassword(_ context.Context, token, current, next string) error {
	f.pwToken, f.pwCur, f.pwNext = token, current, next
	return f.pwErr
}

func (f *fakeAccounts) ForgotPassword(_ context.Context, email string) (string, error) {
	f.forgotEmail = email
	return "Password reset email sent successfully", nil
}

func (f *fakeAccounts) ResetPassword(_ context.Context, token, password string) (string, error) {
	f.resetToken, f.resetPass = token, password
	if f.resetErr != nil {
		return "", f.resetErr
	}
	return "Password reset successfully", nil
}

type fakePlatform struct {
	filter    api.CampaignFilter
	campaigns []models.Campaign
	campaign  *models.Campaign
	donation  models.DonationInput
	donations []models.Donation
	me        *models.User
	update    models.ProfileUpdate
	err       error

	created    models.CampaignInput
	updatedID  int64
	updated    models.CampaignInput
	deletedID  int64
	byCampaign int64
}

func (f *fakePlatform) ListCampaigns(_ context.Context, flt api.CampaignFilter) ([]models.Campaign, error) {
	f.filter = flt
	return f.campaigns, f.err
}
func (f *fakePlatform) GetCampaign(_ context.Context, id int64) (*models.Campaign, error) {
	return f.campaign, f.err
}
func (f *fakePlatform) CreateDonation(_ context.Context, in models.DonationInput) (*models.Donation, error) {
	f.donation = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Donation{ID: 77, Amount: in.Amount, CampaignID: in.CampaignID, PaymentStatus: models.PaymentPending}, nil
}
func (f *fakePlatform) ListDonations(context.Context) ([]models.Donation, error) {
	return f.donations, f.err
}
func (f *fakePlatform) CreateCampaign(_ context.Context, in models.CampaignInput) (*models.Campaign, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Campaign{ID: 12, Title: in.Title, Status: models.CampaignDraft}, nil
}
func (f *fakePlatform) UpdateCampaign(_ context.Context, id int64, in models.CampaignInput) (*models.Campaign, error) {
	f.updatedID, f.updated = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Campaign{ID: id, Title: in.Title}, nil
}
func (f *fakePlatform) DeleteCampaign(_ context.Context, id int64) error {
	f.deletedID = id
	return f.err
}
func (f *fakePlatform) ListCampaignDonations(_ context.Context, id int64) ([]models.Donation, error) {
	f.byCampaign = id
	return f.donations, f.err
}
func (f *fakePlatform) Me(context.Context) (*models.User, error) { return f.me, f.err }
func (f *fakePlatform) UpdateMe(_ context.Context, in models.ProfileUpdate) (*models.User, error) {
	f.update = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Name: in.Name}, nil
}

type fakeStore struct {
	kv  map[string][]byte
	err error
}

func (f *fakeStore) List(context.Context) (map[string][]byte, error) { return f.kv, f.err }

var alice = &models.User{ID: "u1", Name: "Alice", Email: "alice@example.org", Role: models.RoleDonor}

func signedIn() session.State {
	return session.State{User: alice, AccessToken: "t1", IsAuthenticated: true, Phase: session.PhaseAuthenticated}
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func newTestApp(s *fakeSession, input string) (*App, *fakeAccounts, *fakePlatform, *bytes.Buffer) {
	var out bytes.Buffer
	acc := &fakeAccounts{}
	plat := &fakePlatform{}
	return &App{
		logger:   logging.Discard(),
		session:  s,
		accounts: acc,
		platform: plat,
		reader:   rdr(input),
		out:      &out,
	}, acc, plat, &out
}

// stubInputs replaces prompts with canned answers consumed in order.
func stubInputs(t *testing.T, texts []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
