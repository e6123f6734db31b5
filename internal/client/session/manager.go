package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/identity"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/storage"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
)

// Identity is the subset of the identity endpoint the manager drives.
type Identity interface {
	Login(ctx context.Context, email, password string) (*identity.AuthResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*identity.AuthResponse, error)
	Verify(ctx context.Context, accessToken string) (*models.User, error)
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithKeys(k Keys) Option {
	return func(m *Manager) { m.keys = k }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type Manager struct {
	identity Identity
	store    storage.Store
	keys     Keys
	log      logging.Logger
	now      func() time.Time

	mu        sync.Mutex
	user      *models.User
	token     string
	loading   bool
	err       string
	phase     Phase
	version   uint64
	changedAt time.Time
	// epoch changes on every clear; in-flight completions from an older
	// epoch are dropped.
	epoch    uint64
	inflight bool

	subMu   sync.Mutex
	subs    map[uint64]func(State)
	nextSub uint64

	notifyMu     sync.Mutex
	lastNotified uint64
}

func NewManager(id Identity, store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		identity: id,
		store:    store,
		keys:     NamespaceKeys(DefaultNamespace),
		log:      logging.Discard(),
		now:      time.Now,
		phase:    PhaseBootstrapping,
		loading:  true,
		subs:     make(map[uint64]func(State)),
	}
	for _, o := range opts {
		o(m)
	}
	m.changedAt = m.now()
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// AccessToken returns the current bearer credential, empty when signed out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Subscribe registers fn for state changes. The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

// Bootstrap restores a persisted session and confirms it with the identity
// endpoint. With nothing stored it settles Unauthenticated without any
// network call and returns ErrNotAuthenticated.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.inflight {
		m.mu.Unlock()
		return ErrBusy
	}

	token, user, err := m.loadLocked(ctx)
	if err != nil || token == "" || user == nil {
		if err != nil {
			m.log.Warn(ctx, "stored session unreadable", "err", err)
		}
		clearErr := m.clearLocked(ctx, ErrNotAuthenticated.Error())
		s := m.commitLocked()
		m.mu.Unlock()
		m.publish(s)
		return errors.Join(ErrNotAuthenticated, clearErr)
	}

	m.inflight = true
	m.phase = PhaseBootstrapping
	m.loading = true
	m.err = ""
	epoch := m.epoch
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	verified, verr := m.identity.Verify(ctx, token)

	m.mu.Lock()
	m.inflight = false
	if epoch != m.epoch {
		m.mu.Unlock()
		return ErrSuperseded
	}

	if verr != nil {
		m.log.Info(ctx, "stored session rejected", "err", verr)
		clearErr := m.clearLocked(context.WithoutCancel(ctx), ErrSessionExpired.Error())
		s := m.commitLocked()
		m.mu.Unlock()
		m.publish(s)
		return errors.Join(fmt.Errorf("%w: %w", ErrSessionExpired, verr), clearErr)
	}

	var perr error
	if err := m.store.Update(ctx, func(ctx context.Context, kv storage.KV) error {
		return setJSON(ctx, kv, m.keys.User, verified)
	}); err != nil {
		// storage still holds the previous record; keep memory in step with it
		m.log.Warn(ctx, "failed to persist verified user", "err", err)
		perr = fmt.Errorf("persist verified user: %w", err)
		verified = user
	}

	m.user = verified.Clone()
	m.token = token
	m.phase = PhaseAuthenticated
	m.loading = false
	m.err = ""
	s = m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	m.log.Info(ctx, "session restored", "user_id", verified.ID)
	return perr
}

// Login exchanges credentials for a session. On failure the state records
// the server's message (or "login failed") and the error is also returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	if m.inflight {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.authenticatedLocked() {
		m.mu.Unlock()
		return ErrAlreadyAuthenticated
	}

	m.inflight = true
	m.loading = true
	m.err = ""
	epoch := m.epoch
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	resp, lerr := m.identity.Login(ctx, email, password)

	m.mu.Lock()
	m.inflight = false
	if epoch != m.epoch {
		m.mu.Unlock()
		return ErrSuperseded
	}

	if lerr == nil {
		if err := m.persistLocked(ctx, resp.Token, resp.RefreshToken, &resp.User); err != nil {
			lerr = fmt.Errorf("persist session: %w", err)
		}
	}
	if lerr != nil {
		msg := identity.ServerMessage(lerr)
		if msg == "" {
			msg = ErrLoginFailed.Error()
		}
		m.phase = PhaseUnauthenticated
		m.loading = false
		m.err = msg
		s := m.commitLocked()
		m.mu.Unlock()
		m.publish(s)
		m.log.Info(ctx, "login failed", "err", lerr)
		return fmt.Errorf("%w: %w", ErrLoginFailed, lerr)
	}

	m.user = resp.User.Clone()
	m.token = resp.Token
	m.phase = PhaseAuthenticated
	m.loading = false
	m.err = ""
	s = m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	m.log.Info(ctx, "logged in", "user_id", resp.User.ID)
	return nil
}

// Logout revokes the session remotely on a best-effort basis and always
// clears it locally. Only a storage failure is returned; memory is cleared
// regardless.
func (m *Manager) Logout(ctx context.Context) error {
	token := m.AccessToken()
	if token != "" {
		if err := m.identity.Logout(ctx, token); err != nil {
			m.log.Warn(ctx, "remote logout failed", "err", err)
		}
	}

	m.mu.Lock()
	err := m.clearLocked(context.WithoutCancel(ctx), "")
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	m.log.Info(ctx, "logged out")
	return err
}

// ForceLogout clears the session without contacting the identity endpoint
// and records reason as the error. HTTP layers call it on a 401.
func (m *Manager) ForceLogout(ctx context.Context, reason string) error {
	if reason == "" {
		reason = ErrSessionExpired.Error()
	}

	m.mu.Lock()
	err := m.clearLocked(context.WithoutCancel(ctx), reason)
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	m.log.Info(ctx, "session force-cleared", "reason", reason)
	return err
}

// RefreshAuth rotates the token pair using the stored refresh token. A
// missing refresh token leaves the session untouched and returns
// ErrNoRefreshToken; any refresh failure clears the session. Before
// Bootstrap has settled there is no session to refresh and
// ErrNotAuthenticated is returned without touching state.
func (m *Manager) RefreshAuth(ctx context.Context) error {
	m.mu.Lock()
	if m.inflight {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.phase == PhaseBootstrapping {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}

	var rt string
	if _, err := getJSON(ctx, m.store, m.keys.RefreshToken, &rt); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("read refresh token: %w", err)
	}
	if rt == "" {
		m.err = ErrNoRefreshToken.Error()
		s := m.commitLocked()
		m.mu.Unlock()
		m.publish(s)
		return ErrNoRefreshToken
	}

	m.inflight = true
	m.loading = true
	m.err = ""
	epoch := m.epoch
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	resp, rerr := m.identity.Refresh(ctx, rt)

	m.mu.Lock()
	m.inflight = false
	if epoch != m.epoch {
		m.mu.Unlock()
		return ErrSuperseded
	}

	if rerr == nil {
		next := resp.RefreshToken
		if next == "" {
			next = rt
		}
		if err := m.persistLocked(ctx, resp.Token, next, &resp.User); err != nil {
			rerr = fmt.Errorf("persist session: %w", err)
		}
	}
	if rerr != nil {
		m.log.Info(ctx, "token refresh failed", "err", rerr)
		clearErr := m.clearLocked(context.WithoutCancel(ctx), ErrRefreshFailed.Error())
		s := m.commitLocked()
		m.mu.Unlock()
		m.publish(s)
		return errors.Join(fmt.Errorf("%w: %w", ErrRefreshFailed, rerr), clearErr)
	}

	m.user = resp.User.Clone()
	m.token = resp.Token
	m.phase = PhaseAuthenticated
	m.loading = false
	m.err = ""
	s = m.commitLocked()
	m.mu.Unlock()
	m.publish(s)

	m.log.Debug(ctx, "token refreshed", "user_id", resp.User.ID)
	return nil
}

// UpdateUser replaces the signed-in user's record, persisting it first.
// Tokens are left as they are.
func (m *Manager) UpdateUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	if !m.authenticatedLocked() {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}

	if err := m.store.Update(ctx, func(ctx context.Context, kv storage.KV) error {
		return setJSON(ctx, kv, m.keys.User, &user)
	}); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist user: %w", err)
	}

	m.user = user.Clone()
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)
	return nil
}

func (m *Manager) ClearError() {
	m.mu.Lock()
	if m.err == "" {
		m.mu.Unlock()
		return
	}
	m.err = ""
	s := m.commitLocked()
	m.mu.Unlock()
	m.publish(s)
}

func (m *Manager) authenticatedLocked() bool {
	return m.user != nil && m.token != ""
}

func (m *Manager) snapshotLocked() State {
	return State{
		User:            m.user.Clone(),
		AccessToken:     m.token,
		IsAuthenticated: m.authenticatedLocked(),
		IsLoading:       m.loading,
		Err:             m.err,
		Phase:           m.phase,
		Version:         m.version,
		ChangedAt:       m.changedAt,
	}
}

func (m *Manager) commitLocked() State {
	m.version++
	m.changedAt = m.now()
	return m.snapshotLocked()
}

// clearLocked removes the stored session and resets memory. Memory is
// cleared even when storage fails.
func (m *Manager) clearLocked(ctx context.Context, reason string) error {
	m.epoch++

	err := m.store.Update(ctx, func(ctx context.Context, kv storage.KV) error {
		for _, k := range []string{m.keys.Token, m.keys.RefreshToken, m.keys.User} {
			if err := kv.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})

	m.user = nil
	m.token = ""
	m.phase = PhaseUnauthenticated
	m.loading = false
	m.err = reason

	if err != nil {
		m.log.Error(ctx, "failed to clear stored session", "err", err)
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

func (m *Manager) persistLocked(ctx context.Context, token, refreshToken string, user *models.User) error {
	return m.store.Update(ctx, func(ctx context.Context, kv storage.KV) error {
		if err := setJSON(ctx, kv, m.keys.Token, token); err != nil {
			return err
		}
		if refreshToken == "" {
			if err := kv.Delete(ctx, m.keys.RefreshToken); err != nil {
				return err
			}
		} else if err := setJSON(ctx, kv, m.keys.RefreshToken, refreshToken); err != nil {
			return err
		}
		return setJSON(ctx, kv, m.keys.User, user)
	})
}

func (m *Manager) loadLocked(ctx context.Context) (string, *models.User, error) {
	var token string
	if _, err := getJSON(ctx, m.store, m.keys.Token, &token); err != nil {
		return "", nil, err
	}

	var user models.User
	found, err := getJSON(ctx, m.store, m.keys.User, &user)
	if err != nil {
		return "", nil, err
	}
	if !found || user.ID == "" {
		return token, nil, nil
	}
	return token, &user, nil
}

func (m *Manager) publish(s State) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	if s.Version <= m.lastNotified {
		return
	}
	m.lastNotified = s.Version

	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func getJSON(ctx context.Context, kv storage.KV, key string, v any) (bool, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, kv storage.KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}
