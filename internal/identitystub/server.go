package identitystub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/common"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type Server struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
	logger     logging.Logger
	notify     func(email, token string)

	users   *userStore
	refresh *tokenStore
	resets  *tokenStore
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithTTL sets access and refresh token lifetimes.
func WithTTL(access, refresh time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithResetNotifier sets how password reset tokens reach the user. By
// default they are only written to the log.
func WithResetNotifier(fn func(email, token string)) Option {
	return func(s *Server) { s.notify = fn }
}

// WithBcryptCost lowers hashing cost, mainly for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.users.cost = cost }
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		secret:     []byte("dev-secret"),
		accessTTL:  time.Minute,
		refreshTTL: 30 * time.Minute,
		resetTTL:   15 * time.Minute,
		now:        time.Now,
		logger:     logging.Discard(),
		users:      newUserStore(bcrypt.DefaultCost),
		refresh:    newTokenStore(),
		resets:     newTokenStore(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddUser registers an account directly, bypassing the HTTP surface.
func (s *Server) AddUser(name, email, password string, role models.Role) (models.User, error) {
	return s.users.Create(name, email, password, role)
}

// Handler returns the router with identity routes under authPrefix and
// profile routes under apiPrefix, e.g. "/api/v1/auth" and "/api/v1".
func (s *Server) Handler(apiPrefix, authPrefix string) http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	auth := r.PathPrefix(authPrefix).Subrouter()
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	auth.HandleFunc("/verify", s.handleVerify).Methods(http.MethodGet)
	auth.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	auth.HandleFunc("/change-password", s.handleChangePassword).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", s.handleResetPassword).Methods(http.MethodPost)

	api := r.PathPrefix(apiPrefix).Subrouter()
	api.HandleFunc("/users/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/profile", s.handleUpdateProfile).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Page not found")
	})
	return r
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping identity server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "err", err)
		}
	}()

	s.logger.Info(ctx, "Starting identity server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(common.RequestIDHeader))
		next.ServeHTTP(w, r)
	})
}

type authBody struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

func (s *Server) issue(user models.User) (*authBody, error) {
	now := s.now()
	access, err := GenerateToken(user.ID, string(user.Role), s.secret, now, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Issue(user.ID, now, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &authBody{User: user, Token: access, RefreshToken: refresh}, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.users.Authenticate(in.Email, in.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, ErrBadCredentials.Error())
		return
	}

	body, err := s.issue(user)
	if err != nil {
		s.logger.Error(r.Context(), "issue tokens", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	writeData(w, http.StatusOK, body)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	userID, err := s.refresh.Consume(in.RefreshToken, s.now())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	user, err := s.users.Get(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	body, err := s.issue(user)
	if err != nil {
		s.logger.Error(r.Context(), "issue tokens", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}
	writeData(w, http.StatusOK, body)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	n := s.refresh.RevokeUser(claims.UserID)
	s.logger.Debug(r.Context(), "logout", "user_id", claims.UserID, "revoked", n)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(in.Name) == "" || !strings.Contains(in.Email, "@") || len(in.Password) < 6 {
		writeError(w, http.StatusBadRequest, "name, valid email and a password of at least 6 characters are required")
		return
	}

	role := in.Role
	switch role {
	case "":
		role = models.RoleDonor
	case models.RoleDonor, models.RoleRecipient, models.RoleUser:
	default:
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := s.users.Create(in.Name, in.Email, in.Password, role)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error(r.Context(), "register", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "new password of at least 6 characters is required")
		return
	}

	if err := s.users.ChangePassword(claims.UserID, in.CurrentPassword, in.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "invalid token")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}
	s.refresh.RevokeUser(claims.UserID)
	writeData(w, http.StatusOK, "Password changed successfully")
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	// unknown addresses get the same answer as known ones
	if user, err := s.users.Lookup(in.Email); err == nil {
		token, err := s.resets.Issue(user.ID, s.now(), s.resetTTL)
		if err != nil {
			s.logger.Error(r.Context(), "issue reset token", "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to process request")
			return
		}
		s.logger.Info(r.Context(), "password reset requested", "email", user.Email, "reset_token", token)
		if s.notify != nil {
			s.notify(user.Email, token)
		}
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Password reset email sent successfully"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token == "" || len(in.Password) < 6 {
		writeError(w, http.StatusBadRequest, "token and a password of at least 6 characters are required")
		return
	}

	userID, err := s.resets.Consume(in.Token, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}
	if err := s.users.SetPassword(userID, in.Password); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		s.logger.Error(r.Context(), "reset password", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	s.refresh.RevokeUser(userID)
	writeData(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var in models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	user, err := s.users.UpdateProfile(claims.UserID, in)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeData(w, http.StatusOK, user)
}

// authenticate validates the bearer token, answering 401 itself on failure.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*Claims, bool) {
	token := common.BearerToken(r.Header.Get(common.AuthorizationHeader))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return nil, false
	}
	claims, err := ParseToken(token, s.secret, s.now())
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, ErrTokenExpired) {
			msg = "token expired"
		}
		writeError(w, http.StatusUnauthorized, msg)
		return nil, false
	}
	return claims, true
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return models.User{}, false
	}
	user, err := s.users.Get(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return models.User{}, false
	}
	return user, true
}

type meta struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, struct {
		Data any  `json:"data"`
		Meta meta `json:"meta"`
	}{data, meta{Code: status, Message: "Success", Status: "success"}})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, meta{Code: status, Message: message, Status: "error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
