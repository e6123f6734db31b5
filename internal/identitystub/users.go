package identitystub

import (
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrInvalidPassword = errors.New("current password is incorrect")
)

type account struct {
	user models.User
	hash []byte
}

type userStore struct {
	mu      sync.RWMutex
	byID    map[string]*account
	byEmail map[string]*account
	cost    int
}

func newUserStore(cost int) *userStore {
	return &userStore{
		byID:    make(map[string]*account),
		byEmail: make(map[string]*account),
		cost:    cost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userStore) Create(name, email, password string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, err
	}

	key := normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[key]; ok {
		return models.User{}, ErrUserExists
	}

	acc := &account{
		user: models.User{ID: uuid.NewString(), Name: name, Email: key, Role: role},
		hash: hash,
	}
	s.byID[acc.user.ID] = acc
	s.byEmail[key] = acc
	return acc.user, nil
}

func (s *userStore) Authenticate(email, password string) (models.User, error) {
	s.mu.RLock()
	acc, ok := s.byEmail[normalizeEmail(email)]
	var (
		user models.User
		hash []byte
	)
	if ok {
		user, hash = acc.user, acc.hash
	}
	s.mu.RUnlock()
	if !ok {
		return models.User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return models.User{}, ErrBadCredentials
	}
	return user, nil
}

func (s *userStore) Get(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return acc.user, nil
}

func (s *userStore) UpdateProfile(id string, p models.ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if p.Name != "" {
		acc.user.Name = p.Name
	}
	if p.Avatar != "" {
		acc.user.Avatar = p.Avatar
	}
	return acc.user, nil
}

// Lookup finds an account by email.
func (s *userStore) Lookup(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return acc.user, nil
}

func (s *userStore) ChangePassword(id, current, next string) error {
	s.mu.RLock()
	acc, ok := s.byID[id]
	var hash []byte
	if ok {
		hash = acc.hash
	}
	s.mu.RUnlock()
	if !ok {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(current)) != nil {
		return ErrInvalidPassword
	}
	return s.SetPassword(id, next)
}

// SetPassword replaces the password without checking the current one.
func (s *userStore) SetPassword(id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	acc.hash = hash
	return nil
}
