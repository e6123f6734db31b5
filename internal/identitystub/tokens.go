package identitystub

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the user ID and role next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

func GenerateToken(userID, role string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString(secret)
}

// ParseToken validates tokenString against secret at time now and returns
// its claims.
func ParseToken(tokenString string, secret []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type opaqueToken struct {
	userID  string
	expires time.Time
}

// tokenStore keeps issued opaque tokens (refresh and password reset).
// Tokens are consumed on use.
type tokenStore struct {
	mu     sync.Mutex
	tokens map[string]opaqueToken
}

func newTokenStore() *tokenStore {
	return &tokenStore{tokens: make(map[string]opaqueToken)}
}

func (s *tokenStore) Issue(userID string, now time.Time, ttl time.Duration) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.tokens[token] = opaqueToken{userID: userID, expires: now.Add(ttl)}
	s.mu.Unlock()
	return token, nil
}

// Consume removes token and returns its owner if it was still valid.
func (s *tokenStore) Consume(token string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	delete(s.tokens, token)
	if !now.Before(rt.expires) {
		return "", ErrTokenExpired
	}
	return rt.userID, nil
}

func (s *tokenStore) RevokeUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, rt := range s.tokens {
		if rt.userID == userID {
			delete(s.tokens, token)
			n++
		}
	}
	return n
}
