// Package auth issues and checks the bearer tokens that bind preview
// requests to a learner session.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "mindengage-courseware"

// DefaultTTL matches a long authoring session.
const DefaultTTL = 8 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type AuthService struct {
	hmac []byte
	ttl  time.Duration
	now  func() time.Time
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AuthService{hmac: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims carry the session id in the standard subject claim.
type Claims struct {
	Standalone bool `json:"standalone"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueToken(sessionID string, standalone bool) (string, error) {
	now := a.now()
	claims := &Claims{
		Standalone: standalone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(a.hmac)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
