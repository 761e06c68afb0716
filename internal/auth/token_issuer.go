package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs access tokens for users that log in with email and password.
// The claims match the ones produced for OAuth clients so the same middleware
// accepts both.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// IssuedToken is a signed access token with its lifetime
type IssuedToken struct {
	AccessToken string
	ExpiresAt   time.Time
	ExpiresIn   int64
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		method: jwt.SigningMethodHS512,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token carrying the user's id and role
func (i *TokenIssuer) Issue(user *models.User) (IssuedToken, error) {
	if user == nil || user.ID == 0 {
		return IssuedToken{}, fmt.Errorf("cannot issue token: no user ID available")
	}
	if !user.Role.IsValid() {
		return IssuedToken{}, fmt.Errorf("cannot issue token: user %d has invalid role %q", user.ID, user.Role)
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"uid":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
		"jti":  uuid.New().String(),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(i.ttl.Seconds()),
	}, nil
}
