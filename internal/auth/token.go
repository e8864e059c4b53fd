package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure. Malformed,
// expired, and badly signed tokens are deliberately indistinguishable so the
// API never tells a caller which check rejected their token.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the statements embedded in an issued token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed bearer tokens. The secret is
// process-wide configuration loaded once at startup.
type Tokens struct {
	secret []byte
	expiry time.Duration
}

// NewTokens creates a token issuer/verifier with the given signing secret
// and token lifetime.
func NewTokens(secret []byte, expiry time.Duration) *Tokens {
	return &Tokens{secret: secret, expiry: expiry}
}

// Issue signs a token asserting the given user identity.
func (t *Tokens) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks the signature and expiry and returns the decoded claims.
// Any failure returns ErrInvalidToken.
func (t *Tokens) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
