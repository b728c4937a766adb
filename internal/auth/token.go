package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spms-dev/spms/internal/core/domain"
)

// Claims is the session token payload: the minimal identity plus the
// registered expiry claim. Name, phone and description deliberately stay
// out of the token to keep it small and avoid staleness.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenCodec issues and verifies HMAC-signed session tokens.
// The secret is process-wide and read-only after startup; every process
// verifying tokens must hold the same secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec signing with the given secret, issuing
// tokens valid for ttl.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the validity window of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token embedding the principal's identity with an expiry
// ttl from now.
func (c *TokenCodec) Issue(p domain.Principal) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: p.UserID,
		Email:  p.Email,
		Role:   string(p.Role),
	})
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded principal.
// Any failure (bad signature, malformed structure, expired token,
// unknown role) yields (zero, false); callers treat all of them
// uniformly as "unauthenticated".
func (c *TokenCodec) Verify(tokenString string) (domain.Principal, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return domain.Principal{}, false
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, false
	}

	return domain.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, true
}
