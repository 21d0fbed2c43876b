package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/book-catalog/internal/domain"
)

// Verification failure causes. These are routine outcomes on the hot
// authentication path, not exceptional failures.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Codec issues and verifies signed tokens.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec around the process-wide signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Claims describes the token payload. The identity claim is embedded at
// issuance and returned unchanged on verification; RegisteredClaims
// contributes the exp and jti wire fields.
type Claims struct {
	User    domain.UserClaim `json:"user"`
	Refresh bool             `json:"refresh"`
	jwt.RegisteredClaims
}

// Kind reports which credential the claims represent.
func (c *Claims) Kind() domain.TokenKind {
	if c.Refresh {
		return domain.TokenKindRefresh
	}
	return domain.TokenKindAccess
}

// TokenID returns the jti used for revocation bookkeeping.
func (c *Claims) TokenID() string {
	return c.ID
}

// Issue builds and signs a token for the given identity. Each call draws a
// fresh jti; ttl is required, callers own the access/refresh lifetimes.
func (cd *Codec) Issue(user domain.UserClaim, refresh bool, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &Claims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cd.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature and expiry and returns the decoded claims.
// Failures surface as the package's typed errors so the boundary can map
// each cause to a distinct response.
func (cd *Codec) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMalformedToken
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return cd.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
