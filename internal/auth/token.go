package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contact-keeper/internal/domain"
)

// DefaultTokenTTL matches the expiry the API has always issued.
const DefaultTokenTTL = 360000 * time.Second

// TokenUser is the identity embedded in a token payload.
type TokenUser struct {
	ID int64 `json:"id"`
}

// Claims is the signed token payload: {"user":{"id":...}} plus expiry.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with an HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user id, valid for the configured TTL.
func (t *TokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		User: TokenUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the embedded user id.
// Any verification failure is reported as domain.ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (int64, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}
	if claims.User.ID == 0 {
		return 0, domain.ErrInvalidToken
	}
	return claims.User.ID, nil
}
