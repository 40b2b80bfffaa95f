package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/recipebookhq/recipebook-backend/pkg/config"
)

// ErrInvalidToken covers malformed, mis-signed and otherwise unusable tokens.
var ErrInvalidToken = errors.New("invalid access token")

// ErrExpiredToken is returned when an otherwise valid token is past its expiry.
var ErrExpiredToken = errors.New("access token expired")

// TokenIssuer mints and parses HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer validates the JWT configuration and returns an issuer.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes")
	}
	ttl := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &TokenIssuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// Mint signs a new access token for the user with the given session id (jti).
func (t *TokenIssuer) Mint(userID int64, role, jti string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("user id is required")
	}
	if jti == "" {
		return "", fmt.Errorf("token id is required")
	}
	now := time.Now().UTC()
	claims := AccessTokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    t.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature and standard claims, rejecting expired tokens.
func (t *TokenIssuer) Parse(raw string) (AccessTokenPayload, error) {
	return t.parse(raw, false)
}

// ParseAllowExpired validates the signature but tolerates an expired token.
// Used by the refresh flow, where the expired access token still identifies
// the session being rotated.
func (t *TokenIssuer) ParseAllowExpired(raw string) (AccessTokenPayload, error) {
	return t.parse(raw, true)
}

func (t *TokenIssuer) parse(raw string, allowExpired bool) (AccessTokenPayload, error) {
	claims := &AccessTokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
	)

	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		if allowExpired && errors.Is(err, jwt.ErrTokenExpired) {
			return claims.Payload(), nil
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessTokenPayload{}, ErrExpiredToken
		}
		return AccessTokenPayload{}, ErrInvalidToken
	}
	if !token.Valid || claims.UserID <= 0 || claims.ID == "" {
		return AccessTokenPayload{}, ErrInvalidToken
	}
	return claims.Payload(), nil
}

// AccessTokenTTL reports the configured token lifetime.
func (t *TokenIssuer) AccessTokenTTL() time.Duration {
	return t.ttl
}
