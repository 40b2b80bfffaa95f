package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried inside access tokens.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

// AccessTokenPayload is the domain-facing view of a parsed access token.
type AccessTokenPayload struct {
	UserID int64
	Role   string
	JTI    string
}

// AccessTokenClaims is the JWT claim set minted for API access tokens.
type AccessTokenClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Payload converts the raw claims into the domain payload.
func (c *AccessTokenClaims) Payload() AccessTokenPayload {
	return AccessTokenPayload{
		UserID: c.UserID,
		Role:   c.Role,
		JTI:    c.ID,
	}
}
