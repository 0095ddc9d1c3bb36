package auth

import (
	"github.com/PHRJr/BuritisProject/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data available when minting a session cookie.
type SessionTokenPayload struct {
	SessionID string
	Role      enums.Role
}

// SessionClaims is the signed cookie value. The registered jti holds the
// server-side session id; the role is a hint only and is re-read from Redis.
type SessionClaims struct {
	Role enums.Role `json:"role"`
	jwt.RegisteredClaims
}
