package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the JWT payload the dashboard surface authenticates with.
// CompanyID is present for company operators and gates company-scoped reports.
type AccessTokenClaims struct {
	UserID    uuid.UUID  `json:"uid"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Admin     bool       `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input to MintAccessToken.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	CompanyID *uuid.UUID
	Admin     bool
	JTI       string
}
