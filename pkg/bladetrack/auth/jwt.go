package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultTokenDuration is used when Tokens is created with a zero TTL
const DefaultTokenDuration = 24 * time.Hour

// Claims represents the JWT claims. OrganizationID is the active organization
// the user selected, or zero if none has been selected yet.
type Claims struct {
	UserID         uint   `json:"user_id"`
	Email          string `json:"email"`
	SystemRole     string `json:"system_role"`
	OrganizationID uint   `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 session tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokens creates a token issuer with the given signing secret and lifetime
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenDuration
	}
	return &Tokens{secret: secret, ttl: ttl, issuer: "bladetrack"}
}

// Generate creates a new JWT token for a user, optionally bound to an organization
func (t *Tokens) Generate(userID uint, email string, systemRole string, orgID uint) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:         userID,
		Email:          email,
		SystemRole:     systemRole,
		OrganizationID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate validates a JWT token and returns the claims
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || len(claims.Audience) > 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// flowAudience marks sign-in state tokens so they never pass as sessions
const flowAudience = "bladetrack-signin"

// FlowClaims carry the state of a browser sign-in round trip through an
// external identity provider
type FlowClaims struct {
	Nonce     string `json:"nonce"`
	ReturnURL string `json:"return_url,omitempty"`
	jwt.RegisteredClaims
}

// GenerateFlow signs sign-in state valid for ttl
func (t *Tokens) GenerateFlow(nonce, returnURL string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &FlowClaims{
		Nonce:     nonce,
		ReturnURL: returnURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{flowAudience},
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ValidateFlow checks sign-in state produced by GenerateFlow
func (t *Tokens) ValidateFlow(tokenString string) (*FlowClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &FlowClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithAudience(flowAudience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*FlowClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
