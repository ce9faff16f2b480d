package domain

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity fields the storefront reads out of a platform
// session token. They gate UI-level access only; the platform API
// enforces authorization on every call with the same token.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the claims carry the back-office role.
func (c Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// ClaimsFromToken decodes a platform session token without verifying
// its signature. The platform issued and will re-verify the token; the
// storefront only needs the claims for display and route gating.
func ClaimsFromToken(token string, now time.Time) (Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var mc jwt.MapClaims
	if _, _, err := parser.ParseUnverified(token, &mc); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}

	claims := Claims{
		UserID: stringClaim(mc, "sub"),
		Email:  stringClaim(mc, "email"),
		Name:   stringClaim(mc, "name"),
		Role:   stringClaim(mc, "role"),
	}
	if claims.UserID == "" {
		return Claims{}, fmt.Errorf("decode token: missing subject")
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
		if !now.Before(exp.Time) {
			return Claims{}, fmt.Errorf("token expired at %s", exp.Time.Format(time.RFC3339))
		}
	}

	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}
