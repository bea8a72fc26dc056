package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// Namespaced claim URIs some identity providers emit instead of flat names.
const (
	msRoleClaim  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	msEmailClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/email"
)

// AdminRole is the only role the console accepts.
const AdminRole = "Admin"

var (
	// ErrNotAdmin means the credential is valid but lacks the Admin role.
	ErrNotAdmin = errors.New("console: account does not have admin access")
	// ErrInvalidCredentials means the backend rejected the login.
	ErrInvalidCredentials = errors.New("console: invalid credentials")
)

// Claims is the subset of token claims the console inspects. The token's
// signature is the backend's concern; the console only reads the payload.
type Claims struct {
	Email string
	Roles []string
}

// HasRole reports whether the claim set carries the given role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenClaims decodes a JWT payload without verifying its signature. Roles
// are read from `roles` (array or string), `role`, or the namespaced claim.
func TokenClaims(token string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("console: parse token: %w", err)
	}
	claims := Claims{}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	} else if email, ok := mapClaims[msEmailClaim].(string); ok {
		claims.Email = email
	}
	for _, key := range []string{"roles", "role", msRoleClaim} {
		raw, ok := mapClaims[key]
		if !ok {
			continue
		}
		claims.Roles = rolesFromClaim(raw)
		if len(claims.Roles) > 0 {
			break
		}
	}
	return claims, nil
}

func rolesFromClaim(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	case []string:
		return v
	default:
		return nil
	}
}

// Session is an authenticated admin credential plus its display identity.
type Session struct {
	Token string
	Email string
}

// Login exchanges credentials for a token and gates on the Admin role.
func Login(ctx context.Context, auth restapi.Authenticator, email, password string) (Session, error) {
	token, err := auth.Login(ctx, email, password)
	if err != nil {
		var statusErr *restapi.StatusError
		if errors.As(err, &statusErr) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	claims, err := TokenClaims(token)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !claims.HasRole(AdminRole) {
		return Session{}, ErrNotAdmin
	}
	session := Session{Token: token, Email: claims.Email}
	if session.Email == "" {
		session.Email = email
	}
	return session, nil
}
