package console

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenClaimsRoleShapes(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		roles  []string
	}{
		{"roles array", jwt.MapClaims{"roles": []string{"Admin", "Staff"}}, []string{"Admin", "Staff"}},
		{"roles string", jwt.MapClaims{"roles": "Admin"}, []string{"Admin"}},
		{"singular role", jwt.MapClaims{"role": "Admin"}, []string{"Admin"}},
		{"namespaced role", jwt.MapClaims{msRoleClaim: "Admin"}, []string{"Admin"}},
		{"no role claim", jwt.MapClaims{"sub": "u1"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := TokenClaims(signedToken(t, tc.claims))
			require.NoError(t, err)
			assert.Equal(t, tc.roles, claims.Roles)
		})
	}
}

func TestTokenClaimsEmailFallsBackToNamespacedClaim(t *testing.T) {
	claims, err := TokenClaims(signedToken(t, jwt.MapClaims{msEmailClaim: "ns@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "ns@example.com", claims.Email)

	claims, err = TokenClaims(signedToken(t, jwt.MapClaims{
		"email":      "flat@example.com",
		msEmailClaim: "ns@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, "flat@example.com", claims.Email)
}

func TestTokenClaimsMalformedToken(t *testing.T) {
	_, err := TokenClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{"Staff", "Admin"}}
	assert.True(t, claims.HasRole("Admin"))
	assert.False(t, claims.HasRole("Owner"))
	assert.False(t, Claims{}.HasRole("Admin"))
}

func TestLoginAdmin(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.Token = signedToken(t, jwt.MapClaims{"email": "a@b.com", "roles": []string{"Admin"}})

	session, err := Login(context.Background(), mock, "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, mock.Token, session.Token)
	assert.Equal(t, "a@b.com", session.Email)
}

func TestLoginEmailFallsBackToInput(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.Token = signedToken(t, jwt.MapClaims{"roles": "Admin"})

	session, err := Login(context.Background(), mock, "typed@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "typed@example.com", session.Email)
}

func TestLoginNonAdminRejected(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.Token = signedToken(t, jwt.MapClaims{"email": "s@b.com", "roles": []string{"Staff"}})

	_, err := Login(context.Background(), mock, "s@b.com", "pw")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestLoginBackendRejection(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.LoginErr = &restapi.StatusError{Code: 401, Body: "bad credentials"}

	_, err := Login(context.Background(), mock, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnparseableTokenRejected(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.Token = "garbage"

	_, err := Login(context.Background(), mock, "a@b.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
