package restapi

import (
	"context"
	"encoding/json"
	"io"
)

// TokenSource supplies the bearer credential attached to authenticated
// requests. Implementations must be safe for concurrent use.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a TokenSource holding a fixed credential.
type StaticToken string

// Token returns the stored credential.
func (t StaticToken) Token(context.Context) string { return string(t) }

type sessionTokenKey struct{}

// WithSessionToken returns a context carrying a per-request credential,
// typically the admin's own bearer token read from their session cookie.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

// SessionToken is a TokenSource that prefers the per-request credential in
// the context over its fixed fallback. Servers that act on behalf of their
// signed-in admins use it so backend calls carry the admin's own token.
type SessionToken struct {
	Fallback string
}

// Token returns the context credential when present, otherwise the fallback.
func (t SessionToken) Token(ctx context.Context) string {
	if token, ok := ctx.Value(sessionTokenKey{}).(string); ok && token != "" {
		return token
	}
	return t.Fallback
}

// Query captures the list-endpoint parameters shared by every collection.
type Query struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

// Lister fetches pages from collection endpoints.
type Lister interface {
	List(ctx context.Context, collection string, q Query) (ListResult, error)
}

// Getter fetches a single entity by id.
type Getter interface {
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
}

// Mutator issues create/update/delete calls against a collection.
type Mutator interface {
	Create(ctx context.Context, collection string, payload any) error
	Update(ctx context.Context, collection, id string, payload any) error
	Delete(ctx context.Context, collection, id string) error
}

// Exporter streams CSV exports for a collection.
type Exporter interface {
	Export(ctx context.Context, collection string, w io.Writer) error
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Client is a convenience union for services that need the full API surface.
type Client interface {
	Lister
	Getter
	Mutator
	Exporter
	Authenticator
}
