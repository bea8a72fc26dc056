package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// LoginInput carries the login form credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionQuery exchanges credentials for an admin session.
type SessionQuery struct {
	auth restapi.Authenticator
}

// NewSessionQuery builds the query over the auth endpoint.
func NewSessionQuery(auth restapi.Authenticator) *SessionQuery {
	return &SessionQuery{auth: auth}
}

var _ gocommand.Querier[LoginInput, console.Session] = (*SessionQuery)(nil)

// Query performs the login and admin-role gate.
func (q *SessionQuery) Query(ctx context.Context, input LoginInput) (console.Session, error) {
	return console.Login(ctx, q.auth, input.Email, input.Password)
}
