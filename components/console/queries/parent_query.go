package queries

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

type parentService interface {
	Resolve(ctx context.Context, id string) (console.Parent, bool)
}

// ParentQuery resolves a parent id through the shared cache.
type ParentQuery struct {
	service parentService
}

// NewParentQuery builds the query over the resolver.
func NewParentQuery(service parentService) *ParentQuery {
	return &ParentQuery{service: service}
}

var _ gocommand.Querier[string, console.Parent] = (*ParentQuery)(nil)

// Query resolves the id, fetching on first use.
func (q *ParentQuery) Query(ctx context.Context, id string) (console.Parent, error) {
	parent, ok := q.service.Resolve(ctx, id)
	if !ok {
		return console.Parent{}, fmt.Errorf("queries: parent %q not found", id)
	}
	return parent, nil
}
