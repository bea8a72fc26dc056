package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

type tableService interface {
	Select(ctx context.Context, name string) (console.TableView, error)
}

// TableQuery fetches one raw table by display name.
type TableQuery struct {
	service tableService
}

// NewTableQuery builds the query.
func NewTableQuery(service tableService) *TableQuery {
	return &TableQuery{service: service}
}

var _ gocommand.Querier[string, console.TableView] = (*TableQuery)(nil)

// Query resolves the table into its generic rendering.
func (q *TableQuery) Query(ctx context.Context, name string) (console.TableView, error) {
	return q.service.Select(ctx, name)
}
