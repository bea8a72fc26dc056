package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

// ListPageInput selects which page of a tab to materialize. A zero page
// keeps the tab's current one.
type ListPageInput struct {
	Page int
}

type pageService[T any] interface {
	SetPage(ctx context.Context, page int) error
	Refresh(ctx context.Context) error
	Snapshot() console.ListSnapshot[T]
}

// ListPageQuery fetches one page of a tab and returns its render snapshot.
type ListPageQuery[T any] struct {
	service pageService[T]
}

// NewListPageQuery builds the query over a tab controller.
func NewListPageQuery[T any](service pageService[T]) *ListPageQuery[T] {
	return &ListPageQuery[T]{service: service}
}

var _ gocommand.Querier[ListPageInput, console.ListSnapshot[console.Parent]] = (*ListPageQuery[console.Parent])(nil)

// Query navigates, refreshes and snapshots the tab.
func (q *ListPageQuery[T]) Query(ctx context.Context, input ListPageInput) (console.ListSnapshot[T], error) {
	var err error
	if input.Page > 0 {
		err = q.service.SetPage(ctx, input.Page)
	} else {
		err = q.service.Refresh(ctx)
	}
	if err != nil {
		return q.service.Snapshot(), err
	}
	return q.service.Snapshot(), nil
}
