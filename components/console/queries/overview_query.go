package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

type overviewService interface {
	SetPreset(ctx context.Context, preset console.RangePreset) error
	Snapshot() console.OverviewSnapshot
}

// OverviewQuery recomputes the overview for a reporting window.
type OverviewQuery struct {
	service overviewService
}

// NewOverviewQuery builds the query.
func NewOverviewQuery(service overviewService) *OverviewQuery {
	return &OverviewQuery{service: service}
}

var _ gocommand.Querier[console.RangePreset, console.OverviewSnapshot] = (*OverviewQuery)(nil)

// Query selects the preset, refetches and snapshots.
func (q *OverviewQuery) Query(ctx context.Context, preset console.RangePreset) (console.OverviewSnapshot, error) {
	if err := q.service.SetPreset(ctx, preset); err != nil {
		return q.service.Snapshot(), err
	}
	return q.service.Snapshot(), nil
}
