package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RefreshListInput names the collection being refetched.
type RefreshListInput struct {
	Collection string `json:"collection"`
}

type refreshService interface {
	Refresh(ctx context.Context) error
}

// RefreshListCommand refetches a tab's current page with its applied
// filters.
type RefreshListCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshListCommand creates a command instance.
func NewRefreshListCommand(service refreshService, telemetry Telemetry) *RefreshListCommand {
	return &RefreshListCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshListInput] = (*RefreshListCommand)(nil)

// Execute triggers the refetch.
func (c *RefreshListCommand) Execute(ctx context.Context, msg RefreshListInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if err := c.service.Refresh(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.refresh", map[string]any{
		"collection": msg.Collection,
	})
	return nil
}
