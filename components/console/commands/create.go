package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

// CreateRecordInput carries a validated form into a list tab.
type CreateRecordInput struct {
	Collection string       `json:"collection"`
	Form       console.Form `json:"form"`
}

type createService interface {
	Create(ctx context.Context, form console.Form) error
}

// CreateRecordCommand wraps a tab controller's create path so transports can
// submit dialog forms without linking against the controller type.
type CreateRecordCommand struct {
	service   createService
	telemetry Telemetry
}

// NewCreateRecordCommand creates a command instance.
func NewCreateRecordCommand(service createService, telemetry Telemetry) *CreateRecordCommand {
	return &CreateRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateRecordInput] = (*CreateRecordCommand)(nil)

// Execute validates and submits the form through the controller.
func (c *CreateRecordCommand) Execute(ctx context.Context, msg CreateRecordInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	if msg.Form == nil {
		return errors.New("create command requires form")
	}
	if err := c.service.Create(ctx, msg.Form); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.create", map[string]any{
		"collection": msg.Collection,
	})
	return nil
}
