package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// DeleteRecordInput identifies the row whose pending delete to confirm.
type DeleteRecordInput struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type deleteService interface {
	RequestDelete(id string)
	ConfirmDelete(ctx context.Context) error
}

// DeleteRecordCommand drives the confirm-then-delete flow of a tab
// controller.
type DeleteRecordCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteRecordCommand creates a command instance.
func NewDeleteRecordCommand(service deleteService, telemetry Telemetry) *DeleteRecordCommand {
	return &DeleteRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteRecordInput] = (*DeleteRecordCommand)(nil)

// Execute confirms the delete for the targeted row.
func (c *DeleteRecordCommand) Execute(ctx context.Context, msg DeleteRecordInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if msg.ID == "" {
		return errors.New("delete command requires id")
	}
	c.service.RequestDelete(msg.ID)
	if err := c.service.ConfirmDelete(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.delete", map[string]any{
		"collection": msg.Collection,
		"id":         msg.ID,
	})
	return nil
}
