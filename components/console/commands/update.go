package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

// UpdateRecordInput carries an edited form for one row.
type UpdateRecordInput struct {
	Collection string       `json:"collection"`
	ID         string       `json:"id"`
	Form       console.Form `json:"form"`
}

type updateService interface {
	Update(ctx context.Context, id string, form console.Form) error
}

// UpdateRecordCommand submits full-form edits through a tab controller.
type UpdateRecordCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateRecordCommand creates a command instance.
func NewUpdateRecordCommand(service updateService, telemetry Telemetry) *UpdateRecordCommand {
	return &UpdateRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateRecordInput] = (*UpdateRecordCommand)(nil)

// Execute validates and submits the edit.
func (c *UpdateRecordCommand) Execute(ctx context.Context, msg UpdateRecordInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.ID == "" {
		return errors.New("update command requires id")
	}
	if msg.Form == nil {
		return errors.New("update command requires form")
	}
	if err := c.service.Update(ctx, msg.ID, msg.Form); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.update", map[string]any{
		"collection": msg.Collection,
		"id":         msg.ID,
	})
	return nil
}

// PatchRecordInput carries a partial field update, such as the verified
// checkbox toggle.
type PatchRecordInput struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Fields     map[string]any `json:"fields"`
}

type patchService interface {
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// PatchRecordCommand applies inline field toggles without form validation.
type PatchRecordCommand struct {
	service   patchService
	telemetry Telemetry
}

// NewPatchRecordCommand creates a command instance.
func NewPatchRecordCommand(service patchService, telemetry Telemetry) *PatchRecordCommand {
	return &PatchRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PatchRecordInput] = (*PatchRecordCommand)(nil)

// Execute applies the partial update.
func (c *PatchRecordCommand) Execute(ctx context.Context, msg PatchRecordInput) error {
	if c.service == nil {
		return errors.New("patch command requires service")
	}
	if msg.ID == "" {
		return errors.New("patch command requires id")
	}
	if len(msg.Fields) == 0 {
		return errors.New("patch command requires fields")
	}
	if err := c.service.UpdateFields(ctx, msg.ID, msg.Fields); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.patch", map[string]any{
		"collection": msg.Collection,
		"id":         msg.ID,
	})
	return nil
}
