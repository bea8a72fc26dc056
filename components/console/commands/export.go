package commands

import (
	"context"
	"errors"
	"io"

	gocommand "github.com/goliatone/go-command"
)

// ExportRecordsInput names the collection and the destination stream.
type ExportRecordsInput struct {
	Collection string    `json:"collection"`
	Out        io.Writer `json:"-"`
}

type exportService interface {
	ExportCSV(ctx context.Context, w io.Writer) error
}

// ExportRecordsCommand streams a tab's CSV export into the given writer.
type ExportRecordsCommand struct {
	service   exportService
	telemetry Telemetry
}

// NewExportRecordsCommand creates a command instance.
func NewExportRecordsCommand(service exportService, telemetry Telemetry) *ExportRecordsCommand {
	return &ExportRecordsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ExportRecordsInput] = (*ExportRecordsCommand)(nil)

// Execute streams the export.
func (c *ExportRecordsCommand) Execute(ctx context.Context, msg ExportRecordsInput) error {
	if c.service == nil {
		return errors.New("export command requires service")
	}
	if msg.Out == nil {
		return errors.New("export command requires destination")
	}
	if err := c.service.ExportCSV(ctx, msg.Out); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.export", map[string]any{
		"collection": msg.Collection,
	})
	return nil
}
