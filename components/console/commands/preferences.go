package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/app-aegis/aegis-admin/components/console"
)

// SavePreferencesInput captures an admin's UI defaults.
type SavePreferencesInput struct {
	Email       string              `json:"email"`
	Preferences console.Preferences `json:"preferences"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, email string, prefs console.Preferences) error
}

// SavePreferencesCommand persists per-admin UI preferences.
type SavePreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates a command instance.
func NewSavePreferencesCommand(service preferenceService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute persists the preferences.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if err := c.service.SavePreferences(ctx, msg.Email, msg.Preferences); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.preferences", map[string]any{
		"email": msg.Email,
	})
	return nil
}
