package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/app-aegis/aegis-admin/components/console"
	"github.com/app-aegis/aegis-admin/components/console/web"
	"github.com/app-aegis/aegis-admin/pkg/config"
	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

type cli struct {
	Config string `type:"path" help:"Path to the console configuration YAML."`

	Serve  serveCmd  `cmd:"" default:"1" help:"Run the admin console server."`
	Export exportCmd `cmd:"" help:"Download a collection export as CSV."`
	Login  loginCmd  `cmd:"" help:"Verify credentials and print the session token."`
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Admin console for the Aegis parental backend."),
		kong.UsageOnError(),
	)
	cfg, err := config.Load(root.Config)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(context.Background(), cfg))
}

func newClient(cfg config.Config, tokens restapi.TokenSource) (*restapi.HTTPClient, error) {
	return restapi.NewHTTPClient(restapi.HTTPConfig{
		BaseURL:    cfg.API.BaseURL,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
	})
}

type serveCmd struct{}

func (cmd *serveCmd) Run(_ context.Context, cfg config.Config) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	// Dashboard requests act on behalf of the signed-in admin: the session
	// token from the request context wins over the configured service token.
	client, err := newClient(cfg, restapi.SessionToken{Fallback: cfg.API.Token})
	if err != nil {
		return err
	}
	server, err := web.NewServer(web.Options{
		Client:        client,
		Tables:        registry,
		PageSize:      cfg.UI.PageSize,
		ResolverLimit: cfg.UI.ResolverLimit,
		ChartCacheTTL: cfg.UI.ChartCacheTTL,
	})
	if err != nil {
		return err
	}

	app := server.App()
	go func() {
		log.Printf("admindash listening on %s", cfg.Server.Addr)
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

type exportCmd struct {
	Collection string `arg:"" enum:"feedbacks,logs,payments" help:"Collection to export."`
	Out        string `type:"path" help:"Destination file (defaults to <collection>.csv)."`
}

func (cmd *exportCmd) Run(ctx context.Context, cfg config.Config) error {
	out := cmd.Out
	if out == "" {
		out = cmd.Collection + ".csv"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("admindash: create %s: %w", out, err)
	}
	defer f.Close()

	client, err := newClient(cfg, restapi.StaticToken(cfg.API.Token))
	if err != nil {
		return err
	}
	if err := client.Export(ctx, cmd.Collection, f); err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	return nil
}

type loginCmd struct {
	Email    string `required:"" help:"Admin email."`
	Password string `required:"" help:"Admin password."`
}

func (cmd *loginCmd) Run(ctx context.Context, cfg config.Config) error {
	client, err := newClient(cfg, restapi.StaticToken(cfg.API.Token))
	if err != nil {
		return err
	}
	session, err := console.Login(ctx, client, cmd.Email, cmd.Password)
	if err != nil {
		return err
	}
	fmt.Println(session.Token)
	return nil
}
