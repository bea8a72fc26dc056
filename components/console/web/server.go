package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/app-aegis/aegis-admin/components/console"
	"github.com/app-aegis/aegis-admin/components/console/commands"
	"github.com/app-aegis/aegis-admin/components/console/queries"
	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// sessionCookie carries the admin's bearer token between requests.
const sessionCookie = "token"

// emailCookie carries the admin's display identity.
const emailCookie = "admin_email"

// Options wires the console server's collaborators. Client is required;
// everything else has a working default.
type Options struct {
	Client        restapi.Client
	Telemetry     console.Telemetry
	Tables        *console.TableRegistry
	Preferences   console.PreferenceStore
	PageSize      int
	ResolverLimit int
	ChartCacheTTL time.Duration
}

// Server is the HTML transport over the console controllers. One instance
// serves every admin; per-request identity travels in cookies.
type Server struct {
	client   restapi.Client
	users    *console.ListController[console.Parent]
	feedback *console.ListController[console.Feedback]
	logs     *console.ListController[console.Log]
	revenue  *console.ListController[console.Payment]
	overview *console.OverviewController
	charts   *console.ChartRenderer
	browser  *console.TableBrowser
	resolver *console.ParentResolver
	prefs    console.PreferenceStore

	session   *queries.SessionQuery
	overviewQ *queries.OverviewQuery
	tableQ    *queries.TableQuery
	parentQ   *queries.ParentQuery

	usersPages    *queries.ListPageQuery[console.Parent]
	feedbackPages *queries.ListPageQuery[console.Feedback]
	logsPages     *queries.ListPageQuery[console.Log]
	revenuePages  *queries.ListPageQuery[console.Payment]

	refreshUsers    *commands.RefreshListCommand
	refreshFeedback *commands.RefreshListCommand
	refreshLogs     *commands.RefreshListCommand
	refreshRevenue  *commands.RefreshListCommand

	createParent   *commands.CreateRecordCommand
	updateParent   *commands.UpdateRecordCommand
	verifyParent   *commands.PatchRecordCommand
	deleteParent   *commands.DeleteRecordCommand
	createFeedback *commands.CreateRecordCommand
	updateFeedback *commands.UpdateRecordCommand
	deleteFeedback *commands.DeleteRecordCommand
	createLog      *commands.CreateRecordCommand
	updateLog      *commands.UpdateRecordCommand
	deleteLog      *commands.DeleteRecordCommand
	savePrefs      *commands.SavePreferencesCommand

	exportFeedback *commands.ExportRecordsCommand
	exportLogs     *commands.ExportRecordsCommand
	exportRevenue  *commands.ExportRecordsCommand

	renderer *renderer
}

// NewServer builds the console server and its controller graph.
func NewServer(opts Options) (*Server, error) {
	if opts.Client == nil {
		return nil, errors.New("web: server requires a client")
	}
	if opts.Preferences == nil {
		opts.Preferences = console.NewInMemoryPreferenceStore()
	}
	resolver := console.NewParentResolver(opts.Client, opts.ResolverLimit)
	listOpts := console.ListOptions{
		Resolver:  resolver,
		Telemetry: opts.Telemetry,
		PageSize:  opts.PageSize,
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		client:   opts.Client,
		users:    console.NewUsersController(opts.Client, listOpts),
		feedback: console.NewFeedbackController(opts.Client, listOpts),
		logs:     console.NewLogsController(opts.Client, listOpts),
		revenue:  console.NewRevenueController(opts.Client, listOpts),
		overview: console.NewOverviewController(opts.Client, opts.Telemetry),
		charts:   console.NewChartRenderer(),
		browser:  console.NewTableBrowser(opts.Client, opts.Tables),
		resolver: resolver,
		prefs:    opts.Preferences,
		session:  queries.NewSessionQuery(opts.Client),
		renderer: renderer,
	}
	if opts.ChartCacheTTL > 0 {
		s.charts = console.NewChartRenderer(
			console.WithChartCache(console.NewChartCache(opts.ChartCacheTTL)),
		)
	}

	s.overviewQ = queries.NewOverviewQuery(s.overview)
	s.tableQ = queries.NewTableQuery(s.browser)
	s.parentQ = queries.NewParentQuery(resolver)
	s.usersPages = queries.NewListPageQuery[console.Parent](s.users)
	s.feedbackPages = queries.NewListPageQuery[console.Feedback](s.feedback)
	s.logsPages = queries.NewListPageQuery[console.Log](s.logs)
	s.revenuePages = queries.NewListPageQuery[console.Payment](s.revenue)

	telemetry := commandTelemetry(opts.Telemetry)
	s.refreshUsers = commands.NewRefreshListCommand(s.users, telemetry)
	s.refreshFeedback = commands.NewRefreshListCommand(s.feedback, telemetry)
	s.refreshLogs = commands.NewRefreshListCommand(s.logs, telemetry)
	s.refreshRevenue = commands.NewRefreshListCommand(s.revenue, telemetry)
	s.createParent = commands.NewCreateRecordCommand(s.users, telemetry)
	s.updateParent = commands.NewUpdateRecordCommand(s.users, telemetry)
	s.verifyParent = commands.NewPatchRecordCommand(s.users, telemetry)
	s.deleteParent = commands.NewDeleteRecordCommand(s.users, telemetry)
	s.createFeedback = commands.NewCreateRecordCommand(s.feedback, telemetry)
	s.updateFeedback = commands.NewUpdateRecordCommand(s.feedback, telemetry)
	s.deleteFeedback = commands.NewDeleteRecordCommand(s.feedback, telemetry)
	s.createLog = commands.NewCreateRecordCommand(s.logs, telemetry)
	s.updateLog = commands.NewUpdateRecordCommand(s.logs, telemetry)
	s.deleteLog = commands.NewDeleteRecordCommand(s.logs, telemetry)
	s.savePrefs = commands.NewSavePreferencesCommand(opts.Preferences, telemetry)
	s.exportFeedback = commands.NewExportRecordsCommand(s.feedback, telemetry)
	s.exportLogs = commands.NewExportRecordsCommand(s.logs, telemetry)
	s.exportRevenue = commands.NewExportRecordsCommand(s.revenue, telemetry)
	return s, nil
}

// App assembles the fiber application: request ids, auth redirects, routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		return c.Next()
	})
	app.Use(authRedirect)

	s.routes(app)
	return app
}

// commandTelemetry adapts the console telemetry interface for the commands
// package, which declares its own copy.
func commandTelemetry(t console.Telemetry) commands.Telemetry {
	if t == nil {
		return nil
	}
	return t
}
