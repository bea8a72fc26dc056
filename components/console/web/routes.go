package web

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/app-aegis/aegis-admin/components/console"
	"github.com/app-aegis/aegis-admin/components/console/commands"
	"github.com/app-aegis/aegis-admin/components/console/queries"
)

func queryEscape(s string) string { return url.QueryEscape(s) }

func (s *Server) routes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusFound)
	})
	app.Get("/login", s.loginPage)
	app.Post("/login", s.loginSubmit)
	app.Post("/logout", s.logout)

	app.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard/overview", fiber.StatusFound)
	})
	app.Get("/dashboard/overview", s.overviewPage)
	app.Get("/dashboard/users", s.usersPage)
	app.Post("/dashboard/users", s.createUser)
	app.Post("/dashboard/users/:id/verify", s.verifyUser)
	app.Post("/dashboard/users/:id/update", s.updateUser)
	app.Post("/dashboard/users/:id/delete", s.deleteUser)
	app.Get("/dashboard/feedback", s.feedbackPage)
	app.Post("/dashboard/feedback", s.createFeedbackRow)
	app.Post("/dashboard/feedback/:id/update", s.updateFeedbackRow)
	app.Post("/dashboard/feedback/:id/delete", s.deleteFeedbackRow)
	app.Get("/dashboard/logs", s.logsPage)
	app.Post("/dashboard/logs", s.createLogRow)
	app.Post("/dashboard/logs/:id/update", s.updateLogRow)
	app.Post("/dashboard/logs/:id/delete", s.deleteLogRow)
	app.Get("/dashboard/revenue", s.revenuePage)
	app.Get("/dashboard/tables", s.tablesPage)
	app.Get("/dashboard/export/:file", s.exportCSV)
	app.Get("/dashboard/api/parents/:id", s.parentJSON)
	app.Post("/dashboard/refresh/:tab", s.refreshTab)
	app.Post("/dashboard/preferences", s.savePreferences)
}

type pageHead struct {
	Title string
	Tab   string
	Email string
}

func (s *Server) head(c *fiber.Ctx, title, tab string) pageHead {
	return pageHead{Title: title, Tab: tab, Email: c.Cookies(emailCookie)}
}

// viewerPrefs loads the signed-in admin's saved defaults. Requests without
// an identity cookie, and store failures, degrade to zero preferences, which
// every consumer treats as "no default".
func (s *Server) viewerPrefs(c *fiber.Ctx) console.Preferences {
	email := c.Cookies(emailCookie)
	if email == "" {
		return console.Preferences{}
	}
	prefs, err := s.prefs.Preferences(c.UserContext(), email)
	if err != nil {
		return console.Preferences{}
	}
	return prefs
}

func (s *Server) loginPage(c *fiber.Ctx) error {
	return s.renderer.render(c, "login", fiber.Map{"Email": "", "Error": ""})
}

func (s *Server) loginSubmit(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	session, err := s.session.Query(c.UserContext(), queries.LoginInput{Email: email, Password: password})
	if err != nil {
		msg := "Something went wrong, please try again"
		switch {
		case errors.Is(err, console.ErrInvalidCredentials):
			msg = "Invalid email or password"
		case errors.Is(err, console.ErrNotAdmin):
			msg = "This account does not have admin access"
		}
		c.Status(fiber.StatusUnauthorized)
		return s.renderer.render(c, "login", fiber.Map{"Email": email, "Error": msg})
	}
	setSessionCookies(c, session)
	return c.Redirect("/dashboard", fiber.StatusFound)
}

func setSessionCookies(c *fiber.Ctx, session console.Session) {
	expires := time.Now().Add(12 * time.Hour)
	c.Cookie(&fiber.Cookie{Name: sessionCookie, Value: session.Token, Expires: expires, HTTPOnly: true, Path: "/"})
	c.Cookie(&fiber.Cookie{Name: emailCookie, Value: session.Email, Expires: expires, Path: "/"})
}

func (s *Server) logout(c *fiber.Ctx) error {
	c.ClearCookie(sessionCookie, emailCookie)
	return c.Redirect("/login", fiber.StatusFound)
}

func (s *Server) overviewPage(c *fiber.Ctx) error {
	prefs := s.viewerPrefs(c)
	rangeParam := c.Query("range")
	if rangeParam == "" {
		rangeParam = string(prefs.OverviewRange)
	}
	if rangeParam == "" {
		rangeParam = string(console.RangeThisMonth)
	}
	snap, _ := s.overviewQ.Query(c.UserContext(), console.RangePreset(rangeParam))

	ratings, _ := s.charts.RatingDistribution(snap.Report)
	growth, _ := s.charts.UserGrowth(snap.Report)
	active, _ := s.charts.ActiveUsers(snap.Report)

	head := s.head(c, "Overview", "overview")
	return s.renderer.render(c, "overview", fiber.Map{
		"Title": head.Title, "Tab": head.Tab, "Email": head.Email,
		"Preset":       snap.Preset,
		"Presets":      console.RangePresets(),
		"Report":       snap.Report,
		"Error":        snap.Error,
		"RatingsChart": ratings,
		"GrowthChart":  growth,
		"ActiveChart":  active,
		"PageSizes":    console.PageSizes,
		"PrefSize":     prefs.PageSize,
		"PrefRange":    prefs.OverviewRange,
	})
}

// applyListParams folds the request's list controls into the controller:
// size first (an explicit pageSize parameter, or the viewer's saved default
// when the controller disagrees with it), sort next, then either an explicit
// filter submit or a page navigation. Every path ends in exactly one fetch.
func applyListParams[T any](c *fiber.Ctx, ctrl *console.ListController[T], pages *queries.ListPageQuery[T], defaultSize int, filterKeys ...string) error {
	size, sizeErr := strconv.Atoi(c.Query("pageSize"))
	if sizeErr != nil && defaultSize > 0 && defaultSize != ctrl.Snapshot().PageSize {
		size, sizeErr = defaultSize, nil
	}
	if sizeErr == nil {
		return ctrl.SetPageSize(c.UserContext(), size)
	}
	if sort := c.Query("sort"); sort != "" {
		ctrl.ChangeSort(sort)
	}
	if c.Query("apply") != "" || hasFilterParams(c, filterKeys) {
		ctrl.SetPendingSearch(c.Query("search"))
		for _, key := range filterKeys {
			ctrl.SetPendingFilter(key, c.Query(key))
		}
		return ctrl.ApplyFilters(c.UserContext())
	}
	page, _ := strconv.Atoi(c.Query("page"))
	_, err := pages.Query(c.UserContext(), queries.ListPageInput{Page: page})
	return err
}

func hasFilterParams(c *fiber.Ctx, filterKeys []string) bool {
	if len(c.Request().URI().QueryArgs().Peek("search")) > 0 {
		return true
	}
	for _, key := range filterKeys {
		if len(c.Request().URI().QueryArgs().Peek(key)) > 0 {
			return true
		}
	}
	return false
}

// paginationView augments a snapshot with the prev/next targets the
// templates link to.
type paginationView struct {
	Pagination []console.PageItem
	CanPrev    bool
	CanNext    bool
	PrevPage   int
	NextPage   int
	PageSize   int
	PageSizes  []int
}

func paginate[T any](snap console.ListSnapshot[T]) paginationView {
	return paginationView{
		Pagination: snap.Pagination,
		CanPrev:    snap.CanPrev,
		CanNext:    snap.CanNext,
		PrevPage:   snap.Page - 1,
		NextPage:   snap.Page + 1,
		PageSize:   snap.PageSize,
		PageSizes:  console.PageSizes,
	}
}

func (s *Server) usersPage(c *fiber.Ctx) error {
	_ = applyListParams(c, s.users, s.usersPages, s.viewerPrefs(c).PageSize)
	snap := s.users.Snapshot()
	head := s.head(c, "Users", "users")
	pg := paginate(snap)
	return s.renderer.render(c, "users", fiber.Map{
		"Title": head.Title, "Tab": head.Tab, "Email": head.Email,
		"Items":       snap.Items,
		"Error":       snap.Error,
		"FormError":   c.Query("formError"),
		"DeleteError": snap.DeleteError,
		"Pagination":  pg.Pagination,
		"CanPrev":     pg.CanPrev, "CanNext": pg.CanNext,
		"PrevPage": pg.PrevPage, "NextPage": pg.NextPage,
		"PageSize": pg.PageSize, "PageSizes": pg.PageSizes,
	})
}

func (s *Server) createUser(c *fiber.Ctx) error {
	form := console.ParentCreateForm{
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
	}
	input := commands.CreateRecordInput{Collection: console.CollectionParents, Form: form}
	if err := s.createParent.Execute(c.UserContext(), input); err != nil {
		return c.Redirect("/dashboard/users?formError="+queryEscape(err.Error()), fiber.StatusFound)
	}
	return c.Redirect("/dashboard/users", fiber.StatusFound)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	form := console.ParentUpdateForm{
		FirstName:  c.FormValue("firstName"),
		LastName:   c.FormValue("lastName"),
		Email:      c.FormValue("email"),
		Password:   c.FormValue("password"),
		IsVerified: c.FormValue("isVerified") == "true",
	}
	input := commands.UpdateRecordInput{Collection: console.CollectionParents, ID: c.Params("id"), Form: form}
	if err := s.updateParent.Execute(c.UserContext(), input); err != nil {
		return c.Redirect("/dashboard/users?formError="+queryEscape(err.Error()), fiber.StatusFound)
	}
	return c.Redirect("/dashboard/users", fiber.StatusFound)
}

func (s *Server) verifyUser(c *fiber.Ctx) error {
	input := commands.PatchRecordInput{
		Collection: console.CollectionParents,
		ID:         c.Params("id"),
		Fields:     map[string]any{"isVerified": c.FormValue("isVerified") == "true"},
	}
	_ = s.verifyParent.Execute(c.UserContext(), input)
	return c.Redirect("/dashboard/users", fiber.StatusFound)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	input := commands.DeleteRecordInput{Collection: console.CollectionParents, ID: c.Params("id")}
	_ = s.deleteParent.Execute(c.UserContext(), input)
	return c.Redirect("/dashboard/users", fiber.StatusFound)
}

// resolvedRow pairs a row with its parent columns for rendering.
type resolvedRow[T any] struct {
	Item        T
	ParentName  string
	ParentEmail string
}

func resolveRows[T any](items []T, parentID func(T) string, lookup console.ParentLookup) []resolvedRow[T] {
	rows := make([]resolvedRow[T], 0, len(items))
	for _, item := range items {
		row := resolvedRow[T]{Item: item}
		if parent, ok := lookup.Peek(parentID(item)); ok {
			row.ParentName = parent.FullName()
			row.ParentEmail = parent.Email
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) feedbackPage(c *fiber.Ctx) error {
	_ = applyListParams(c, s.feedback, s.feedbackPages, s.viewerPrefs(c).PageSize, "rating")
	snap := s.feedback.Snapshot()
	head := s.head(c, "Feedback", "feedback")
	pg := paginate(snap)
	return s.renderer.render(c, "feedback", fiber.Map{
		"Title": head.Title, "Tab": head.Tab, "Email": head.Email,
		"Rows":        resolveRows(snap.Items, func(f console.Feedback) string { return f.ParentID }, s.resolver),
		"Error":       snap.Error,
		"DeleteError": snap.DeleteError,
		"Search":      snap.Filters.Search,
		"Rating":      snap.Filters.Fields["rating"],
		"Ratings":     []int{5, 4, 3, 2, 1},
		"Pagination":  pg.Pagination,
		"CanPrev":     pg.CanPrev, "CanNext": pg.CanNext,
		"PrevPage": pg.PrevPage, "NextPage": pg.NextPage,
		"PageSize": pg.PageSize, "PageSizes": pg.PageSizes,
	})
}

func (s *Server) createFeedbackRow(c *fiber.Ctx) error {
	rating, _ := strconv.Atoi(c.FormValue("rating"))
	form := console.FeedbackForm{
		ParentID: c.FormValue("parentId"),
		Rating:   rating,
		Comment:  c.FormValue("comment"),
	}
	input := commands.CreateRecordInput{Collection: console.CollectionFeedbacks, Form: form}
	if err := s.createFeedback.Execute(c.UserContext(), input); err != nil {
		return c.Redirect("/dashboard/feedback?formError="+queryEscape(err.Error()), fiber.StatusFound)
	}
	return c.Redirect("/dashboard/feedback", fiber.StatusFound)
}

func (s *Server) updateFeedbackRow(c *fiber.Ctx) error {
	rating, _ := strconv.Atoi(c.FormValue("rating"))
	form := console.FeedbackForm{
		ParentID: c.FormValue("parentId"),
		Rating:   rating,
		Comment:  c.FormValue("comment"),
	}
	input := commands.UpdateRecordInput{Collection: console.CollectionFeedbacks, ID: c.Params("id"), Form: form}
	if err := s.updateFeedback.Execute(c.UserContext(), input); err != nil {
		return c.Redirect("/dashboard/feedback?formError="+queryEscape(err.Error()), fiber.StatusFound)
	}
	return c.Redirect("/dashboard/feedback", fiber.StatusFound)
}

func (s *Server) deleteFeedbackRow(c *fiber.Ctx) error {
	input := commands.DeleteRecordInput{Collection: console.CollectionFeedbacks, ID: c.Params("id")}
	_ = s.deleteFeedback.Execute(c.UserContext(), input)
	return c.Redirect("/dashboard/feedback", fiber.StatusFound)
}

func (s *Server) logsPage(c *fiber.Ctx) error {
	_ = applyListParams(c, s.logs, s.logsPages, s.viewerPrefs(c).PageSize, "eventType")
	snap := s.logs.Snapshot()
	head := s.head(c, "Logs", "logs")
	pg := paginate(snap)
	return s.renderer.render(c, "logs", fiber.Map{
		"Title": head.Title, "Tab": head.Tab, "Email": head.Email,
		"Rows":        resolveRows(snap.Items, func(l console.Log) string { return l.ParentID }, s.resolver),
		"Error":       snap.Error,
		"DeleteError": snap.DeleteError,
		"Search":      snap.Filters.Search,
		"EventType":   snap.Filters.Fields["eventType"],
		"EventTypes":  console.EventTypes(),
		"Pagination":  pg.Pagination,
		"CanPrev":     pg.CanPrev, "CanNext": pg.CanNext,
		"PrevPage": pg.PrevPage, "NextPage": pg.NextPage,
		"PageSize": pg.PageSize, "PageSizes": pg.PageSizes,
	})
}

func (s *Server) createLogRow(c *fiber.Ctx) error {
	form := console.LogForm{
		ParentID:    c.FormValue("parentId"),
		EventType:   console.EventType(c.FormValue("eventType")),
		Description: c.FormValue("description"),
	}
	input := commands.CreateRecordInput{Collection: console.CollectionLogs, Form: form}
	if err := s.createLog.Execute(c.UserContext(), input); err != nil {
		return c.Redirect("/dashboard/logs?formError="+queryEscape(err.Error()), fiber.StatusFound)
	}
	return c.Redirect("/dashboard/logs", fiber.StatusFound)
}

func (s *Server) updateLogRow(c *fiber.Ctx) error {
	form := console.LogForm{
		ParentID:    c.FormValue("parentId"),
		EventType:   console.EventType(c.FormValue("eventType")),
		Description: c.FormValue("description"),
	}
	input := commands.UpdateRecordInput{Collection: console.CollectionLogs, ID: c.Params("id"), Form: form}
	if err := s.updateLog.Execute(c.UserContext(), input); err != nil {
		return c.Redirect("/dashboard/logs?formError="+queryEscape(err.Error()), fiber.StatusFound)
	}
	return c.Redirect("/dashboard/logs", fiber.StatusFound)
}

func (s *Server) deleteLogRow(c *fiber.Ctx) error {
	input := commands.DeleteRecordInput{Collection: console.CollectionLogs, ID: c.Params("id")}
	_ = s.deleteLog.Execute(c.UserContext(), input)
	return c.Redirect("/dashboard/logs", fiber.StatusFound)
}

func (s *Server) revenuePage(c *fiber.Ctx) error {
	_ = applyListParams(c, s.revenue, s.revenuePages, s.viewerPrefs(c).PageSize, "planId", "status")
	snap := s.revenue.Snapshot()
	plans, _ := console.LoadPlanOptions(c.UserContext(), s.client)
	head := s.head(c, "Revenue", "revenue")
	pg := paginate(snap)
	return s.renderer.render(c, "revenue", fiber.Map{
		"Title": head.Title, "Tab": head.Tab, "Email": head.Email,
		"Items":      snap.Items,
		"Error":      snap.Error,
		"Search":     snap.Filters.Search,
		"PlanID":     snap.Filters.Fields["planId"],
		"Status":     snap.Filters.Fields["status"],
		"Plans":      plans,
		"Statuses":   console.PaymentStatuses(),
		"Pagination": pg.Pagination,
		"CanPrev":    pg.CanPrev, "CanNext": pg.CanNext,
		"PrevPage": pg.PrevPage, "NextPage": pg.NextPage,
		"PageSize": pg.PageSize, "PageSizes": pg.PageSizes,
	})
}

func (s *Server) tablesPage(c *fiber.Ctx) error {
	name := c.Query("name")
	view := console.TableView{}
	errMsg := ""
	if name != "" {
		var err error
		view, err = s.tableQ.Query(c.UserContext(), name)
		if err != nil {
			errMsg = "failed to load table"
		}
	}
	head := s.head(c, "Tables", "tables")
	return s.renderer.render(c, "tables", fiber.Map{
		"Title": head.Title, "Tab": head.Tab, "Email": head.Email,
		"Tables":   s.browser.Tables(),
		"Selected": name,
		"View":     view,
		"Error":    errMsg,
	})
}

// exportCSV maps fixed download names onto the export commands.
func (s *Server) exportCSV(c *fiber.Ctx) error {
	file := c.Params("file")
	var cmd *commands.ExportRecordsCommand
	var collection string
	switch file {
	case "feedbacks.csv":
		cmd, collection = s.exportFeedback, console.CollectionFeedbacks
	case "logs.csv":
		cmd, collection = s.exportLogs, console.CollectionLogs
	case "payments.csv":
		cmd, collection = s.exportRevenue, console.CollectionPayments
	default:
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file+`"`)
	input := commands.ExportRecordsInput{Collection: collection, Out: c.Response().BodyWriter()}
	if err := cmd.Execute(c.UserContext(), input); err != nil {
		return c.SendStatus(fiber.StatusBadGateway)
	}
	return nil
}

// parentJSON resolves a parent id through the shared cache, for row detail
// lookups from the rendered pages.
func (s *Server) parentJSON(c *fiber.Ctx) error {
	parent, err := s.parentQ.Query(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "parent not found"})
	}
	return c.JSON(parent)
}

// refreshTab refetches a tab's current page, backing the retry button shown
// next to a failed load.
func (s *Server) refreshTab(c *fiber.Ctx) error {
	tab := c.Params("tab")
	var cmd *commands.RefreshListCommand
	var collection string
	switch tab {
	case "users":
		cmd, collection = s.refreshUsers, console.CollectionParents
	case "feedback":
		cmd, collection = s.refreshFeedback, console.CollectionFeedbacks
	case "logs":
		cmd, collection = s.refreshLogs, console.CollectionLogs
	case "revenue":
		cmd, collection = s.refreshRevenue, console.CollectionPayments
	default:
		return c.SendStatus(fiber.StatusNotFound)
	}
	_ = cmd.Execute(c.UserContext(), commands.RefreshListInput{Collection: collection})
	return c.Redirect("/dashboard/"+tab, fiber.StatusFound)
}

func (s *Server) savePreferences(c *fiber.Ctx) error {
	pageSize, _ := strconv.Atoi(c.FormValue("pageSize"))
	input := commands.SavePreferencesInput{
		Email: c.Cookies(emailCookie),
		Preferences: console.Preferences{
			PageSize:      pageSize,
			OverviewRange: console.RangePreset(c.FormValue("range")),
		},
	}
	if err := s.savePrefs.Execute(c.UserContext(), input); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return c.Redirect("/dashboard/overview", fiber.StatusFound)
}
