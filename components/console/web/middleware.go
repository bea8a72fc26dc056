package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// requestToken reads the session credential from the cookie or, for API
// style callers, the Authorization header.
func requestToken(c *fiber.Ctx) string {
	if token := c.Cookies(sessionCookie); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// authRedirect gates the dashboard behind a session token and keeps
// authenticated admins out of the login page. Both redirects mirror each
// other: no token on /dashboard sends you to /login, a token on /login sends
// you to /dashboard. The token also travels down the request context so the
// backend client authorizes every call with the admin's own credential.
func authRedirect(c *fiber.Ctx) error {
	path := c.Path()
	token := requestToken(c)
	if token != "" {
		c.SetUserContext(restapi.WithSessionToken(c.UserContext(), token))
	}
	if strings.HasPrefix(path, "/dashboard") && token == "" {
		return c.Redirect("/login", fiber.StatusFound)
	}
	if path == "/login" && c.Method() == fiber.MethodGet && token != "" {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.Next()
}
