package echoweb

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flightcheck/backend/core/user"
)

// safeNextPath accepts a redirect target only if it is a same-origin
// absolute path. Anything else falls back to "".
func safeNextPath(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return ""
}

// homePath is where a role lands by default.
func homePath(role string) string {
	if user.CanInstruct(role) {
		return "/instructor"
	}
	return "/dashboard"
}

func redirectToLogin(ctx echo.Context) error {
	req := ctx.Request()
	next := req.URL.Path
	if req.URL.RawQuery != "" {
		next += "?" + req.URL.RawQuery
	}

	target := "/login"
	if next = safeNextPath(next); next != "" && next != "/" {
		target += "?next=" + url.QueryEscape(next)
	}
	return ctx.Redirect(http.StatusSeeOther, target)
}

// requireRoles gates a route to the given role set. Wrong-role access
// redirects silently to the caller's own home page.
func requireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			prof, ok := getContextProfile(ctx)
			if !ok {
				return redirectToLogin(ctx)
			}
			if !allowed[prof.Role] {
				return ctx.Redirect(http.StatusSeeOther, homePath(prof.Role))
			}
			return next(ctx)
		}
	}
}
