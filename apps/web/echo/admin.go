package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core/qr"
	"github.com/flightcheck/backend/core/user"
)

type adminPages struct {
	deps ServerDeps
}

func registerAdminPages(app *echo.Echo, session echo.MiddlewareFunc, deps ServerDeps) {
	pages := adminPages{deps: deps}

	g := app.Group("/admin", session, requireRoles(user.RoleAdmin))
	g.GET("/qr", pages.qrPage)
	g.GET("/qr/image", pages.qrImage)
}

// qrPage renders printable QR codes for handing out to students.
func (p *adminPages) qrPage(ctx echo.Context) error {
	studentID := ctx.QueryParam("student")

	data := echo.Map{
		"Title":     "Student QR codes",
		"StudentID": studentID,
	}
	if studentID != "" {
		prof, err := p.deps.UserSvc.GetProfile(ctx.Request().Context(), studentID)
		if err != nil {
			return errors.Wrap(err, "loading student profile")
		}
		data["Student"] = prof
		data["Payload"] = qr.StudentURL(p.deps.Conf.BaseURL, studentID)
	}
	return ctx.Render(http.StatusOK, "admin_qr", data)
}

func (p *adminPages) qrImage(ctx echo.Context) error {
	studentID := ctx.QueryParam("student")
	if studentID == "" {
		return errHttpNotFound
	}

	png, err := qr.PNG(qr.StudentURL(p.deps.Conf.BaseURL, studentID), 256)
	if err != nil {
		return errors.Wrap(err, "rendering QR image")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
