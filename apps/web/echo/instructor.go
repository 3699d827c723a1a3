package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core/qr"
	"github.com/flightcheck/backend/core/user"
)

type instructorPages struct {
	deps ServerDeps
}

func registerInstructorPages(app *echo.Echo, session echo.MiddlewareFunc, deps ServerDeps) {
	pages := instructorPages{deps: deps}

	g := app.Group("/instructor", session, requireRoles(user.RoleInstructor, user.RoleAdmin))
	g.GET("", pages.home)
	g.GET("/search", pages.search)
	g.GET("/scan", pages.scanPage)
	g.POST("/scan", pages.scan)
	g.GET("/student/:id", pages.student)
	g.POST("/student/:id/toggle", pages.toggle)
}

func (p *instructorPages) home(ctx echo.Context) error {
	prof, _ := getContextProfile(ctx)
	claims, _ := getContextClaims(ctx)
	return ctx.Render(http.StatusOK, "instructor", echo.Map{
		"Title":   "Instructor",
		"Profile": prof,
		"Email":   claims.Email,
	})
}

func (p *instructorPages) search(ctx echo.Context) error {
	keyword := ctx.QueryParam("q")

	students, err := p.deps.UserSvc.SearchStudents(ctx.Request().Context(), keyword)
	if err != nil {
		return errors.Wrap(err, "searching students")
	}
	return ctx.Render(http.StatusOK, "search", echo.Map{
		"Title":    "Find a student",
		"Keyword":  keyword,
		"Students": students,
		"Searched": keyword != "",
	})
}

func (p *instructorPages) scanPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "scan", echo.Map{"Title": "Scan a QR code"})
}

func (p *instructorPages) scan(ctx echo.Context) error {
	var form scanForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to scanForm")
	}

	studentID := qr.ExtractStudentID(form.Payload)
	if studentID == "" {
		return ctx.Render(http.StatusBadRequest, "scan", echo.Map{
			"Title": "Scan a QR code",
			"Hint":  "That does not look like a student code. Try again or paste the link.",
		})
	}
	return ctx.Redirect(http.StatusSeeOther, "/instructor/student/"+url.PathEscape(studentID))
}

func (p *instructorPages) renderStudent(ctx echo.Context, code int, studentID string, toggleErr string) error {
	reqCtx := ctx.Request().Context()

	prof, err := p.deps.UserSvc.GetProfile(reqCtx, studentID)
	if err != nil {
		return errors.Wrap(err, "loading student profile")
	}
	board, embeds, err := boardData(ctx, p.deps, studentID)
	if err != nil {
		return err
	}
	return ctx.Render(code, "student", echo.Map{
		"Title":     prof.DisplayName(),
		"StudentID": studentID,
		"Student":   prof,
		"Board":     board,
		"Embeds":    embeds,
		"ToggleErr": toggleErr,
	})
}

func (p *instructorPages) student(ctx echo.Context) error {
	studentID, err := url.PathUnescape(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return p.renderStudent(ctx, http.StatusOK, studentID, "")
}

func (p *instructorPages) toggle(ctx echo.Context) error {
	studentID, err := url.PathUnescape(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var form toggleForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to toggleForm")
	}
	if err := form.Validate(p.deps.Validate); err != nil {
		return errors.Wrap(err, "validating toggleForm")
	}

	actor, _ := getContextProfile(ctx)
	_, err = p.deps.ChecklistSvc.Toggle(ctx.Request().Context(), actor.UserID, studentID, form.ItemID, form.Cleared)
	if err != nil {
		// the board below still shows the pre-toggle state
		return p.renderStudent(ctx, http.StatusOK, studentID,
			"Could not save that change. The item was left as it was.")
	}
	return ctx.Redirect(http.StatusSeeOther, "/instructor/student/"+url.PathEscape(studentID))
}
