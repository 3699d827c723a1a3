package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core/user"
)

type authPages struct {
	deps ServerDeps
}

func registerAuthPages(app *echo.Echo, session echo.MiddlewareFunc, deps ServerDeps) {
	pages := authPages{deps: deps}

	app.GET("/login", pages.loginPage)
	app.POST("/login", pages.login)
	app.GET("/signup", pages.signupPage)
	app.POST("/signup", pages.signup)
	app.POST("/logout", pages.logout, session)
	app.GET("/qr", pages.qrRedirect, session)
}

func (p *authPages) renderLogin(ctx echo.Context, code int, form loginForm, errs map[string]string) error {
	return ctx.Render(code, "login", echo.Map{
		"Title":      "Sign in",
		"Form":       form,
		"Errors":     errs,
		"Registered": ctx.QueryParam("registered") != "",
	})
}

func (p *authPages) loginPage(ctx echo.Context) error {
	return p.renderLogin(ctx, http.StatusOK, loginForm{Next: safeNextPath(ctx.QueryParam("next"))}, nil)
}

func (p *authPages) login(ctx echo.Context) error {
	var form loginForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to loginForm")
	}
	if err := form.Validate(p.deps.Validate); err != nil {
		return p.renderLogin(ctx, http.StatusBadRequest, form, fieldErrors(err, p.deps.Translator))
	}

	sess, prof, err := p.deps.UserSvc.Login(ctx.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errs := fieldErrors(err, p.deps.Translator); errs != nil {
			return p.renderLogin(ctx, http.StatusBadRequest, form, errs)
		}
		return errors.Wrap(err, "logging in")
	}
	setSessionCookie(ctx, sess)

	// instructors may be sent back where they came from; students always land home
	target := homePath(prof.Role)
	if next := safeNextPath(form.Next); next != "" && user.CanInstruct(prof.Role) {
		target = next
	}
	return ctx.Redirect(http.StatusSeeOther, target)
}

func (p *authPages) renderSignup(ctx echo.Context, code int, form signupForm, errs map[string]string) error {
	return ctx.Render(code, "signup", echo.Map{
		"Title":  "Sign up",
		"Form":   form,
		"Errors": errs,
	})
}

func (p *authPages) signupPage(ctx echo.Context) error {
	return p.renderSignup(ctx, http.StatusOK, signupForm{Next: safeNextPath(ctx.QueryParam("next"))}, nil)
}

func (p *authPages) signup(ctx echo.Context) error {
	var form signupForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to signupForm")
	}
	if err := form.Validate(p.deps.Validate); err != nil {
		return p.renderSignup(ctx, http.StatusBadRequest, form, fieldErrors(err, p.deps.Translator))
	}

	err := p.deps.UserSvc.Register(ctx.Request().Context(), user.NewSignup{
		Email:      form.Email,
		Password:   form.Password,
		Name:       form.Name,
		InviteCode: form.InviteCode,
	})
	if err != nil {
		if errs := fieldErrors(err, p.deps.Translator); errs != nil {
			return p.renderSignup(ctx, http.StatusBadRequest, form, errs)
		}
		return errors.Wrap(err, "signing up")
	}

	// the provider emails a confirmation link; sign-in happens after that
	target := "/login?registered=1"
	if next := safeNextPath(form.Next); next != "" {
		target += "&next=" + url.QueryEscape(next)
	}
	return ctx.Redirect(http.StatusSeeOther, target)
}

func (p *authPages) logout(ctx echo.Context) error {
	if token := getContextToken(ctx); token != "" {
		// revocation failure only shortens the provider-side session
		if err := p.deps.UserSvc.Logout(ctx.Request().Context(), token); err != nil {
			p.deps.Logger.Warn("signing out", err)
		}
	}
	clearSessionCookie(ctx)
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

// qrRedirect routes a scanned QR landing to the right page for the caller.
func (p *authPages) qrRedirect(ctx echo.Context) error {
	prof, _ := getContextProfile(ctx)
	if !user.CanInstruct(prof.Role) {
		return ctx.Redirect(http.StatusSeeOther, "/dashboard")
	}
	studentID := ctx.QueryParam("student")
	if studentID == "" {
		return ctx.Redirect(http.StatusSeeOther, "/login")
	}
	return ctx.Redirect(http.StatusSeeOther, "/instructor/student/"+url.PathEscape(studentID))
}
