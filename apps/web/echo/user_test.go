package echoweb

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcheck/backend/core/user"
)

func TestGatedPagesRedirectAnonymousToLogin(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		path     string
		wantNext string
	}{
		{"/dashboard", "/dashboard"},
		{"/instructor", "/instructor"},
		{"/instructor/search?q=amy", "/instructor/search?q=amy"},
		{"/instructor/student/u1", "/instructor/student/u1"},
		{"/admin/qr", "/admin/qr"},
		{"/qr?student=u1", "/qr?student=u1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path, "")
			app.server.ServeHTTP(rec, req)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login?next="+url.QueryEscape(tt.wantNext), rec.Header().Get("Location"))
		})
	}
}

func TestWrongRoleRedirectsHomeSilently(t *testing.T) {
	app := newTestApp(t)
	seedProfile(app, "stu1", user.RoleStudent, "Amy")
	seedProfile(app, "ins1", user.RoleInstructor, "Bob")

	stuToken := getToken(t, "stu1", "amy@example.com")
	insToken := getToken(t, "ins1", "bob@example.com")

	tests := []struct {
		name  string
		path  string
		token string
		want  string
	}{
		{"student on instructor page", "/instructor", stuToken, "/dashboard"},
		{"student on student detail", "/instructor/student/u1", stuToken, "/dashboard"},
		{"instructor on dashboard", "/dashboard", insToken, "/instructor"},
		{"instructor on admin page", "/admin/qr", insToken, "/instructor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	acct := app.idp.Seed("amy@example.com", "s3cret", "Amy Tan")
	seedProfile(app, acct.ID, user.RoleStudent, "")

	form := url.Values{"email": {"amy@example.com"}, "password": {"s3cret"}}
	req, rec := newRequest(http.MethodPost, "/login", "", form)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	var session string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c.Value
		}
	}
	require.NotEmpty(t, session)

	// signing in synced the display name from account metadata
	prof, err := app.server.deps.UserSvc.GetProfile(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amy Tan", prof.Name.String)

	// the cookie is a working session
	req, rec = newRequest(http.MethodGet, "/dashboard", session)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Amy Tan")
}

func TestLoginBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.idp.Seed("amy@example.com", "s3cret", "Amy")

	form := url.Values{"email": {"amy@example.com"}, "password": {"wrong"}}
	req, rec := newRequest(http.MethodPost, "/login", "", form)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestLoginNextOnlyForInstructors(t *testing.T) {
	app := newTestApp(t)

	stu := app.idp.Seed("amy@example.com", "s3cret", "Amy")
	seedProfile(app, stu.ID, user.RoleStudent, "Amy")
	ins := app.idp.Seed("bob@example.com", "s3cret", "Bob")
	seedProfile(app, ins.ID, user.RoleInstructor, "Bob")

	tests := []struct {
		name  string
		email string
		next  string
		want  string
	}{
		{"instructor follows next", "bob@example.com", "/instructor/student/u1", "/instructor/student/u1"},
		{"instructor ignores offsite next", "bob@example.com", "//evil.example", "/instructor"},
		{"instructor ignores non-path next", "bob@example.com", "https://evil.example", "/instructor"},
		{"student always lands home", "amy@example.com", "/instructor/student/u1", "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"email": {tt.email}, "password": {"s3cret"}, "next": {tt.next}}
			req, rec := newRequest(http.MethodPost, "/login", "", form)
			app.server.ServeHTTP(rec, req)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestSignup(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"name":        {"Amy Tan"},
		"email":       {"amy@example.com"},
		"password":    {"s3cret"},
		"invite_code": {"FLY-2024"},
	}
	req, rec := newRequest(http.MethodPost, "/signup", "", form)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?registered=1", rec.Header().Get("Location"))

	// the account exists at the provider now
	_, err := app.idp.SignIn(context.Background(), "amy@example.com", "s3cret")
	require.NoError(t, err)
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"name":        {"Amy"},
		"email":       {"not-an-email"},
		"password":    {"123"},
		"invite_code": {""},
	}
	req, rec := newRequest(http.MethodPost, "/signup", "", form)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "email")
	assert.Contains(t, body, "password")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	acct := app.idp.Seed("amy@example.com", "s3cret", "Amy")
	seedProfile(app, acct.ID, user.RoleStudent, "Amy")

	sess, err := app.idp.SignIn(context.Background(), "amy@example.com", "s3cret")
	require.NoError(t, err)

	req, rec := newRequest(http.MethodPost, "/logout", sess.AccessToken)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// cookie cleared and provider session revoked
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
	_, err = app.idp.GetUser(context.Background(), sess.AccessToken)
	assert.Error(t, err)
}

func TestQRRedirect(t *testing.T) {
	app := newTestApp(t)
	seedProfile(app, "stu1", user.RoleStudent, "Amy")
	seedProfile(app, "ins1", user.RoleInstructor, "Bob")

	tests := []struct {
		name  string
		path  string
		token string
		want  string
	}{
		{"instructor to student page", "/qr?student=u1", getToken(t, "ins1", ""), "/instructor/student/u1"},
		{"instructor without id", "/qr", getToken(t, "ins1", ""), "/login"},
		{"student to own dashboard", "/qr?student=u1", getToken(t, "stu1", ""), "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

type downProfileRepo struct{}

func (downProfileRepo) GetProfile(context.Context, string) (user.Profile, error) {
	return user.Profile{}, errors.New("connection refused")
}
func (downProfileRepo) GetProfiles(context.Context, []string) ([]user.Profile, error) {
	return nil, errors.New("connection refused")
}
func (downProfileRepo) SetProfileName(context.Context, string, string) error {
	return errors.New("connection refused")
}
func (downProfileRepo) SetProfileRole(context.Context, string, string) error {
	return errors.New("connection refused")
}
func (downProfileRepo) SearchStudents(context.Context, string, int) ([]user.Profile, error) {
	return nil, errors.New("connection refused")
}

func TestUnresolvableProfileRedirectsToLogin(t *testing.T) {
	app := newTestAppWithProfiles(t, downProfileRepo{})

	req, rec := newRequest(http.MethodGet, "/dashboard", getToken(t, "stu1", "amy@example.com"))
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/dashboard"), rec.Header().Get("Location"))

	// the session cookie is dropped along with the redirect
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestExpiredSessionRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	req, rec := newRequest(http.MethodGet, "/dashboard", "not-a-jwt")
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login"))
}
