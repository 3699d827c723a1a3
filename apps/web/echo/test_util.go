package echoweb

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/flightcheck/backend/core"
	"github.com/flightcheck/backend/core/checklist"
	"github.com/flightcheck/backend/core/user"
	idsvc "github.com/flightcheck/backend/services/identity"
	inmemdb "github.com/flightcheck/backend/storage/database/inmem"
)

var testSecret = "secret"

type testApp struct {
	server *Server
	db     *inmemdb.DB
	idp    *idsvc.InmemService
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithProfiles(t, nil)
}

// newTestAppWithProfiles swaps in an alternate profile repository, for
// exercising storage failure paths.
func newTestAppWithProfiles(t *testing.T, profiles user.Repository) *testApp {
	t.Helper()

	conf := &core.Config{
		TestMode:  true,
		AppName:   "Flightcheck",
		BaseURL:   "https://fc.example.com",
		SecretKey: testSecret,
	}

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("newTestApp() failed: %v", err)
	}
	idp := idsvc.NewInmemService(testSecret)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	if profiles == nil {
		profiles = inmemdb.NewProfileRepository(db)
	}
	usrSvc := user.NewService(profiles, idp, conf)
	listSvc := checklist.NewService(inmemdb.NewChecklistRepository(db))

	server := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       testLogger{},
		UserSvc:      usrSvc,
		ChecklistSvc: listSvc,
		Validate:     validate,
		Translator:   translator,
	})
	return &testApp{server: server, db: db, idp: idp}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

// getToken mints a session token the way the identity provider would.
func getToken(t *testing.T, userID, email string) string {
	t.Helper()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newRequest(method, path, token string, form ...url.Values) (*http.Request, *httptest.ResponseRecorder) {
	var body string
	if len(form) > 0 {
		body = form[0].Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

// seed helpers

func seedProfile(app *testApp, id, role, name string) user.Profile {
	prof := user.Profile{UserID: id, Role: role, Name: null.StringFrom(name)}
	app.db.AddProfile(prof)
	return prof
}

func seedBoard(app *testApp) (stepID, catID, itemID string) {
	stepID, catID, itemID = "st1", "cat1", "it1"
	app.db.AddStep(checklist.Step{ID: stepID, Name: "Pre-solo", SortOrder: null.IntFrom(1)})
	app.db.AddCategory(checklist.Category{ID: catID, StepID: stepID, Name: "Ground handling", SortOrder: null.IntFrom(1)})
	app.db.AddItem(checklist.CheckItem{
		ID:         itemID,
		CategoryID: catID,
		Title:      "Forward launch",
		SortOrder:  null.IntFrom(1),
		VideoURL:   null.StringFrom("https://youtu.be/abc123"),
	})
	return
}
