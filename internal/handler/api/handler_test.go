package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/baas-sample/internal/adapter"
	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/service"
	"github.com/MKhiriev/baas-sample/internal/store"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []adapter.Message
}

func (m *recordingMailer) SendMail(_ context.Context, msg adapter.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// ─────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────

type fixture struct {
	router    http.Handler
	publisher *recordingPublisher
	mailer    *recordingMailer
}

func testAPIConfig() config.API {
	return config.API{
		App: config.App{
			AppID:           "demo",
			MasterKey:       "master",
			AppName:         "Demo",
			ServerURL:       "http://localhost:1337/parse",
			PublicServerURL: "http://localhost:1337/parse",
		},
		LiveQuery: config.LiveQuery{ClassNames: []string{"Posts"}},
		Email: config.Email{
			VerifyUserEmails:                 true,
			EmailVerifyTokenValidityDuration: time.Hour,
			PreventLoginWithUnverifiedEmail:  true,
		},
		AccountLockout: config.AccountLockout{Duration: 5, Threshold: 3},
		PasswordPolicy: config.PasswordPolicy{
			ValidatorPattern:   `^(?=.*[a-z])(?=.*[A-Z])(?=.*[0-9])(?=.{8,})`,
			DoNotAllowUsername: true,
		},
	}
}

func newFixture(t *testing.T, mutate func(*config.API)) *fixture {
	t.Helper()

	cfg := testAPIConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	objects := store.NewMemoryObjectRepository()
	storages := &store.Storages{
		Objects: objects,
		Users:   store.NewUserRepository(objects),
		Lockout: store.NewMemoryLockoutStore(),
	}

	f := &fixture{publisher: &recordingPublisher{}, mailer: &recordingMailer{}}
	services, err := service.NewServices(storages, cfg, f.publisher, f.mailer, models.NewAppBuildInfo("1.0.0", "", ""), logger.Nop())
	require.NoError(t, err)

	f.router = NewHandler(services, cfg.App, logger.Nop()).Init()
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func clientHeaders() map[string]string {
	return map[string]string{headerApplicationID: "demo"}
}

func masterHeaders() map[string]string {
	return map[string]string{headerApplicationID: "demo", headerMasterKey: "master"}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, code, body["code"])
	assert.NotEmpty(t, body["error"])
}

// ─────────────────────────────────────────────
// Health and keys
// ─────────────────────────────────────────────

func TestHealth_NoKeysRequired(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.API)
		headers  map[string]string
		expected int
	}{
		{name: "missing application id", headers: nil, expected: http.StatusForbidden},
		{name: "wrong application id", headers: map[string]string{headerApplicationID: "other"}, expected: http.StatusForbidden},
		{name: "application id only", headers: clientHeaders(), expected: http.StatusNotFound},
		{
			name:     "client key required but missing",
			mutate:   func(c *config.API) { c.App.ClientKey = "client" },
			headers:  clientHeaders(),
			expected: http.StatusForbidden,
		},
		{
			name:     "client key matches",
			mutate:   func(c *config.API) { c.App.ClientKey = "client" },
			headers:  map[string]string{headerApplicationID: "demo", headerClientKey: "client"},
			expected: http.StatusNotFound,
		},
		{
			name:     "rest key matches",
			mutate:   func(c *config.API) { c.App.ClientKey, c.App.RESTAPIKey = "client", "rest" },
			headers:  map[string]string{headerApplicationID: "demo", headerRESTAPIKey: "rest"},
			expected: http.StatusNotFound,
		},
		{
			name:     "master key skips client key",
			mutate:   func(c *config.API) { c.App.ClientKey = "client" },
			headers:  masterHeaders(),
			expected: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mutate)

			rec := f.do(t, http.MethodGet, "/classes/Posts/missing", "", tt.headers)

			assert.Equal(t, tt.expected, rec.Code)
			if tt.expected == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestKeyEquals_EmptyConfiguredKeyNeverMatches(t *testing.T) {
	assert.False(t, keyEquals("", ""))
	assert.False(t, keyEquals("x", ""))
	assert.True(t, keyEquals("x", "x"))
}

// ─────────────────────────────────────────────
// Server info
// ─────────────────────────────────────────────

func TestServerInfo_RequiresMaster(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/serverInfo", "", clientHeaders())

	assertAPIError(t, rec, http.StatusForbidden, models.CodeOperationForbidden)
}

func TestServerInfo_Master(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/serverInfo", "", masterHeaders())

	require.Equal(t, http.StatusOK, rec.Code)
	var info models.ServerInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "1.0.0", info.ParseServerVersion)
	assert.Equal(t, []string{"Posts"}, info.Features.LiveQuery.ClassNames)
}

// ─────────────────────────────────────────────
// Objects
// ─────────────────────────────────────────────

func TestCreateAndGetObject(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/classes/Posts", `{"title":"hello","likes":3}`, clientHeaders())

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	id, _ := created["objectId"].(string)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, created["createdAt"])
	assert.Equal(t, "http://localhost:1337/parse/classes/Posts/"+id, rec.Header().Get("Location"))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, models.EventCreate, f.publisher.events[0].Op)
	assert.Equal(t, "Posts", f.publisher.events[0].ClassName)

	rec = f.do(t, http.MethodGet, "/classes/Posts/"+id, "", clientHeaders())

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "hello", got["title"])
	assert.EqualValues(t, 3, got["likes"])
	assert.Equal(t, id, got["objectId"])
}

func TestCreateObject_Errors(t *testing.T) {
	tests := []struct {
		name      string
		className string
		body      string
		code      int
	}{
		{name: "invalid json", className: "Posts", body: `{"title":`, code: models.CodeInvalidJSON},
		{name: "json null", className: "Posts", body: `null`, code: models.CodeInvalidJSON},
		{name: "trailing data", className: "Posts", body: `{} {}`, code: models.CodeInvalidJSON},
		{name: "invalid class name", className: "1Posts", body: `{"title":"x"}`, code: models.CodeInvalidClassName},
		{name: "reserved key", className: "Posts", body: `{"objectId":"x"}`, code: models.CodeInvalidKeyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			rec := f.do(t, http.MethodPost, "/classes/"+tt.className, tt.body, clientHeaders())

			assertAPIError(t, rec, http.StatusBadRequest, tt.code)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestGetObject_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/classes/Posts/nope", "", clientHeaders())

	assertAPIError(t, rec, http.StatusNotFound, models.CodeObjectNotFound)
}

// ─────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────

const strongPassword = "Secret123"

func TestSignUpAndLogin(t *testing.T) {
	f := newFixture(t, func(c *config.API) { c.Email.VerifyUserEmails = false })

	rec := f.do(t, http.MethodPost, "/users", `{"username":"alice","password":"`+strongPassword+`"}`, clientHeaders())

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.NotEmpty(t, created["objectId"])
	assert.True(t, strings.HasPrefix(created["sessionToken"].(string), "r:"))

	rec = f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"`+strongPassword+`"}`, clientHeaders())

	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeBody(t, rec)
	assert.Equal(t, "alice", login["username"])
	assert.Equal(t, created["objectId"], login["objectId"])
	assert.NotEqual(t, created["sessionToken"], login["sessionToken"])

	rec = f.do(t, http.MethodGet, "/login?username=alice&password="+strongPassword, "", clientHeaders())

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignUp_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "missing username", body: `{"password":"` + strongPassword + `"}`, code: models.CodeUsernameMissing},
		{name: "missing password", body: `{"username":"bob"}`, code: models.CodePasswordMissing},
		{name: "weak password", body: `{"username":"bob","password":"weak"}`, code: models.CodeValidationError},
		{name: "password contains username", body: `{"username":"bob","password":"xBOB12345y"}`, code: models.CodeValidationError},
		{name: "invalid json", body: `{`, code: models.CodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			rec := f.do(t, http.MethodPost, "/users", tt.body, clientHeaders())

			assertAPIError(t, rec, http.StatusBadRequest, tt.code)
		})
	}
}

func TestSignUp_UsernameTaken(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"username":"alice","password":"` + strongPassword + `"}`

	rec := f.do(t, http.MethodPost, "/users", body, clientHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/users", body, clientHeaders())

	assertAPIError(t, rec, http.StatusBadRequest, models.CodeUsernameTaken)
}

func TestLogin_WrongPasswordThenLocked(t *testing.T) {
	f := newFixture(t, func(c *config.API) { c.Email.VerifyUserEmails = false })
	rec := f.do(t, http.MethodPost, "/users", `{"username":"alice","password":"`+strongPassword+`"}`, clientHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)

	wrong := `{"username":"alice","password":"Wrong1234"}`
	for range 2 {
		rec = f.do(t, http.MethodPost, "/login", wrong, clientHeaders())
		assertAPIError(t, rec, http.StatusNotFound, models.CodeObjectNotFound)
		assert.Contains(t, rec.Body.String(), "Invalid username/password.")
	}

	rec = f.do(t, http.MethodPost, "/login", wrong, clientHeaders())
	assertAPIError(t, rec, http.StatusNotFound, models.CodeObjectNotFound)
	assert.Contains(t, rec.Body.String(), "please try again after 5 minute(s)")

	// the correct password is rejected while locked
	rec = f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"`+strongPassword+`"}`, clientHeaders())
	assert.Contains(t, rec.Body.String(), "locked")
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/login", `{"username":"ghost","password":"`+strongPassword+`"}`, clientHeaders())

	assertAPIError(t, rec, http.StatusNotFound, models.CodeObjectNotFound)
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

func TestEmailVerificationFlow(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/users", `{"username":"alice","password":"`+strongPassword+`","email":"alice@example.com"}`, clientHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].To)

	rec = f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"`+strongPassword+`"}`, clientHeaders())
	assertAPIError(t, rec, http.StatusBadRequest, models.CodeEmailNotFound)

	rec = f.do(t, http.MethodGet, "/apps/demo/verify_email?username=alice&token=bad", "", nil)
	assertAPIError(t, rec, http.StatusBadRequest, models.CodeObjectNotFound)

	match := tokenPattern.FindStringSubmatch(f.mailer.sent[0].Text)
	require.Len(t, match, 2)
	query := url.Values{"username": {"alice"}, "token": {match[1]}}

	rec = f.do(t, http.MethodGet, "/apps/other/verify_email?"+query.Encode(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/apps/demo/verify_email?"+query.Encode(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"`+strongPassword+`"}`, clientHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["emailVerified"])
}

// ─────────────────────────────────────────────
// Routing
// ─────────────────────────────────────────────

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/nope", "", clientHeaders())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot GET /nope")
}

// ─────────────────────────────────────────────
// errorFromService
// ─────────────────────────────────────────────

func TestErrorFromService_Unknown(t *testing.T) {
	e := errorFromService(assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, e.status)
	assert.Equal(t, models.CodeInternalServerError, e.code)
}

func TestErrorFromService_Wrapped(t *testing.T) {
	e := errorFromService(fmt.Errorf("user creation ended with error: %w", store.ErrUsernameTaken))

	assert.Equal(t, http.StatusBadRequest, e.status)
	assert.Equal(t, models.CodeUsernameTaken, e.code)
}
