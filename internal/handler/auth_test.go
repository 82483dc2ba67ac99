package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamjournal/dreamjournal/internal/handler/dto"
)

var testCookies = CookieConfig{SessionName: "dreamlog_session", Secure: true, TTL: time.Hour}

func newAuthHandler() (*AuthHandler, *fakeAuthService) {
	svc := &fakeAuthService{users: newFakeUserService(), password: make(map[string]string)}
	return NewAuthHandler(svc, testCookies, discardLogger), svc
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestAuthHandler_SignupSetsCookies(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, newRequest(http.MethodPost, "/signup", `{"username":"sleeper","password":"correct horse"}`, 0, 0))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"username":"sleeper"}`, rec.Body.String())

	cookies := cookiesByName(rec)
	session := cookies["dreamlog_session"]
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.Equal(t, 3600, session.MaxAge)

	require.NotNil(t, cookies["user_id"])
	assert.Equal(t, "1", cookies["user_id"].Value)
	assert.False(t, cookies["user_id"].HttpOnly)
	assert.Equal(t, "sleeper", cookies["username"].Value)
}

func TestAuthHandler_SignupFailuresAre422(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler()
	h.Signup(httptest.NewRecorder(), newRequest(http.MethodPost, "/signup", `{"username":"taken-name","password":"longenough"}`, 0, 0))

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing password", `{"username":"another"}`, "password"},
		{"short username", `{"username":"abc","password":"longenough"}`, "username"},
		{"duplicate", `{"username":"taken-name","password":"longenough"}`, "username"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.Signup(rec, newRequest(http.MethodPost, "/signup", tt.body, 0, 0))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, tt.name)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, msgSignupFailed, body.Error, tt.name)
		assert.Contains(t, body.Details, tt.field, tt.name)
		assert.Empty(t, rec.Result().Cookies(), tt.name)
	}
}

func TestAuthHandler_LoginFailuresLookIdentical(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler()
	h.Signup(httptest.NewRecorder(), newRequest(http.MethodPost, "/signup", `{"username":"sleeper","password":"correct horse"}`, 0, 0))

	wrongPassword := httptest.NewRecorder()
	h.Login(wrongPassword, newRequest(http.MethodPost, "/login", `{"username":"sleeper","password":"wrong horse"}`, 0, 0))

	unknownUser := httptest.NewRecorder()
	h.Login(unknownUser, newRequest(http.MethodPost, "/login", `{"username":"nobody","password":"correct horse"}`, 0, 0))

	malformed := httptest.NewRecorder()
	h.Login(malformed, newRequest(http.MethodPost, "/login", `not json`, 0, 0))

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser, malformed} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to login, check username or password","code":"INVALID_CREDENTIALS"}`, rec.Body.String())
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler()
	h.Signup(httptest.NewRecorder(), newRequest(http.MethodPost, "/signup", `{"username":"sleeper","password":"correct horse"}`, 0, 0))

	rec := httptest.NewRecorder()
	h.Login(rec, newRequest(http.MethodPost, "/login", `{"username":"sleeper","password":"correct horse"}`, 0, 0))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"username":"sleeper"}`, rec.Body.String())
	assert.NotNil(t, cookiesByName(rec)["dreamlog_session"])
}

func TestAuthHandler_LogoutClearsEverything(t *testing.T) {
	t.Parallel()

	h, svc := newAuthHandler()

	req := newRequest(http.MethodDelete, "/logout", "", 0, 1)
	req.AddCookie(&http.Cookie{Name: "dreamlog_session", Value: "token"})

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []string{"token"}, svc.loggedOut)

	cookies := cookiesByName(rec)
	for _, name := range []string{"dreamlog_session", "user_id", "username"} {
		c := cookies[name]
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value, name)
		assert.Less(t, c.MaxAge, 0, name)
	}
}

func TestAuthHandler_LogoutWithoutSession(t *testing.T) {
	t.Parallel()

	h, svc := newAuthHandler()

	rec := httptest.NewRecorder()
	h.Logout(rec, newRequest(http.MethodDelete, "/logout", "", 0, 0))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.loggedOut)
}

func TestAuthHandler_LogoutIgnoresUnresolvedCookie(t *testing.T) {
	t.Parallel()

	h, svc := newAuthHandler()

	// A cookie LoadSession could not resolve never reaches the store.
	req := newRequest(http.MethodDelete, "/logout", "", 0, 0)
	req.AddCookie(&http.Cookie{Name: "dreamlog_session", Value: "stale"})

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.loggedOut)
	assert.Less(t, cookiesByName(rec)["dreamlog_session"].MaxAge, 0)
}
