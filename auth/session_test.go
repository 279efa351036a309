package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/feedbackboard-go/config"
)

func newSessionManager(duration time.Duration) *SessionManager {
	return NewSessionManager(config.SessionConfig{
		Secret:     "test-secret",
		Duration:   duration,
		CookieName: "fb_session",
	})
}

// requestWithCookies builds a GET request carrying the cookies a previous
// response set, the way a browser would on its next request.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func TestEstablishThenCurrent(t *testing.T) {
	sm := newSessionManager(time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Establish(rec, "alice"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fb_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	username, ok := sm.Current(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, "alice", username)
}

func TestCurrentWithoutCookieIsAnonymous(t *testing.T) {
	sm := newSessionManager(time.Hour)

	_, ok := sm.Current(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestClearUnbindsSession(t *testing.T) {
	sm := newSessionManager(time.Hour)

	rec := httptest.NewRecorder()
	sm.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fb_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	// A cleared cookie carried back is just an invalid token.
	_, ok := sm.Current(requestWithCookies(t, rec))
	assert.False(t, ok)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	sm := newSessionManager(-1 * time.Minute)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Establish(rec, "alice"))

	_, ok := sm.Current(requestWithCookies(t, rec))
	assert.False(t, ok)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	sm := newSessionManager(time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Establish(rec, "alice"))
	cookie := rec.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"})

	_, ok := sm.Current(r)
	assert.False(t, ok)
}

func TestTokenSignedWithDifferentSecretIsRejected(t *testing.T) {
	issuer := NewSessionManager(config.SessionConfig{
		Secret: "other-secret", Duration: time.Hour, CookieName: "fb_session",
	})
	verifier := newSessionManager(time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Establish(rec, "alice"))

	_, ok := verifier.Current(requestWithCookies(t, rec))
	assert.False(t, ok)
}

func TestStateMachineRoundTrip(t *testing.T) {
	sm := newSessionManager(time.Hour)

	// Anonymous -> Authenticated(alice)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Establish(rec, "alice"))
	username, ok := sm.Current(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, "alice", username)

	// Authenticated -> Anonymous
	rec2 := httptest.NewRecorder()
	sm.Clear(rec2)
	_, ok = sm.Current(requestWithCookies(t, rec2))
	assert.False(t, ok)
}
