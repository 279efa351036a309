package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/feedbackboard-go/apperror"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	views, err := NewRenderer()
	require.NoError(t, err)
	return views
}

func TestNewRenderer_ParsesEveryPage(t *testing.T) {
	views := newRenderer(t)
	for _, page := range pages {
		assert.Contains(t, views.views, page)
	}
}

func TestRender_UnknownViewIs500(t *testing.T) {
	views := newRenderer(t)

	rec := httptest.NewRecorder()
	views.Render(rec, http.StatusOK, "no-such-view", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRender_WritesStatusAndBody(t *testing.T) {
	views := newRenderer(t)

	rec := httptest.NewRecorder()
	views.Render(rec, http.StatusOK, "login", &ViewData{Flash: "Welcome back"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Welcome back")
}

func TestFlash_SetThenTake(t *testing.T) {
	setRec := httptest.NewRecorder()
	SetFlash(setRec, "Feedback deleted.")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range setRec.Result().Cookies() {
		req.AddCookie(c)
	}

	takeRec := httptest.NewRecorder()
	assert.Equal(t, "Feedback deleted.", TakeFlash(takeRec, req))

	// Taking clears the cookie.
	cookies := takeRec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, flashCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestTakeFlash_NoCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TakeFlash(rec, req))
}

func TestFail_AuthErrorRedirectsToLogin(t *testing.T) {
	views := newRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/alice", nil)
	views.Fail(rec, req, apperror.NewAuthError("authentication required", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestFail_UnauthorizedFlashesAndRedirectsHome(t *testing.T) {
	views := newRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/alice", nil)
	views.Fail(rec, req, apperror.NewUnauthorizedError("not yours", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, flashCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestFail_NotFoundRendersErrorPage(t *testing.T) {
	views := newRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/feedback/404/update", nil)
	views.Fail(rec, req, apperror.NewNotFoundError("feedback 404 not found", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "feedback 404 not found")
}

// A plain error that is not an AppError must never leak its message to the page.
func TestFail_UnknownErrorIsGeneric500(t *testing.T) {
	views := newRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	views.Fail(rec, req, errors.New("pq: connection refused at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}
