package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/feedbackboard-go/auth"
	"github.com/user/feedbackboard-go/web"
)

// newProfileRouter mounts the profile route behind a middleware that binds the
// given username to the context, standing in for the session middleware.
func newProfileRouter(t *testing.T, service *Service, username string) chi.Router {
	t.Helper()
	views, err := web.NewRenderer()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.NewContextWithUsername(req.Context(), username)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/users/{username}", NewHandlers(service, views).HandleProfile())
	return r
}

func TestHandleProfile_RendersOwnProfile(t *testing.T) {
	service, mock := newMockService(t)

	mock.ExpectQuery("SELECT username, password, email, first_name, last_name FROM users").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"username", "password", "email", "first_name", "last_name"}).
			AddRow("alice", "irrelevant-hash", "alice@example.com", "Alice", "Liddell"))
	mock.ExpectQuery("SELECT id, title, content, username FROM feedback").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "content", "username"}).
			AddRow(int32(1), "Great board", "Keep it up.", "alice"))

	router := newProfileRouter(t, service, "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/alice", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")
	assert.Contains(t, rec.Body.String(), "Great board")
}

// Asking for someone else's profile never touches the database; the guard
// fires first, so the response does not reveal whether that user exists.
func TestHandleProfile_OtherUserRedirectsHome(t *testing.T) {
	service, mock := newMockService(t)

	router := newProfileRouter(t, service, "bob")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/alice", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
