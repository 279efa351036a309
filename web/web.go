// Package web is the template-rendering collaborator for the feedback board.
// The core hands it a view name and a data object; markup is entirely this
// package's business. It also owns the flash-message mechanism (a short-lived
// cookie, read once and cleared) and the boundary mapping from application
// errors to user-visible redirects and pages, the one place where the error
// taxonomy turns into surface behavior.
package web

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/user/feedbackboard-go/apperror"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists every named view; each is parsed together with the shared layout.
var pages = []string{"register", "login", "profile", "feedback_add", "feedback_update", "error"}

// flashCookieName carries a one-shot notice across a redirect.
const flashCookieName = "fb_flash"

// ViewData is the envelope passed to every template.
type ViewData struct {
	// User is the authenticated username, empty for anonymous visitors.
	User string
	// Flash is a one-shot notice taken from the flash cookie.
	Flash string
	// Errors maps form field names to validation messages for re-rendered forms.
	Errors map[string]string
	// Form holds the submitted field values so a re-rendered form keeps what
	// the user typed. Passwords are never put back here.
	Form map[string]string
	// Data is the view-specific payload (a profile, an error message, ...).
	Data any
}

// Renderer holds the parsed templates, one entry per named view.
type Renderer struct {
	views map[string]*template.Template
}

// NewRenderer parses all embedded templates up front so a malformed template
// fails the startup, not the first request that happens to hit it.
func NewRenderer() (*Renderer, error) {
	views := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", page, err)
		}
		views[page] = t
	}
	return &Renderer{views: views}, nil
}

// Render executes the named view with the given data. The template is executed
// into a buffer first so an execution error can still become a clean 500
// instead of a half-written page.
func (rd *Renderer) Render(w http.ResponseWriter, status int, view string, data *ViewData) {
	t, ok := rd.views[view]
	if !ok {
		log.Printf("render: unknown view %q", view)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &ViewData{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("render: executing view %q: %v", view, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// SetFlash stores a one-shot notice for the next rendered page.
// The value is base64-encoded because cookie values cannot carry spaces.
func SetFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash reads and clears the pending flash notice, if any.
func TakeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	// Clear it regardless of whether decoding succeeds; a flash is read once.
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// Fail converts an application error into its surface behavior: a missing
// session redirects to login, a wrong owner gets a permission flash and a
// redirect home, a missing resource gets the 404 page, anything else the 500
// page.
// Handlers call this for any error they don't turn into a re-rendered form.
func (rd *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	switch {
	case apperror.IsAuthError(appErr):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case apperror.IsUnauthorizedError(appErr):
		SetFlash(w, "You don't have permission to do that.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case apperror.IsNotFound(appErr):
		rd.Render(w, http.StatusNotFound, "error", &ViewData{Data: appErr.Message})
	default:
		// 5xx details stay in the log; the page gets a generic message.
		log.Printf("request %s %s failed: %v", r.Method, r.URL.Path, appErr)
		rd.Render(w, appErr.StatusCode(), "error", &ViewData{Data: "Something went wrong. Please try again."})
	}
}
