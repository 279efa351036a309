// Package auth, as part of the authentication module.
// This file, `handlers.go`, handles the HTTP requests for registration, login,
// and logout. It is the controller layer: it binds and validates form input,
// calls the service, and converts outcomes into rendered pages or redirects.
package auth

import (
	"net/http"

	"github.com/user/feedbackboard-go/apperror"
	"github.com/user/feedbackboard-go/forms"
	"github.com/user/feedbackboard-go/web"
)

// Handlers wraps the auth Service, the session manager, and the renderer to
// provide the authentication HTTP handlers.
type Handlers struct {
	service  *Service
	sessions *SessionManager
	views    *web.Renderer
}

// NewHandlers creates a new Handlers instance with its dependencies injected.
func NewHandlers(service *Service, sessions *SessionManager, views *web.Renderer) *Handlers {
	return &Handlers{service: service, sessions: sessions, views: views}
}

// viewData assembles the common envelope for these pages: the current session
// user for the navigation bar and any pending flash notice. Register and login
// sit outside the session middleware, so the session is resolved directly.
func (h *Handlers) viewData(w http.ResponseWriter, r *http.Request) *web.ViewData {
	username, _ := h.sessions.Current(r)
	return &web.ViewData{
		User:   username,
		Flash:  web.TakeFlash(w, r),
		Errors: map[string]string{},
		Form:   map[string]string{},
	}
}

// HandleHome redirects the root path to the registration page.
func (h *Handlers) HandleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	}
}

// HandleRegisterForm renders the empty registration form.
func (h *Handlers) HandleRegisterForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.views.Render(w, http.StatusOK, "register", h.viewData(w, r))
	}
}

// HandleRegister processes a registration submission. Validation failures and
// uniqueness conflicts re-render the form with field errors; success
// establishes a session and redirects to the new user's profile.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.views.Fail(w, r, apperror.NewBadRequestError("invalid form submission", err))
			return
		}

		req := RegisterRequest{
			Username: forms.Field(r, "username"),
			// Passwords are taken verbatim; trimming would silently change them.
			Password:  r.PostFormValue("password"),
			Email:     forms.Field(r, "email"),
			FirstName: forms.Field(r, "first_name"),
			LastName:  forms.Field(r, "last_name"),
		}

		errs := forms.Validate(req)
		if errs.Any() {
			h.renderRegister(w, r, req, errs)
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			if appErr, ok := apperror.FromError(err); ok && apperror.IsConflictError(appErr) {
				// Attach the conflict to the field it names so the user can fix
				// the right input.
				if appErr.Message == "email is already registered" {
					errs.Add("email", "That email is already registered.")
				} else {
					errs.Add("username", "That username is already taken.")
				}
				h.renderRegister(w, r, req, errs)
				return
			}
			h.views.Fail(w, r, err)
			return
		}

		if err := h.sessions.Establish(w, user.Username); err != nil {
			h.views.Fail(w, r, apperror.NewInternalError("failed to establish session", err))
			return
		}
		http.Redirect(w, r, "/users/"+user.Username, http.StatusSeeOther)
	}
}

// HandleLoginForm renders the empty login form.
func (h *Handlers) HandleLoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.views.Render(w, http.StatusOK, "login", h.viewData(w, r))
	}
}

// HandleLogin processes a login submission. Any authentication failure,
// unknown username or wrong password alike, re-renders the form with the same
// generic message; the page never reveals which part was wrong.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.views.Fail(w, r, apperror.NewBadRequestError("invalid form submission", err))
			return
		}

		req := LoginRequest{
			Username: forms.Field(r, "username"),
			Password: r.PostFormValue("password"),
		}

		errs := forms.Validate(req)
		if errs.Any() {
			h.renderLogin(w, r, req, errs)
			return
		}

		user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if apperror.IsAuthError(err) {
				errs.Add("password", "Invalid username or password.")
				h.renderLogin(w, r, req, errs)
				return
			}
			h.views.Fail(w, r, err)
			return
		}

		if err := h.sessions.Establish(w, user.Username); err != nil {
			h.views.Fail(w, r, apperror.NewInternalError("failed to establish session", err))
			return
		}
		http.Redirect(w, r, "/users/"+user.Username, http.StatusSeeOther)
	}
}

// HandleLogout clears the session and returns to the home page.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// renderRegister re-renders the registration form with the submitted values
// (minus the password) and the field errors.
func (h *Handlers) renderRegister(w http.ResponseWriter, r *http.Request, req RegisterRequest, errs forms.Errors) {
	data := h.viewData(w, r)
	data.Errors = errs
	data.Form = map[string]string{
		"username":   req.Username,
		"email":      req.Email,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	}
	h.views.Render(w, http.StatusOK, "register", data)
}

// renderLogin re-renders the login form with the submitted username and the
// field errors.
func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, req LoginRequest, errs forms.Errors) {
	data := h.viewData(w, r)
	data.Errors = errs
	data.Form = map[string]string{"username": req.Username}
	h.views.Render(w, http.StatusOK, "login", data)
}
