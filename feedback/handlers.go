// Package feedback, as part of the feedback module.
// This file, `handlers.go`, handles the HTTP requests for adding, editing, and
// deleting feedback. All of these routes sit behind the session middleware, so
// a username is always present in the request context by the time they run;
// the ownership decisions are still made explicitly per operation.
package feedback

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/feedbackboard-go/apperror"
	"github.com/user/feedbackboard-go/auth"
	"github.com/user/feedbackboard-go/forms"
	"github.com/user/feedbackboard-go/web"
)

// Handler provides the feedback HTTP handlers over the Service interface.
type Handler struct {
	service Service
	views   *web.Renderer
}

// NewHandler creates a new feedback Handler.
func NewHandler(service Service, views *web.Renderer) *Handler {
	return &Handler{service: service, views: views}
}

// RegisterRoutes registers the feedback routes on the given router. The add
// flow lives under the owner's profile path; update and delete address the
// record directly by id.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/users/{username}/feedback/add", h.handleAddForm)
	router.Post("/users/{username}/feedback/add", h.handleAdd)
	router.Get("/feedback/{id}/update", h.handleUpdateForm)
	router.Post("/feedback/{id}/update", h.handleUpdate)
	router.Post("/feedback/{id}/delete", h.handleDelete)
}

// viewData assembles the common template envelope for these pages.
func (h *Handler) viewData(w http.ResponseWriter, r *http.Request) *web.ViewData {
	username, _ := auth.UsernameFromContext(r.Context())
	return &web.ViewData{
		User:   username,
		Flash:  web.TakeFlash(w, r),
		Errors: map[string]string{},
		Form:   map[string]string{},
	}
}

// recordID parses the {id} route parameter. A non-numeric id gets the same
// not-found response as a missing record.
func recordID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, apperror.NewNotFoundError("feedback not found", nil)
	}
	return int32(id), nil
}

// handleAddForm renders the empty add-feedback form, owner only.
func (h *Handler) handleAddForm(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "username")
	if _, err := auth.RequireOwner(r.Context(), owner); err != nil {
		h.views.Fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "feedback_add", h.viewData(w, r))
}

// handleAdd processes an add-feedback submission for the owner in the path.
func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "username")
	actor, err := auth.CurrentUser(r.Context())
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.views.Fail(w, r, apperror.NewBadRequestError("invalid form submission", err))
		return
	}
	form := Form{
		Title:   forms.Field(r, "title"),
		Content: forms.Field(r, "content"),
	}
	if errs := forms.Validate(form); errs.Any() {
		h.renderForm(w, r, "feedback_add", form, errs)
		return
	}

	if _, err := h.service.Create(r.Context(), actor, owner, form); err != nil {
		h.views.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/users/"+owner, http.StatusSeeOther)
}

// handleUpdateForm renders the edit form prefilled with the current record.
// The record is loaded before the ownership check so a wrong owner is told
// "forbidden" rather than learning whether the id exists from the order of
// checks; a missing record is a plain 404 for everyone.
func (h *Handler) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}
	fb, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}
	if _, err := auth.RequireOwner(r.Context(), fb.Username); err != nil {
		h.views.Fail(w, r, err)
		return
	}

	data := h.viewData(w, r)
	data.Form = map[string]string{
		"title":   fb.Title,
		"content": fb.Content,
	}
	h.views.Render(w, http.StatusOK, "feedback_update", data)
}

// handleUpdate processes an edit submission. The service re-loads the record
// and re-applies the guard, so the authorization decision does not depend on
// what this handler checked a request earlier.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}
	actor, err := auth.CurrentUser(r.Context())
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.views.Fail(w, r, apperror.NewBadRequestError("invalid form submission", err))
		return
	}
	form := Form{
		Title:   forms.Field(r, "title"),
		Content: forms.Field(r, "content"),
	}
	if errs := forms.Validate(form); errs.Any() {
		h.renderForm(w, r, "feedback_update", form, errs)
		return
	}

	updated, err := h.service.Update(r.Context(), actor, id, form)
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/users/"+updated.Username, http.StatusSeeOther)
}

// handleDelete processes a delete submission and returns to the owner's profile.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}
	actor, err := auth.CurrentUser(r.Context())
	if err != nil {
		h.views.Fail(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.views.Fail(w, r, err)
		return
	}
	// Only the owner reaches this point, so their own profile is the place to go.
	http.Redirect(w, r, "/users/"+actor, http.StatusSeeOther)
}

// renderForm re-renders an add or edit form with the submitted values and
// field errors.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, view string, form Form, errs forms.Errors) {
	data := h.viewData(w, r)
	data.Errors = errs
	data.Form = map[string]string{
		"title":   form.Title,
		"content": form.Content,
	}
	h.views.Render(w, http.StatusOK, view, data)
}
