// Package users encapsulates the user profile pages.
// This file, `handlers.go`, is the controller layer for the profile route.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/feedbackboard-go/auth"
	"github.com/user/feedbackboard-go/web"
)

// Handlers provides the profile HTTP handlers.
type Handlers struct {
	service *Service
	views   *web.Renderer
}

// NewHandlers creates new user Handlers.
func NewHandlers(service *Service, views *web.Renderer) *Handlers {
	return &Handlers{service: service, views: views}
}

// HandleProfile renders a user's profile with their feedback. Profiles are
// owner-only: a logged-in visitor asking for someone else's page gets the
// permission notice and goes home, without learning whether that user exists.
func (h *Handlers) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		actor, err := auth.RequireOwner(r.Context(), username)
		if err != nil {
			h.views.Fail(w, r, err)
			return
		}

		profile, err := h.service.GetProfile(r.Context(), username)
		if err != nil {
			h.views.Fail(w, r, err)
			return
		}

		h.views.Render(w, http.StatusOK, "profile", &web.ViewData{
			User:  actor,
			Flash: web.TakeFlash(w, r),
			Data:  profile,
		})
	}
}
