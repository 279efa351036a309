// Package users, as part of the user profile module.
// This file, `service.go`, contains the business logic for profile pages.
package users

import (
	"context"

	"github.com/user/feedbackboard-go/auth"
	"github.com/user/feedbackboard-go/feedback"
)

// Service assembles profile views from the credential store and the feedback
// repository. It holds no queries of its own; both halves of the profile
// already have an owner in their home module.
type Service struct {
	users    *auth.Service
	feedback feedback.Service
}

// NewService creates a new users Service.
func NewService(users *auth.Service, fb feedback.Service) *Service {
	return &Service{users: users, feedback: fb}
}

// GetProfile returns the profile for the given username: the user record plus
// all their feedback. A missing user surfaces as the credential store's
// NotFound error.
func (s *Service) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	entries, err := s.feedback.ListByOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Feedback:  entries,
	}, nil
}
