// Package users, as part of the user profile module.
// This file, `dto.go`, defines the profile view model.
package users

import "github.com/user/feedbackboard-go/feedback"

// Profile is the data object handed to the profile view: the user's public
// fields plus their feedback entries in insertion order. The password hash
// never appears here.
type Profile struct {
	Username  string              `json:"username"`
	Email     string              `json:"email"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Feedback  []feedback.Feedback `json:"feedback"`
}
