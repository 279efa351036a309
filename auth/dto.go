// Package auth provides authentication and authorization functionality.
// This file, `dto.go`, defines the structures bound from the registration and
// login forms. The `form` tags name the HTML input fields; the `validate` tags
// are consumed by the forms package, which is the only place raw field values
// are turned into these structs.
package auth

// RegisterRequest carries the registration form fields.
// The max lengths mirror the column widths in the users table, so a value that
// passes validation can never fail the insert on length.
type RegisterRequest struct {
	Username  string `form:"username" validate:"required,max=20"`
	// bcrypt only considers the first 72 bytes of input, hence the cap.
	Password  string `form:"password" validate:"required,min=6,max=72"`
	Email     string `form:"email" validate:"required,email,max=50"`
	FirstName string `form:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name" validate:"required,max=30"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `form:"username" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
}
